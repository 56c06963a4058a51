// Package merge is the merge engine: it combines two well-typed values of the
// same schema node according to the policies declared on their fields.
//
// The engine is total and pure. It never mutates its inputs; results may share
// untouched sub-values with them, which is safe because nothing mutates a value
// after it has been built.
package merge

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// Merger is implemented by collections and unions, whose merge rule is not a
// plain field-by-field walk. Merge is only called when both sides are present;
// right always has the same dynamic type as the receiver.
type Merger interface {
	Merge(right any, path tree.Path) (any, error)
}

// CrossVariantError reports a union merge between two variants for which the
// dialect declares no rule.
type CrossVariantError struct {
	Path  tree.Path
	Left  string
	Right string
}

func (e *CrossVariantError) Error() string {
	return fmt.Sprintf("%s: cannot merge %s variant with %s variant", e.Path, e.Left, e.Right)
}

// IsCrossVariantError reports whether err wraps a CrossVariantError.
func IsCrossVariantError(err error) bool {
	var cv *CrossVariantError
	return errors.As(err, &cv)
}

var (
	mergerType = reflect.TypeFor[Merger]()
	valueType  = reflect.TypeFor[tree.Value]()
	objPtrType = reflect.TypeFor[*tree.Object]()
)

// Merge combines left and right with the default policy of T: records recurse
// field by field, collections and unions follow their own rules, everything
// else is replaced by right when right is present.
func Merge[T any](left, right T) (T, error) {
	return At(left, right, nil)
}

// At is Merge for values nested at path, so errors name their full location.
// Merger implementations use it to merge the record behind a union variant.
func At[T any](left, right T, path tree.Path) (T, error) {
	out, err := Values(left, right, path)
	if err != nil {
		var zero T
		return zero, err
	}
	if out == nil {
		var zero T
		return zero, nil
	}
	return out.(T), nil
}

// Values merges two values of the same dynamic type at path.
func Values(left, right any, path tree.Path) (any, error) {
	if lt, ok := left.(tree.Value); ok {
		if rt, ok := right.(tree.Value); ok {
			return tree.Merge(lt, rt), nil
		}
	}
	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	if !lv.IsValid() {
		return right, nil
	}
	if !rv.IsValid() {
		return left, nil
	}
	if lv.Type() != rv.Type() {
		return nil, fmt.Errorf("merge: %s: type mismatch %s vs %s", path, lv.Type(), rv.Type())
	}
	// Work on addressable copies so struct fields can be read uniformly.
	l := reflect.New(lv.Type()).Elem()
	l.Set(lv)
	r := reflect.New(rv.Type()).Elem()
	r.Set(rv)
	out, err := value(l, r, schema.PolicyAuto, nil, path)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// Policy applies an explicit policy to two values of the same type.
func Policy[T any](left, right T, p schema.Policy, path tree.Path) (T, error) {
	l := reflect.ValueOf(&left).Elem()
	r := reflect.ValueOf(&right).Elem()
	out, err := value(l, r, p, nil, path)
	if err != nil {
		var zero T
		return zero, err
	}
	return out.Interface().(T), nil
}

func value(l, r reflect.Value, p schema.Policy, field *schema.Field, path tree.Path) (reflect.Value, error) {
	lAbsent, rAbsent := schema.IsAbsent(l), schema.IsAbsent(r)

	switch p {
	case schema.PolicyOverwrite:
		if rAbsent {
			return l, nil
		}
		return r, nil
	case schema.PolicySkip:
		if !lAbsent {
			return l, nil
		}
		return r, nil
	case schema.PolicyNotDefault:
		if rAbsent {
			return l, nil
		}
		if field != nil && field.HasDefault && reflect.DeepEqual(r.Interface(), field.Default.Interface()) {
			return l, nil
		}
		return r, nil
	case schema.PolicyIfTrue:
		if truthy(r) {
			return r, nil
		}
		return l, nil
	case schema.PolicyAuto:
		p = autoPolicy(l.Type())
		if p == schema.PolicyOverwrite {
			if rAbsent {
				return l, nil
			}
			return r, nil
		}
	}

	// union and recurse
	if rAbsent {
		return l, nil
	}
	if lAbsent {
		return r, nil
	}

	t := l.Type()
	if t.Implements(mergerType) && t.Kind() != reflect.Pointer {
		merged, err := l.Interface().(Merger).Merge(r.Interface(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(merged))
		return out, nil
	}

	switch {
	case t == valueType:
		merged := tree.Merge(l.Interface().(tree.Value), r.Interface().(tree.Value))
		out := reflect.New(t).Elem()
		if merged != nil {
			out.Set(reflect.ValueOf(&merged).Elem())
		}
		return out, nil
	case t == objPtrType:
		merged := tree.Merge(l.Interface().(*tree.Object), r.Interface().(*tree.Object))
		return reflect.ValueOf(merged), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := value(l.Elem(), r.Elem(), p, field, path)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t.Elem())
		out.Elem().Set(elem)
		return out, nil
	case reflect.Struct:
		return record(l, r, path)
	case reflect.Slice:
		out := reflect.MakeSlice(t, 0, l.Len()+r.Len())
		out = reflect.AppendSlice(out, l)
		out = reflect.AppendSlice(out, r)
		return out, nil
	case reflect.Map:
		out := reflect.MakeMapWithSize(t, l.Len()+r.Len())
		iter := l.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		iter = r.MapRange()
		for iter.Next() {
			k := iter.Key()
			if existing := l.MapIndex(k); existing.IsValid() {
				merged, err := value(copyOf(existing), copyOf(iter.Value()), schema.PolicyAuto, nil, path.Key(k.String()))
				if err != nil {
					return reflect.Value{}, err
				}
				out.SetMapIndex(k, merged)
				continue
			}
			out.SetMapIndex(k, iter.Value())
		}
		return out, nil
	default:
		return r, nil
	}
}

func copyOf(v reflect.Value) reflect.Value {
	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	return out
}

func record(l, r reflect.Value, path tree.Path) (reflect.Value, error) {
	rec, err := schema.Describe(l.Type())
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(l.Type()).Elem()
	for i := range rec.Fields {
		f := &rec.Fields[i]
		merged, err := value(l.Field(f.Index), r.Field(f.Index), f.Policy, f, path.Key(f.Name))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Field(f.Index).Set(merged)
	}
	if rec.Extra >= 0 {
		le, _ := l.Field(rec.Extra).Interface().(*tree.Object)
		re, _ := r.Field(rec.Extra).Interface().(*tree.Object)
		switch {
		case le == nil:
			out.Field(rec.Extra).Set(reflect.ValueOf(re))
		case re == nil:
			out.Field(rec.Extra).Set(reflect.ValueOf(le))
		default:
			out.Field(rec.Extra).Set(reflect.ValueOf(tree.Merge(le, re)))
		}
	}
	return out, nil
}

func autoPolicy(t reflect.Type) schema.Policy {
	if t == valueType || t == objPtrType {
		return schema.PolicyRecurse
	}
	if t.Kind() != reflect.Pointer && t.Implements(mergerType) {
		return schema.PolicyUnion
	}
	switch t.Kind() {
	case reflect.Struct:
		return schema.PolicyRecurse
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct && !t.Elem().Implements(mergerType) {
			return schema.PolicyRecurse
		}
		if t.Elem().Implements(mergerType) {
			return schema.PolicyUnion
		}
		return schema.PolicyOverwrite
	case reflect.Map:
		return schema.PolicyUnion
	default:
		return schema.PolicyOverwrite
	}
}

func truthy(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Pointer:
		return !v.IsNil() && v.Elem().Kind() == reflect.Bool && v.Elem().Bool()
	default:
		return !schema.IsAbsent(v)
	}
}
