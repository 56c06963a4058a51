package schema

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/sketch/internal/tree"
)

// Decoder is implemented by types that decode themselves from a tree.
// It is never called with a null value: null always decodes to the zero value.
type Decoder interface {
	DecodeTree(v tree.Value, path tree.Path) error
}

// Encoder is implemented by types that encode themselves into a tree.
// It is only called on present values.
type Encoder interface {
	EncodeTree() (tree.Value, error)
}

// Zeroer reports absence for types whose zero value is not the absent value
// or that hold references.
type Zeroer interface {
	IsZero() bool
}

// Enum is implemented by string types restricted to a fixed set of values.
// Matching is case-insensitive; the spelling from the source is kept.
type Enum interface {
	EnumValues() []string
}

var (
	valueType     = reflect.TypeFor[tree.Value]()
	objectPtrType = reflect.TypeFor[*tree.Object]()
	decoderType   = reflect.TypeFor[Decoder]()
	encoderType   = reflect.TypeFor[Encoder]()
	zeroerType    = reflect.TypeFor[Zeroer]()
	enumType      = reflect.TypeFor[Enum]()
)

// Decode decodes v into out, which must be a non-nil pointer.
func Decode(v tree.Value, out any, path tree.Path) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("schema: Decode needs a non-nil pointer, got %T", out)
	}
	return decodeValue(v, rv.Elem(), path)
}

// DecodeAs decodes v into a fresh T.
func DecodeAs[T any](v tree.Value, path tree.Path) (T, error) {
	var out T
	err := Decode(v, &out, path)
	return out, err
}

func isNull(v tree.Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(tree.Null)
	return ok
}

func decodeValue(v tree.Value, rv reflect.Value, path tree.Path) error {
	t := rv.Type()
	switch {
	case t == valueType:
		if v == nil {
			v = tree.Null{}
		}
		rv.Set(reflect.ValueOf(&v).Elem())
		return nil
	case t == objectPtrType:
		if isNull(v) {
			rv.Set(reflect.Zero(t))
			return nil
		}
		obj, ok := v.(*tree.Object)
		if !ok {
			return TypeError(path, "object", v)
		}
		rv.Set(reflect.ValueOf(obj))
		return nil
	}

	if isNull(v) {
		rv.Set(reflect.Zero(t))
		return nil
	}

	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(decoderType) {
		fresh := reflect.New(t)
		if err := fresh.Interface().(Decoder).DecodeTree(v, path); err != nil {
			return err
		}
		rv.Set(fresh.Elem())
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := reflect.New(t.Elem())
		if err := decodeValue(v, elem.Elem(), path); err != nil {
			return err
		}
		rv.Set(elem)
		return nil

	case reflect.String:
		s, err := ScalarText(v, path)
		if err != nil {
			return err
		}
		if t.Implements(enumType) {
			canon, ok := matchEnum(reflect.Zero(t).Interface().(Enum), s)
			if !ok {
				return Errorf(path, "invalid value %q: must be one of %s",
					s, strings.Join(reflect.Zero(t).Interface().(Enum).EnumValues(), ", "))
			}
			s = canon
		}
		rv.SetString(s)
		return nil

	case reflect.Bool:
		b, ok := v.(tree.Bool)
		if !ok {
			if s, isStr := v.(tree.String); isStr {
				if parsed, err := strconv.ParseBool(string(s)); err == nil {
					rv.SetBool(parsed)
					return nil
				}
			}
			return TypeError(path, "boolean", v)
		}
		rv.SetBool(bool(b))
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := integer(v, path)
		if err != nil {
			return err
		}
		if rv.OverflowInt(n) {
			return Errorf(path, "integer %d out of range", n)
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := integer(v, path)
		if err != nil {
			return err
		}
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return Errorf(path, "integer %d out of range", n)
		}
		rv.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		switch num := v.(type) {
		case tree.Float:
			rv.SetFloat(float64(num))
		case tree.Int:
			rv.SetFloat(float64(num))
		default:
			return TypeError(path, "number", v)
		}
		return nil

	case reflect.Slice:
		arr, ok := v.(tree.Array)
		if !ok {
			return TypeError(path, "array", v)
		}
		out := reflect.MakeSlice(t, len(arr), len(arr))
		for i, elem := range arr {
			if err := decodeValue(elem, out.Index(i), path.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("schema: %s: map keys must be strings", t)
		}
		obj, ok := v.(*tree.Object)
		if !ok {
			return TypeError(path, "object", v)
		}
		out := reflect.MakeMapWithSize(t, obj.Len())
		err := obj.Each(func(key string, elem tree.Value) error {
			ev := reflect.New(t.Elem()).Elem()
			if err := decodeValue(elem, ev, path.Key(key)); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
			return nil
		})
		if err != nil {
			return err
		}
		rv.Set(out)
		return nil

	case reflect.Struct:
		return decodeStruct(v, rv, path)

	default:
		return fmt.Errorf("schema: unsupported type %s at %s", t, path)
	}
}

func decodeStruct(v tree.Value, rv reflect.Value, path tree.Path) error {
	obj, ok := v.(*tree.Object)
	if !ok {
		return TypeError(path, "object", v)
	}
	rec, err := Describe(rv.Type())
	if err != nil {
		return err
	}
	rv.Set(reflect.Zero(rv.Type()))

	seen := make([]string, len(rec.Fields))
	var extra *tree.Object
	err = obj.Each(func(key string, elem tree.Value) error {
		idx, known := rec.lookup[key]
		if !known {
			if rec.Extra < 0 {
				return Errorf(path.Key(key), "unknown field %q", key)
			}
			if extra == nil {
				extra = tree.NewObject()
			}
			extra.Set(key, elem)
			return nil
		}
		if seen[idx] != "" {
			return Errorf(path.Key(key), "field %q given twice (also as %q)", rec.Fields[idx].Name, seen[idx])
		}
		seen[idx] = key
		return decodeValue(elem, rv.Field(rec.Fields[idx].Index), path.Key(key))
	})
	if err != nil {
		return err
	}
	if extra != nil {
		rv.Field(rec.Extra).Set(reflect.ValueOf(extra))
	}
	for i, f := range rec.Fields {
		if seen[i] == "" && f.HasDefault {
			rv.Field(f.Index).Set(f.Default)
		}
	}
	return nil
}

func matchEnum(e Enum, s string) (string, bool) {
	for _, candidate := range e.EnumValues() {
		if strings.EqualFold(candidate, s) {
			return candidate, true
		}
	}
	return "", false
}

// ScalarText returns the text of a scalar. Numbers and booleans are accepted
// where a string is expected, since YAML and TOML sources routinely write
// versions and ports unquoted.
func ScalarText(v tree.Value, path tree.Path) (string, error) {
	switch val := v.(type) {
	case tree.String:
		return string(val), nil
	case tree.Int, tree.Float, tree.Bool:
		return tree.ScalarString(val), nil
	default:
		return "", TypeError(path, "string", v)
	}
}

func integer(v tree.Value, path tree.Path) (int64, error) {
	switch num := v.(type) {
	case tree.Int:
		return int64(num), nil
	case tree.Float:
		if float64(num) != math.Trunc(float64(num)) {
			return 0, Errorf(path, "expected integer, found %s", tree.ScalarString(num))
		}
		return int64(num), nil
	case tree.String:
		n, err := strconv.ParseInt(string(num), 10, 64)
		if err != nil {
			return 0, TypeError(path, "integer", v)
		}
		return n, nil
	default:
		return 0, TypeError(path, "integer", v)
	}
}

// Encode encodes a value into a tree. Absent values encode as Null; callers
// that care use Absent first.
func Encode(in any) (tree.Value, error) {
	return encodeValue(reflect.ValueOf(in))
}

// Absent reports whether a value is absent: a nil pointer, slice, map or
// interface, a zero scalar, or a Zeroer reporting zero.
func Absent(in any) bool {
	return IsAbsent(reflect.ValueOf(in))
}

// IsAbsent is Absent for reflect values.
func IsAbsent(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	if rv.Type().Implements(zeroerType) {
		return rv.Interface().(Zeroer).IsZero()
	}
	return rv.IsZero()
}

func encodeValue(rv reflect.Value) (tree.Value, error) {
	if !rv.IsValid() {
		return tree.Null{}, nil
	}
	t := rv.Type()
	if t == valueType || t == objectPtrType {
		if rv.IsNil() {
			return tree.Null{}, nil
		}
		return rv.Interface().(tree.Value), nil
	}
	if t.Kind() != reflect.Pointer && t.Implements(encoderType) {
		if IsAbsent(rv) {
			return tree.Null{}, nil
		}
		v, err := rv.Interface().(Encoder).EncodeTree()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return tree.Null{}, nil
		}
		return v, nil
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return tree.Null{}, nil
		}
		return encodeValue(rv.Elem())
	case reflect.String:
		return tree.String(rv.String()), nil
	case reflect.Bool:
		return tree.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tree.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return tree.Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return tree.Float(rv.Float()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return tree.Null{}, nil
		}
		arr := make(tree.Array, rv.Len())
		for i := range arr {
			elem, err := encodeValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = elem
		}
		return arr, nil
	case reflect.Map:
		if rv.IsNil() {
			return tree.Null{}, nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := tree.NewObject()
		for _, k := range keys {
			elem, err := encodeValue(rv.MapIndex(reflect.ValueOf(k).Convert(t.Key())))
			if err != nil {
				return nil, err
			}
			obj.Set(k, elem)
		}
		return obj, nil
	case reflect.Struct:
		return encodeStruct(rv)
	default:
		return nil, fmt.Errorf("schema: cannot encode %s", t)
	}
}

func encodeStruct(rv reflect.Value) (tree.Value, error) {
	rec, err := Describe(rv.Type())
	if err != nil {
		return nil, err
	}
	obj := tree.NewObject()
	for _, f := range rec.Fields {
		fv := rv.Field(f.Index)
		if IsAbsent(fv) {
			continue
		}
		elem, err := encodeValue(fv)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		if isNull(elem) && fv.Kind() != reflect.Pointer {
			continue
		}
		obj.Set(f.Name, elem)
	}
	if rec.Extra >= 0 {
		if extra, _ := rv.Field(rec.Extra).Interface().(*tree.Object); extra != nil {
			_ = extra.Each(func(key string, elem tree.Value) error {
				if !obj.Has(key) {
					obj.Set(key, elem)
				}
				return nil
			})
		}
	}
	return obj, nil
}

// Default returns the default value of T: the zero value with every `default`
// tag applied, recursively through non-pointer record fields.
func Default[T any]() T {
	var v T
	applyDefaults(reflect.ValueOf(&v).Elem())
	return v
}

func applyDefaults(rv reflect.Value) {
	if rv.Kind() != reflect.Struct || reflect.PointerTo(rv.Type()).Implements(decoderType) {
		return
	}
	rec, err := Describe(rv.Type())
	if err != nil {
		return
	}
	for _, f := range rec.Fields {
		fv := rv.Field(f.Index)
		if f.HasDefault {
			fv.Set(f.Default)
			continue
		}
		applyDefaults(fv)
	}
}
