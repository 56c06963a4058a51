package union

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// ListOrMap is a list of strings or a mapping of string to scalar, as used by
// compose `environment`, `labels` and similar fields. Same-variant operands
// union; mixed operands resolve to the right one.
type ListOrMap struct {
	shape shape
	list  collection.Set[string]
	m     collection.OrderedMap[tree.Value]
}

func ListOf(items ...string) ListOrMap {
	return ListOrMap{shape: scalar, list: collection.SetOf(items...)}
}

func MapOf(m collection.OrderedMap[tree.Value]) ListOrMap {
	return ListOrMap{shape: container, m: m}
}

func (u ListOrMap) IsZero() bool { return u.shape == absent }

// List returns the list variant.
func (u ListOrMap) List() (collection.Set[string], bool) {
	return u.list, u.shape == scalar
}

// Map returns the map variant.
func (u ListOrMap) Map() (collection.OrderedMap[tree.Value], bool) {
	return u.m, u.shape == container
}

func (u ListOrMap) Variant() string {
	return variantName(u.shape, "list", "map")
}

func (u *ListOrMap) DecodeTree(v tree.Value, path tree.Path) error {
	switch val := v.(type) {
	case tree.Array:
		var list collection.Set[string]
		if err := list.DecodeTree(val, path); err != nil {
			return err
		}
		*u = ListOrMap{shape: scalar, list: list}
	case *tree.Object:
		m := collection.NewOrderedMap[tree.Value]()
		err := val.Each(func(key string, elem tree.Value) error {
			if !tree.IsScalar(elem) {
				return schema.TypeError(path.Key(key), "scalar or null", elem)
			}
			m.Set(key, elem)
			return nil
		})
		if err != nil {
			return err
		}
		*u = MapOf(m)
	default:
		return schema.TypeError(path, "list or mapping", v)
	}
	return nil
}

func (u ListOrMap) EncodeTree() (tree.Value, error) {
	if u.shape == scalar {
		return u.list.EncodeTree()
	}
	return u.m.EncodeTree()
}

func (u ListOrMap) Merge(right any, path tree.Path) (any, error) {
	r := right.(ListOrMap)
	if u.shape != r.shape {
		return r, nil
	}
	if u.shape == scalar {
		return ListOrMap{shape: scalar, list: u.list.With(r.list.Items()...)}, nil
	}
	merged, err := u.m.Merge(r.m, path)
	if err != nil {
		return nil, err
	}
	return MapOf(merged.(collection.OrderedMap[tree.Value])), nil
}

// StringOr is a short string form or a record R, like `build: ./dir` versus
// `build: {context: ./dir}`. Two records merge as R; anything else resolves
// to the right operand.
type StringOr[R any] struct {
	shape  shape
	str    string
	record R
}

func Short[R any](s string) StringOr[R] {
	return StringOr[R]{shape: scalar, str: s}
}

func Long[R any](r R) StringOr[R] {
	return StringOr[R]{shape: container, record: r}
}

func (u StringOr[R]) IsZero() bool { return u.shape == absent }

// Short returns the string variant.
func (u StringOr[R]) Short() (string, bool) { return u.str, u.shape == scalar }

// Long returns the record variant.
func (u StringOr[R]) Long() (R, bool) { return u.record, u.shape == container }

func (u StringOr[R]) Variant() string {
	return variantName(u.shape, "string", "record")
}

func (u *StringOr[R]) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(*tree.Object); ok {
		var r R
		if err := schema.Decode(v, &r, path); err != nil {
			return err
		}
		*u = Long(r)
		return nil
	}
	s, err := schema.ScalarText(v, path)
	if err != nil {
		return schema.TypeError(path, "string or object", v)
	}
	*u = Short[R](s)
	return nil
}

func (u StringOr[R]) EncodeTree() (tree.Value, error) {
	if u.shape == scalar {
		return tree.String(u.str), nil
	}
	return schema.Encode(u.record)
}

func (u StringOr[R]) Merge(right any, path tree.Path) (any, error) {
	r := right.(StringOr[R])
	if u.shape != container || r.shape != container {
		return r, nil
	}
	merged, err := merge.Values(u.record, r.record, path)
	if err != nil {
		return nil, err
	}
	return Long(merged.(R)), nil
}

// BoolOrList is a boolean switch or a list of strings, like cargo's
// `publish = false` versus `publish = ["registry"]`. Lists union; anything else
// resolves to the right operand.
type BoolOrList struct {
	shape shape
	b     bool
	list  collection.Set[string]
}

func Bool(b bool) BoolOrList {
	return BoolOrList{shape: scalar, b: b}
}

func BoolList(items ...string) BoolOrList {
	return BoolOrList{shape: container, list: collection.SetOf(items...)}
}

func (u BoolOrList) IsZero() bool { return u.shape == absent }

func (u BoolOrList) Bool() (bool, bool) { return u.b, u.shape == scalar }

func (u BoolOrList) List() (collection.Set[string], bool) {
	return u.list, u.shape == container
}

func (u BoolOrList) Variant() string {
	return variantName(u.shape, "bool", "list")
}

func (u *BoolOrList) DecodeTree(v tree.Value, path tree.Path) error {
	switch val := v.(type) {
	case tree.Bool:
		*u = Bool(bool(val))
	case tree.Array:
		var list collection.Set[string]
		if err := list.DecodeTree(val, path); err != nil {
			return err
		}
		*u = BoolOrList{shape: container, list: list}
	default:
		return schema.TypeError(path, "boolean or list of strings", v)
	}
	return nil
}

func (u BoolOrList) EncodeTree() (tree.Value, error) {
	if u.shape == scalar {
		return tree.Bool(u.b), nil
	}
	return u.list.EncodeTree()
}

func (u BoolOrList) Merge(right any, path tree.Path) (any, error) {
	r := right.(BoolOrList)
	if u.shape == container && r.shape == container {
		return BoolOrList{shape: container, list: u.list.With(r.list.Items()...)}, nil
	}
	return r, nil
}

// Scalar holds any single string, number or boolean and keeps its source
// type on output. Merging replaces left with right.
type Scalar struct {
	v tree.Value
}

// ScalarOf wraps a Go scalar.
func ScalarOf(x any) Scalar {
	v, err := tree.FromAny(x)
	if err != nil || !tree.IsScalar(v) {
		return Scalar{}
	}
	if _, null := v.(tree.Null); null {
		return Scalar{}
	}
	return Scalar{v: v}
}

func (s Scalar) IsZero() bool { return s.v == nil }

// Value returns the wrapped tree value.
func (s Scalar) Value() tree.Value { return s.v }

func (s Scalar) String() string { return tree.ScalarString(s.v) }

func (s Scalar) Variant() string {
	if s.v == nil {
		return "absent"
	}
	return s.v.Kind().String()
}

func (s *Scalar) DecodeTree(v tree.Value, path tree.Path) error {
	if !tree.IsScalar(v) {
		return schema.TypeError(path, "string, number or boolean", v)
	}
	s.v = v
	return nil
}

func (s Scalar) EncodeTree() (tree.Value, error) {
	return s.v, nil
}

func (s Scalar) Merge(right any, _ tree.Path) (any, error) {
	return right, nil
}

// ScalarOr is a scalar short form or a record R, like a compose port `8080`
// versus `{target: 8080}`. The scalar keeps its source type. Two records merge
// as R; anything else resolves to the right operand.
type ScalarOr[R any] struct {
	scalar Scalar
	record *R
}

func ShortScalar[R any](x any) ScalarOr[R] {
	return ScalarOr[R]{scalar: ScalarOf(x)}
}

func LongRecord[R any](r R) ScalarOr[R] {
	return ScalarOr[R]{record: &r}
}

func (u ScalarOr[R]) IsZero() bool { return u.record == nil && u.scalar.IsZero() }

// Scalar returns the short form.
func (u ScalarOr[R]) Scalar() (Scalar, bool) { return u.scalar, u.record == nil && !u.scalar.IsZero() }

// Record returns the record form.
func (u ScalarOr[R]) Record() (R, bool) {
	if u.record == nil {
		var zero R
		return zero, false
	}
	return *u.record, true
}

func (u ScalarOr[R]) Variant() string {
	switch {
	case u.record != nil:
		return "record"
	case !u.scalar.IsZero():
		return "scalar"
	default:
		return "absent"
	}
}

func (u *ScalarOr[R]) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(*tree.Object); ok {
		var r R
		if err := schema.Decode(v, &r, path); err != nil {
			return err
		}
		*u = LongRecord(r)
		return nil
	}
	var s Scalar
	if err := s.DecodeTree(v, path); err != nil {
		return schema.TypeError(path, "scalar or object", v)
	}
	*u = ScalarOr[R]{scalar: s}
	return nil
}

func (u ScalarOr[R]) EncodeTree() (tree.Value, error) {
	if u.record != nil {
		return schema.Encode(*u.record)
	}
	return u.scalar.EncodeTree()
}

func (u ScalarOr[R]) Merge(right any, path tree.Path) (any, error) {
	r := right.(ScalarOr[R])
	if u.record == nil || r.record == nil {
		return r, nil
	}
	merged, err := merge.Values(*u.record, *r.record, path)
	if err != nil {
		return nil, err
	}
	return LongRecord(merged.(R)), nil
}
