package tree

import (
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a sealed interface over the node types of a tree.
// Only Null, String, Int, Float, Bool, Array and *Object implement it.
type Value interface {
	Kind() Kind
}

// Null is an explicit null.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// String is a string scalar.
type String string

func (String) Kind() Kind { return KindString }

// Int is an integer scalar.
type Int int64

func (Int) Kind() Kind { return KindInt }

// Float is a floating point scalar.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// Bool is a boolean scalar.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Array is an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind { return KindArray }

// Object is a mapping from string keys to values that remembers insertion order.
// The zero value is not usable; build one with NewObject.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

func (*Object) Kind() Kind { return KindObject }

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	o.m.Set(key, v)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.m == nil {
		return nil, false
	}
	return o.m.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if o == nil || o.m == nil {
		return
	}
	o.m.Delete(key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil || o.m == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order and stops at the first error.
func (o *Object) Each(fn func(key string, v Value) error) error {
	if o == nil || o.m == nil {
		return nil
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a shallow copy: the key order is copied, values are shared.
func (o *Object) Clone() *Object {
	out := NewObject()
	_ = o.Each(func(key string, v Value) error {
		out.Set(key, v)
		return nil
	})
	return out
}

// ObjectOf builds an object from alternating key/value arguments.
// It panics on malformed input and is intended for tests and literals.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("tree.ObjectOf: odd number of arguments")
	}
	obj := NewObject()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree.ObjectOf: key %d is %T, not string", i/2, kv[i]))
		}
		v, err := FromAny(kv[i+1])
		if err != nil {
			panic(fmt.Sprintf("tree.ObjectOf: key %q: %v", key, err))
		}
		obj.Set(key, v)
	}
	return obj
}

// IsScalar reports whether v is a string, number, boolean or null.
func IsScalar(v Value) bool {
	switch v.(type) {
	case Array, *Object:
		return false
	default:
		return true
	}
}

// ScalarString renders a scalar the way a user would have typed it.
// Arrays and objects render as their kind name.
func ScalarString(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "null"
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return FormatFloat(float64(val))
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return v.Kind().String()
	}
}

// FormatFloat formats f so that it reads back as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return s
		}
	}
	return s + ".0"
}
