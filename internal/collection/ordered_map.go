// Package collection provides the mapping and set node types of the schema
// model. Every type here decodes, encodes and merges itself, so dialect records
// can use them as plain fields.
package collection

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// OrderedMap is a string-keyed mapping that keeps user-declared key order on
// output. Merge keeps left's keys in place and appends new keys from right.
type OrderedMap[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// NewOrderedMap returns an empty, present map.
func NewOrderedMap[V any]() OrderedMap[V] {
	return OrderedMap[V]{m: orderedmap.New[string, V]()}
}

// Set stores v under key, keeping the position of an existing key.
// Only use Set while building a fresh map.
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.m == nil {
		m.m = orderedmap.New[string, V]()
	}
	m.m.Set(key, v)
}

// Get returns the value under key.
func (m OrderedMap[V]) Get(key string) (V, bool) {
	if m.m == nil {
		var zero V
		return zero, false
	}
	return m.m.Get(key)
}

// Len returns the number of entries.
func (m OrderedMap[V]) Len() int {
	if m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Keys returns the keys in order.
func (m OrderedMap[V]) Keys() []string {
	if m.m == nil {
		return nil
	}
	keys := make([]string, 0, m.m.Len())
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// All iterates over the entries in order.
func (m OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m.m == nil {
			return
		}
		for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// IsZero reports whether the map is absent. An empty map is present.
func (m OrderedMap[V]) IsZero() bool {
	return m.m == nil
}

// Clone returns a copy that can be modified without affecting m.
func (m OrderedMap[V]) Clone() OrderedMap[V] {
	if m.m == nil {
		return OrderedMap[V]{}
	}
	out := NewOrderedMap[V]()
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

func (m *OrderedMap[V]) DecodeTree(v tree.Value, path tree.Path) error {
	obj, ok := v.(*tree.Object)
	if !ok {
		return schema.TypeError(path, "object", v)
	}
	out := NewOrderedMap[V]()
	err := obj.Each(func(key string, elem tree.Value) error {
		var ev V
		if err := schema.Decode(elem, &ev, path.Key(key)); err != nil {
			return err
		}
		out.Set(key, ev)
		return nil
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

func (m OrderedMap[V]) EncodeTree() (tree.Value, error) {
	obj := tree.NewObject()
	for k, v := range m.All() {
		ev, err := schema.Encode(v)
		if err != nil {
			return nil, err
		}
		obj.Set(k, ev)
	}
	return obj, nil
}

func (m OrderedMap[V]) Merge(right any, path tree.Path) (any, error) {
	r := right.(OrderedMap[V])
	out := m.Clone()
	for k, rv := range r.All() {
		lv, ok := out.Get(k)
		if !ok {
			out.Set(k, rv)
			continue
		}
		merged, err := merge.Values(lv, rv, path.Key(k))
		if err != nil {
			return nil, err
		}
		out.Set(k, as[V](merged))
	}
	return out, nil
}

func as[V any](x any) V {
	if x == nil {
		var zero V
		return zero
	}
	return x.(V)
}
