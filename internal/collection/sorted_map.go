package collection

import (
	"iter"
	"maps"
	"slices"

	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// SortedMap is a string-keyed mapping emitted in key order, for maps whose
// upstream tools sort them anyway (dependency tables, catalogs).
type SortedMap[V any] struct {
	m map[string]V
}

// NewSortedMap returns an empty, present map.
func NewSortedMap[V any]() SortedMap[V] {
	return SortedMap[V]{m: map[string]V{}}
}

// SortedMapOf builds a map from a Go map.
func SortedMapOf[V any](entries map[string]V) SortedMap[V] {
	out := NewSortedMap[V]()
	maps.Copy(out.m, entries)
	return out
}

// Set stores v under key. Only use Set while building a fresh map.
func (m *SortedMap[V]) Set(key string, v V) {
	if m.m == nil {
		m.m = map[string]V{}
	}
	m.m[key] = v
}

func (m SortedMap[V]) Get(key string) (V, bool) {
	v, ok := m.m[key]
	return v, ok
}

func (m SortedMap[V]) Len() int {
	return len(m.m)
}

// Keys returns the keys in sorted order.
func (m SortedMap[V]) Keys() []string {
	return slices.Sorted(maps.Keys(m.m))
}

// All iterates in key order.
func (m SortedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.Keys() {
			if !yield(k, m.m[k]) {
				return
			}
		}
	}
}

func (m SortedMap[V]) IsZero() bool {
	return m.m == nil
}

func (m SortedMap[V]) Clone() SortedMap[V] {
	if m.m == nil {
		return SortedMap[V]{}
	}
	return SortedMap[V]{m: maps.Clone(m.m)}
}

func (m *SortedMap[V]) DecodeTree(v tree.Value, path tree.Path) error {
	obj, ok := v.(*tree.Object)
	if !ok {
		return schema.TypeError(path, "object", v)
	}
	out := NewSortedMap[V]()
	err := obj.Each(func(key string, elem tree.Value) error {
		var ev V
		if err := schema.Decode(elem, &ev, path.Key(key)); err != nil {
			return err
		}
		out.m[key] = ev
		return nil
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

func (m SortedMap[V]) EncodeTree() (tree.Value, error) {
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

func (m SortedMap[V]) Merge(right any, path tree.Path) (any, error) {
	r := right.(SortedMap[V])
	out := m.Clone()
	for k, rv := range r.All() {
		lv, ok := out.m[k]
		if !ok {
			out.m[k] = rv
			continue
		}
		merged, err := merge.Values(lv, rv, path.Key(k))
		if err != nil {
			return nil, err
		}
		out.m[k] = as[V](merged)
	}
	return out, nil
}
