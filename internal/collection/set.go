package collection

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// Keyed is implemented by set elements with an identity narrower than their
// whole value, such as records identified by a name or path. Elements with the
// same key are merged instead of duplicated.
type Keyed interface {
	SetKey() string
}

// Key returns the set identity of x: SetKey for Keyed values, the string itself
// for string kinds, and the canonical JSON encoding otherwise.
func Key(x any) string {
	if k, ok := x.(Keyed); ok {
		return k.SetKey()
	}
	if v, ok := x.(tree.Value); ok {
		return tree.Canonical(v)
	}
	rv := reflect.ValueOf(x)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String()
	}
	v, err := schema.Encode(x)
	if err != nil {
		return fmt.Sprint(x)
	}
	return tree.Canonical(v)
}

// Set is a de-duplicating sequence that keeps first-seen order: a union keeps
// left's order and appends only elements new from right.
type Set[T any] struct {
	items []T
}

// SetOf builds a set from items, dropping duplicates.
func SetOf[T any](items ...T) Set[T] {
	return Set[T]{items: mustUnion[T](nil, items, false)}
}

// Items returns a copy of the elements in order.
func (s Set[T]) Items() []T {
	return slices.Clone(s.items)
}

func (s Set[T]) Len() int {
	return len(s.items)
}

// Contains reports whether an element with x's key is present.
func (s Set[T]) Contains(x T) bool {
	return contains(s.items, x)
}

func (s Set[T]) IsZero() bool {
	return s.items == nil
}

// With returns a new set with items added. With no items it returns s.
func (s Set[T]) With(items ...T) Set[T] {
	if len(items) == 0 {
		return s
	}
	return Set[T]{items: mustUnion(s.items, items, false)}
}

func (s *Set[T]) DecodeTree(v tree.Value, path tree.Path) error {
	items, err := decodeItems[T](v, path)
	if err != nil {
		return err
	}
	out, err := union[T](nil, items, path, false)
	if err != nil {
		return err
	}
	s.items = out
	return nil
}

func (s Set[T]) EncodeTree() (tree.Value, error) {
	return encodeItems(s.items)
}

func (s Set[T]) Merge(right any, path tree.Path) (any, error) {
	out, err := union(s.items, right.(Set[T]).items, path, false)
	if err != nil {
		return nil, err
	}
	return Set[T]{items: out}, nil
}

func (s Set[T]) String() string {
	parts := make([]string, len(s.items))
	for i, item := range s.items {
		parts[i] = Key(item)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SortedSet is a de-duplicating collection kept in the natural order of its
// element keys.
type SortedSet[T any] struct {
	items []T
}

// SortedSetOf builds a sorted set from items.
func SortedSetOf[T any](items ...T) SortedSet[T] {
	return SortedSet[T]{items: mustUnion[T](nil, items, true)}
}

func (s SortedSet[T]) Items() []T {
	return slices.Clone(s.items)
}

func (s SortedSet[T]) Len() int {
	return len(s.items)
}

func (s SortedSet[T]) Contains(x T) bool {
	return contains(s.items, x)
}

func (s SortedSet[T]) IsZero() bool {
	return s.items == nil
}

func (s SortedSet[T]) With(items ...T) SortedSet[T] {
	if len(items) == 0 {
		return s
	}
	return SortedSet[T]{items: mustUnion(s.items, items, true)}
}

func (s *SortedSet[T]) DecodeTree(v tree.Value, path tree.Path) error {
	items, err := decodeItems[T](v, path)
	if err != nil {
		return err
	}
	out, err := union[T](nil, items, path, true)
	if err != nil {
		return err
	}
	s.items = out
	return nil
}

func (s SortedSet[T]) EncodeTree() (tree.Value, error) {
	return encodeItems(s.items)
}

func (s SortedSet[T]) Merge(right any, path tree.Path) (any, error) {
	out, err := union(s.items, right.(SortedSet[T]).items, path, true)
	if err != nil {
		return nil, err
	}
	return SortedSet[T]{items: out}, nil
}

func (s SortedSet[T]) String() string {
	return Set[T](s).String()
}

func contains[T any](items []T, x T) bool {
	key := Key(x)
	for _, item := range items {
		if Key(item) == key {
			return true
		}
	}
	return false
}

// mustUnion is union for sets built in code, where elements sharing a key must
// merge cleanly. A failure is a programming error.
func mustUnion[T any](left, right []T, sorted bool) []T {
	out, err := union(left, right, nil, sorted)
	if err != nil {
		panic(fmt.Sprintf("collection: %v", err))
	}
	return out
}

// union returns a fresh slice holding left followed by the elements of right
// whose key is new. Elements whose key already exists are merged in place.
func union[T any](left, right []T, path tree.Path, sorted bool) ([]T, error) {
	out := make([]T, 0, len(left)+len(right))
	out = append(out, left...)
	index := make(map[string]int, len(out))
	for i, item := range out {
		index[Key(item)] = i
	}
	for _, item := range right {
		key := Key(item)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, item)
			continue
		}
		merged, err := merge.Values(out[i], item, path.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = as[T](merged)
	}
	if sorted {
		slices.SortStableFunc(out, func(a, b T) int {
			return strings.Compare(Key(a), Key(b))
		})
	}
	return out, nil
}

func decodeItems[T any](v tree.Value, path tree.Path) ([]T, error) {
	arr, ok := v.(tree.Array)
	if !ok {
		return nil, schema.TypeError(path, "array", v)
	}
	items := make([]T, len(arr))
	for i, elem := range arr {
		if err := schema.Decode(elem, &items[i], path.Index(i)); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func encodeItems[T any](items []T) (tree.Value, error) {
	arr := make(tree.Array, len(items))
	for i, item := range items {
		v, err := schema.Encode(item)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return arr, nil
}
