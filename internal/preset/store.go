package preset

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// ExtendsKey is the canonical key listing the presets a preset extends.
const ExtendsKey = "extends"

// extendsKeys are every accepted spelling of ExtendsKey. Both name the same
// ordered set of ids.
var extendsKeys = []string{ExtendsKey, "extends_presets"}

// Preset is a named, possibly partial dialect value.
type Preset[T any] struct {
	ID      string
	Extends []string
	Body    T
}

// Store is the immutable set of presets of one dialect.
type Store[T any] struct {
	dialect string
	presets map[string]Preset[T]
	order   []string
}

// NewStore builds a store. Ids are NFC-normalised; duplicates are an error.
func NewStore[T any](dialect string, presets ...Preset[T]) (*Store[T], error) {
	s := &Store[T]{dialect: dialect, presets: make(map[string]Preset[T], len(presets))}
	for _, p := range presets {
		p.ID = normalize(p.ID)
		if _, dup := s.presets[p.ID]; dup {
			return nil, fmt.Errorf("%s preset %q declared twice", dialect, p.ID)
		}
		ext := make([]string, len(p.Extends))
		for i, id := range p.Extends {
			ext[i] = normalize(id)
		}
		p.Extends = ext
		s.presets[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s, nil
}

// Dialect returns the dialect tag of the store.
func (s *Store[T]) Dialect() string { return s.dialect }

// Get returns the preset with the given id.
func (s *Store[T]) Get(id string) (Preset[T], bool) {
	p, ok := s.presets[normalize(id)]
	return p, ok
}

// IDs returns the preset ids in declaration order.
func (s *Store[T]) IDs() []string {
	return append([]string(nil), s.order...)
}

func normalize(id string) string {
	return norm.NFC.String(id)
}

// Source is the raw preset section of one dialect in a configuration
// document.
type Source struct {
	// Presets maps preset ids to raw bodies; nil means no presets.
	Presets *tree.Object
	// Doc and Base locate Presets in its source file for error positions.
	Doc  *tree.Document
	Base tree.Path
}

// Load decodes every preset of src into a store.
func Load[T any](dialect string, src Source) (*Store[T], error) {
	if src.Presets == nil {
		return NewStore[T](dialect)
	}
	var presets []Preset[T]
	err := src.Presets.Each(func(id string, raw tree.Value) error {
		p, err := Decode[T](raw, tree.Path{}.Key(id))
		if err != nil {
			return schema.Locate(err, src.Doc, src.Base)
		}
		p.ID = id
		presets = append(presets, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStore(dialect, presets...)
}

// Decode splits a raw preset body into its extends list and its dialect
// value. The returned preset has no id.
func Decode[T any](raw tree.Value, path tree.Path) (Preset[T], error) {
	var p Preset[T]
	obj, ok := raw.(*tree.Object)
	if !ok {
		if _, null := raw.(tree.Null); null || raw == nil {
			p.Body = schema.Default[T]()
			return p, nil
		}
		return p, schema.TypeError(path, "object", raw)
	}
	body := obj
	found := ""
	for _, key := range extendsKeys {
		v, ok := obj.Get(key)
		if !ok {
			continue
		}
		if found != "" {
			return p, schema.Errorf(path.Key(key), "%q and %q both given", found, key)
		}
		found = key
		ids, err := extendsList(v, path.Key(key))
		if err != nil {
			return p, err
		}
		p.Extends = ids
		if body == obj {
			body = obj.Clone()
		}
		body.Delete(key)
	}
	if err := schema.Decode(body, &p.Body, path); err != nil {
		return p, err
	}
	return p, nil
}

func extendsList(v tree.Value, path tree.Path) ([]string, error) {
	if s, ok := v.(tree.String); ok {
		return []string{string(s)}, nil
	}
	arr, ok := v.(tree.Array)
	if !ok {
		return nil, schema.TypeError(path, "preset id or list of preset ids", v)
	}
	seen := make(map[string]bool, len(arr))
	ids := make([]string, 0, len(arr))
	for i, elem := range arr {
		s, ok := elem.(tree.String)
		if !ok {
			return nil, schema.TypeError(path.Index(i), "preset id", elem)
		}
		id := normalize(string(s))
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
