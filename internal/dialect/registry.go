package dialect

import (
	"fmt"
	"sort"
)

// Registry indexes dialects by tag.
type Registry struct {
	dialects map[string]Dialect
	order    []string
}

// NewRegistry builds a registry. Registering a tag twice panics.
func NewRegistry(ds ...Dialect) *Registry {
	r := &Registry{dialects: make(map[string]Dialect, len(ds))}
	for _, d := range ds {
		if _, dup := r.dialects[d.Name()]; dup {
			panic(fmt.Sprintf("dialect %q registered twice", d.Name()))
		}
		r.dialects[d.Name()] = d
		r.order = append(r.order, d.Name())
	}
	return r
}

// Lookup returns the dialect registered under tag.
func (r *Registry) Lookup(tag string) (Dialect, error) {
	d, ok := r.dialects[tag]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (known: %v)", tag, r.Tags())
	}
	return d, nil
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	tags := append([]string(nil), r.order...)
	sort.Strings(tags)
	return tags
}

// All returns the dialects in registration order.
func (r *Registry) All() []Dialect {
	out := make([]Dialect, len(r.order))
	for i, tag := range r.order {
		out[i] = r.dialects[tag]
	}
	return out
}
