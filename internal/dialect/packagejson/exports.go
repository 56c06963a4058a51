package packagejson

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// Export is a node of the `exports` field: a target path, a list of fallback
// targets, or a map keyed by subpath ("./utils") or condition ("import").
// Maps merge by key; any other combination resolves to the right operand.
type Export struct {
	path     string
	fallback []Export
	entries  collection.OrderedMap[Export]
}

// ExportPath returns a path target.
func ExportPath(p string) Export { return Export{path: p} }

// ExportMap returns a subpath or conditions map.
func ExportMap(entries collection.OrderedMap[Export]) Export {
	return Export{entries: entries}
}

func (e Export) IsZero() bool {
	return e.path == "" && e.fallback == nil && e.entries.IsZero()
}

func (e Export) Variant() string {
	switch {
	case !e.entries.IsZero():
		return "map"
	case e.fallback != nil:
		return "list"
	default:
		return "path"
	}
}

// Path returns the path target.
func (e Export) Path() (string, bool) { return e.path, e.path != "" }

// Entries returns the map form.
func (e Export) Entries() (collection.OrderedMap[Export], bool) {
	return e.entries, !e.entries.IsZero()
}

func (e *Export) DecodeTree(v tree.Value, path tree.Path) error {
	switch val := v.(type) {
	case tree.String:
		*e = ExportPath(string(val))
	case tree.Array:
		list := make([]Export, len(val))
		for i, elem := range val {
			if err := schema.Decode(elem, &list[i], path.Index(i)); err != nil {
				return err
			}
		}
		*e = Export{fallback: list}
	case *tree.Object:
		var m collection.OrderedMap[Export]
		if err := m.DecodeTree(val, path); err != nil {
			return err
		}
		*e = ExportMap(m)
	default:
		return schema.TypeError(path, "export path, list or map", v)
	}
	return nil
}

func (e Export) EncodeTree() (tree.Value, error) {
	switch {
	case !e.entries.IsZero():
		return e.entries.EncodeTree()
	case e.fallback != nil:
		return schema.Encode(e.fallback)
	default:
		return tree.String(e.path), nil
	}
}

func (e Export) Merge(right any, path tree.Path) (any, error) {
	r := right.(Export)
	if e.entries.IsZero() || r.entries.IsZero() {
		return r, nil
	}
	merged, err := e.entries.Merge(r.entries, path)
	if err != nil {
		return nil, err
	}
	return ExportMap(merged.(collection.OrderedMap[Export])), nil
}
