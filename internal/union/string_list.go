package union

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

type shape uint8

const (
	absent shape = iota
	scalar
	container
)

// StringOrList is a single string or an ordered, de-duplicating list of
// strings. A string merged with a list widens into the list.
type StringOrList struct {
	shape shape
	str   string
	list  collection.Set[string]
}

// String returns the single-string variant.
func String(s string) StringOrList {
	return StringOrList{shape: scalar, str: s}
}

// List returns the list variant.
func List(items ...string) StringOrList {
	return StringOrList{shape: container, list: collection.SetOf(items...)}
}

func (u StringOrList) IsZero() bool { return u.shape == absent }

// IsList reports whether u holds the list variant.
func (u StringOrList) IsList() bool { return u.shape == container }

// Values returns the strings held by either variant.
func (u StringOrList) Values() []string {
	switch u.shape {
	case scalar:
		return []string{u.str}
	case container:
		return u.list.Items()
	default:
		return nil
	}
}

func (u StringOrList) Variant() string {
	return variantName(u.shape, "string", "list")
}

func (u *StringOrList) DecodeTree(v tree.Value, path tree.Path) error {
	if arr, ok := v.(tree.Array); ok {
		var list collection.Set[string]
		if err := list.DecodeTree(arr, path); err != nil {
			return err
		}
		*u = StringOrList{shape: container, list: list}
		return nil
	}
	s, err := schema.ScalarText(v, path)
	if err != nil {
		return schema.TypeError(path, "string or list of strings", v)
	}
	*u = String(s)
	return nil
}

func (u StringOrList) EncodeTree() (tree.Value, error) {
	if u.shape == scalar {
		return tree.String(u.str), nil
	}
	return u.list.EncodeTree()
}

func (u StringOrList) Merge(right any, path tree.Path) (any, error) {
	r := right.(StringOrList)
	switch {
	case u.shape == scalar && r.shape == scalar:
		return r, nil
	case u.shape == container && r.shape == container:
		return StringOrList{shape: container, list: u.list.With(r.list.Items()...)}, nil
	case u.shape == scalar:
		return StringOrList{shape: container, list: collection.SetOf(u.str).With(r.list.Items()...)}, nil
	default:
		return StringOrList{shape: container, list: u.list.With(r.str)}, nil
	}
}

// StringOrSortedList is a single string or a sorted set of strings.
// A string merged with a list widens into the list.
type StringOrSortedList struct {
	shape shape
	str   string
	list  collection.SortedSet[string]
}

func SortedString(s string) StringOrSortedList {
	return StringOrSortedList{shape: scalar, str: s}
}

func SortedList(items ...string) StringOrSortedList {
	return StringOrSortedList{shape: container, list: collection.SortedSetOf(items...)}
}

func (u StringOrSortedList) IsZero() bool { return u.shape == absent }

func (u StringOrSortedList) IsList() bool { return u.shape == container }

func (u StringOrSortedList) Values() []string {
	switch u.shape {
	case scalar:
		return []string{u.str}
	case container:
		return u.list.Items()
	default:
		return nil
	}
}

func (u StringOrSortedList) Variant() string {
	return variantName(u.shape, "string", "list")
}

func (u *StringOrSortedList) DecodeTree(v tree.Value, path tree.Path) error {
	if arr, ok := v.(tree.Array); ok {
		var list collection.SortedSet[string]
		if err := list.DecodeTree(arr, path); err != nil {
			return err
		}
		*u = StringOrSortedList{shape: container, list: list}
		return nil
	}
	s, err := schema.ScalarText(v, path)
	if err != nil {
		return schema.TypeError(path, "string or list of strings", v)
	}
	*u = SortedString(s)
	return nil
}

func (u StringOrSortedList) EncodeTree() (tree.Value, error) {
	if u.shape == scalar {
		return tree.String(u.str), nil
	}
	return u.list.EncodeTree()
}

func (u StringOrSortedList) Merge(right any, path tree.Path) (any, error) {
	r := right.(StringOrSortedList)
	switch {
	case u.shape == scalar && r.shape == scalar:
		return r, nil
	case u.shape == container && r.shape == container:
		return StringOrSortedList{shape: container, list: u.list.With(r.list.Items()...)}, nil
	case u.shape == scalar:
		return StringOrSortedList{shape: container, list: r.list.With(u.str)}, nil
	default:
		return StringOrSortedList{shape: container, list: u.list.With(r.str)}, nil
	}
}

func variantName(s shape, scalarName, containerName string) string {
	switch s {
	case scalar:
		return scalarName
	case container:
		return containerName
	default:
		return "absent"
	}
}
