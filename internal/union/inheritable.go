package union

import (
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// Inheritable is either the workspace marker `{workspace = true}` or a
// concrete T. Its merge rule is fixed: a right-hand marker wins, a concrete
// right-hand value replaces a left-hand marker, and two concrete values merge
// as T.
type Inheritable[T any] struct {
	workspace bool
	set       bool
	value     T
}

// Workspace returns the marker variant.
func Workspace[T any]() Inheritable[T] {
	return Inheritable[T]{workspace: true}
}

// Value returns the concrete variant.
func Value[T any](v T) Inheritable[T] {
	return Inheritable[T]{set: true, value: v}
}

func (i Inheritable[T]) IsZero() bool { return !i.workspace && !i.set }

// IsWorkspace reports whether i is the marker.
func (i Inheritable[T]) IsWorkspace() bool { return i.workspace }

// Get returns the concrete value.
func (i Inheritable[T]) Get() (T, bool) { return i.value, i.set }

func (i Inheritable[T]) Variant() string {
	switch {
	case i.workspace:
		return "workspace"
	case i.set:
		return "value"
	default:
		return "absent"
	}
}

// IsWorkspaceMarker reports whether v is exactly `{workspace: true}`.
func IsWorkspaceMarker(v tree.Value) bool {
	obj, ok := v.(*tree.Object)
	if !ok || obj.Len() != 1 {
		return false
	}
	ws, _ := obj.Get("workspace")
	b, ok := ws.(tree.Bool)
	return ok && bool(b)
}

func (i *Inheritable[T]) DecodeTree(v tree.Value, path tree.Path) error {
	if obj, ok := v.(*tree.Object); ok && obj.Has("workspace") && obj.Len() == 1 {
		if !IsWorkspaceMarker(v) {
			return schema.Errorf(path.Key("workspace"), "workspace inheritance must be `true`")
		}
		*i = Workspace[T]()
		return nil
	}
	var val T
	if err := schema.Decode(v, &val, path); err != nil {
		return err
	}
	*i = Value(val)
	return nil
}

func (i Inheritable[T]) EncodeTree() (tree.Value, error) {
	if i.workspace {
		return tree.ObjectOf("workspace", true), nil
	}
	return schema.Encode(i.value)
}

func (i Inheritable[T]) Merge(right any, path tree.Path) (any, error) {
	r := right.(Inheritable[T])
	if r.workspace || i.workspace {
		return r, nil
	}
	merged, err := merge.Values(i.value, r.value, path)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return r, nil
	}
	return Value(merged.(T)), nil
}
