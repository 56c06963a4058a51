package packagejson

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

// Bin is `bin`: a single executable path or a map of command to path.
// Maps merge by key; otherwise the right operand wins.
type Bin struct {
	path     string
	commands collection.OrderedMap[string]
}

func (b Bin) IsZero() bool { return b.path == "" && b.commands.IsZero() }

func (b Bin) Variant() string {
	if !b.commands.IsZero() {
		return "map"
	}
	return "path"
}

func (b *Bin) DecodeTree(v tree.Value, path tree.Path) error {
	if obj, ok := v.(*tree.Object); ok {
		var m collection.OrderedMap[string]
		if err := m.DecodeTree(obj, path); err != nil {
			return err
		}
		*b = Bin{commands: m}
		return nil
	}
	s, ok := v.(tree.String)
	if !ok {
		return schema.TypeError(path, "path or map of commands", v)
	}
	*b = Bin{path: string(s)}
	return nil
}

func (b Bin) EncodeTree() (tree.Value, error) {
	if !b.commands.IsZero() {
		return b.commands.EncodeTree()
	}
	return tree.String(b.path), nil
}

func (b Bin) Merge(right any, path tree.Path) (any, error) {
	r := right.(Bin)
	if b.commands.IsZero() || r.commands.IsZero() {
		return r, nil
	}
	merged, err := b.commands.Merge(r.commands, path)
	if err != nil {
		return nil, err
	}
	return Bin{commands: merged.(collection.OrderedMap[string])}, nil
}

// WorkspaceConfig is the object form of `workspaces` used by yarn.
type WorkspaceConfig struct {
	Packages collection.Set[string] `json:"packages"`
	Nohoist  collection.Set[string] `json:"nohoist"`
}

// Workspaces is a list of package globs or a WorkspaceConfig. A list merged
// with a config is folded into the config's packages.
type Workspaces struct {
	list   collection.Set[string]
	config *WorkspaceConfig
}

// WorkspaceGlobs returns the list form.
func WorkspaceGlobs(globs ...string) Workspaces {
	return Workspaces{list: collection.SetOf(globs...)}
}

func (w Workspaces) IsZero() bool { return w.list.IsZero() && w.config == nil }

func (w Workspaces) Variant() string {
	if w.config != nil {
		return "record"
	}
	return "list"
}

// Packages returns the package globs of either form.
func (w Workspaces) Packages() []string {
	if w.config != nil {
		return w.config.Packages.Items()
	}
	return w.list.Items()
}

func (w *Workspaces) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(*tree.Object); ok {
		var cfg WorkspaceConfig
		if err := schema.Decode(v, &cfg, path); err != nil {
			return err
		}
		*w = Workspaces{config: &cfg}
		return nil
	}
	var list collection.Set[string]
	if err := list.DecodeTree(v, path); err != nil {
		return err
	}
	*w = Workspaces{list: list}
	return nil
}

func (w Workspaces) EncodeTree() (tree.Value, error) {
	if w.config != nil {
		return schema.Encode(*w.config)
	}
	return w.list.EncodeTree()
}

func (w Workspaces) Merge(right any, path tree.Path) (any, error) {
	r := right.(Workspaces)
	switch {
	case w.config == nil && r.config == nil:
		return Workspaces{list: w.list.With(r.list.Items()...)}, nil
	case w.config != nil && r.config != nil:
		cfg := WorkspaceConfig{
			Packages: w.config.Packages.With(r.config.Packages.Items()...),
			Nohoist:  w.config.Nohoist.With(r.config.Nohoist.Items()...),
		}
		return Workspaces{config: &cfg}, nil
	case w.config != nil:
		cfg := *w.config
		cfg.Packages = cfg.Packages.With(r.list.Items()...)
		return Workspaces{config: &cfg}, nil
	default:
		cfg := *r.config
		cfg.Packages = collection.SetOf(w.list.Items()...).With(r.config.Packages.Items()...)
		return Workspaces{config: &cfg}, nil
	}
}
