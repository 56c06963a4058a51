package cargo

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

// InheritedDependency is a dependency taken from the workspace:
// `serde = { workspace = true, features = ["derive"] }`.
type InheritedDependency struct {
	Workspace       bool                   `json:"workspace"`
	Features        collection.Set[string] `json:"features"`
	Optional        bool                   `json:"optional" merge:"iftrue"`
	DefaultFeatures *bool                  `json:"default-features" alias:"default_features"`
	Extra           *tree.Object           `schema:"extra"`
}

// DetailedDependency is the table form of a dependency.
type DetailedDependency struct {
	Version         string                 `json:"version"`
	Path            string                 `json:"path"`
	Git             string                 `json:"git"`
	Branch          string                 `json:"branch"`
	Tag             string                 `json:"tag"`
	Rev             string                 `json:"rev"`
	Registry        string                 `json:"registry"`
	Package         string                 `json:"package"`
	Features        collection.Set[string] `json:"features"`
	Optional        bool                   `json:"optional" merge:"iftrue"`
	DefaultFeatures *bool                  `json:"default-features" alias:"default_features"`
	Public          *bool                  `json:"public"`
	Artifact        union.StringOrList     `json:"artifact"`
	Target          string                 `json:"target"`
	Lib             *bool                  `json:"lib"`
	Extra           *tree.Object           `schema:"extra"`
}

type depVariant uint8

const (
	depAbsent depVariant = iota
	depSimple
	depInherited
	depDetailed
)

// Dependency is `Simple(version) | Inherited | Detailed`.
//
// Cross-variant merges, left operand down, right across:
//
//	            Simple  Inherited                Detailed
//	Simple      right   right                    right
//	Inherited   right   field-merge              Detailed with left features
//	                                             and optional carried over
//	Detailed    right   Inherited with left      field-merge
//	                    features and optional
//	                    carried over
type Dependency struct {
	variant   depVariant
	version   string
	inherited InheritedDependency
	detailed  DetailedDependency
}

// Simple returns a version-only dependency.
func Simple(version string) Dependency {
	return Dependency{variant: depSimple, version: version}
}

// Inherited returns a workspace dependency.
func Inherited(d InheritedDependency) Dependency {
	d.Workspace = true
	return Dependency{variant: depInherited, inherited: d}
}

// Detailed returns a table dependency.
func Detailed(d DetailedDependency) Dependency {
	return Dependency{variant: depDetailed, detailed: d}
}

func (d Dependency) IsZero() bool { return d.variant == depAbsent }

func (d Dependency) Variant() string {
	switch d.variant {
	case depSimple:
		return "simple"
	case depInherited:
		return "inherited"
	case depDetailed:
		return "detailed"
	default:
		return "absent"
	}
}

// Version returns the version of a simple or detailed dependency.
func (d Dependency) Version() string {
	if d.variant == depDetailed {
		return d.detailed.Version
	}
	return d.version
}

// AsInherited returns the inherited form.
func (d Dependency) AsInherited() (InheritedDependency, bool) {
	return d.inherited, d.variant == depInherited
}

// AsDetailed returns the detailed form.
func (d Dependency) AsDetailed() (DetailedDependency, bool) {
	return d.detailed, d.variant == depDetailed
}

func (d *Dependency) DecodeTree(v tree.Value, path tree.Path) error {
	obj, ok := v.(*tree.Object)
	if !ok {
		s, err := schema.ScalarText(v, path)
		if err != nil {
			return schema.TypeError(path, "version string or dependency table", v)
		}
		*d = Simple(s)
		return nil
	}
	if ws, ok := obj.Get("workspace"); ok {
		if b, isBool := ws.(tree.Bool); !isBool || !bool(b) {
			return schema.Errorf(path.Key("workspace"), "workspace inheritance must be `true`")
		}
		var inh InheritedDependency
		if err := schema.Decode(v, &inh, path); err != nil {
			return err
		}
		*d = Inherited(inh)
		return nil
	}
	var det DetailedDependency
	if err := schema.Decode(v, &det, path); err != nil {
		return err
	}
	*d = Detailed(det)
	return nil
}

func (d Dependency) EncodeTree() (tree.Value, error) {
	switch d.variant {
	case depSimple:
		return tree.String(d.version), nil
	case depInherited:
		return schema.Encode(d.inherited)
	default:
		return schema.Encode(d.detailed)
	}
}

func (d Dependency) Merge(right any, path tree.Path) (any, error) {
	r := right.(Dependency)
	switch {
	case d.variant == depSimple || r.variant == depSimple:
		return r, nil
	case d.variant == r.variant && d.variant == depInherited:
		merged, err := merge.Values(d.inherited, r.inherited, path)
		if err != nil {
			return nil, err
		}
		return Inherited(merged.(InheritedDependency)), nil
	case d.variant == r.variant:
		merged, err := merge.Values(d.detailed, r.detailed, path)
		if err != nil {
			return nil, err
		}
		return Detailed(merged.(DetailedDependency)), nil
	case d.variant == depInherited:
		out := r.detailed
		out.Features = d.inherited.Features.With(out.Features.Items()...)
		out.Optional = out.Optional || d.inherited.Optional
		return Detailed(out), nil
	default:
		out := r.inherited
		out.Features = d.detailed.Features.With(out.Features.Items()...)
		out.Optional = out.Optional || d.detailed.Optional
		return Inherited(out), nil
	}
}
