package compose

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

// Refs is a list of names or a map from name to per-name settings, the shape
// of `depends_on` and of a service's `networks`. Two lists union, two maps
// merge by key, and mixed operands resolve to the right one.
type Refs[V any] struct {
	list  collection.Set[string]
	table collection.OrderedMap[V]
	isMap bool
}

// RefList returns the list form.
func RefList[V any](names ...string) Refs[V] {
	return Refs[V]{list: collection.SetOf(names...)}
}

// RefMap returns the map form.
func RefMap[V any](m collection.OrderedMap[V]) Refs[V] {
	return Refs[V]{table: m, isMap: true}
}

func (r Refs[V]) IsZero() bool { return !r.isMap && r.list.IsZero() }

func (r Refs[V]) Variant() string {
	switch {
	case r.isMap:
		return "map"
	case r.list.IsZero():
		return "absent"
	default:
		return "list"
	}
}

// Names returns the referenced names in order.
func (r Refs[V]) Names() []string {
	if r.isMap {
		return r.table.Keys()
	}
	return r.list.Items()
}

// Map returns the map form.
func (r Refs[V]) Map() (collection.OrderedMap[V], bool) { return r.table, r.isMap }

func (r *Refs[V]) DecodeTree(v tree.Value, path tree.Path) error {
	switch v.(type) {
	case tree.Array:
		var list collection.Set[string]
		if err := list.DecodeTree(v, path); err != nil {
			return err
		}
		*r = Refs[V]{list: list}
	case *tree.Object:
		var m collection.OrderedMap[V]
		if err := m.DecodeTree(v, path); err != nil {
			return err
		}
		*r = RefMap(m)
	default:
		return schema.TypeError(path, "list or map", v)
	}
	return nil
}

func (r Refs[V]) EncodeTree() (tree.Value, error) {
	if r.isMap {
		return r.table.EncodeTree()
	}
	return r.list.EncodeTree()
}

func (r Refs[V]) Merge(right any, path tree.Path) (any, error) {
	o := right.(Refs[V])
	switch {
	case r.isMap && o.isMap:
		merged, err := r.table.Merge(o.table, path)
		if err != nil {
			return nil, err
		}
		return RefMap(merged.(collection.OrderedMap[V])), nil
	case !r.isMap && !o.isMap:
		return Refs[V]{list: r.list.With(o.list.Items()...)}, nil
	default:
		return o, nil
	}
}

// EnvFile is `env_file`: one path, or a list of paths and path records. A
// single path widens into a list when merged with one.
type EnvFile struct {
	single string
	list   collection.Set[union.StringOr[EnvFileConfig]]
	isList bool
}

// EnvFileConfig is the record form of an env_file entry.
type EnvFileConfig struct {
	Path     string `json:"path"`
	Required *bool  `json:"required"`
	Format   string `json:"format"`
}

// EnvFileOf returns the single-path form.
func EnvFileOf(path string) EnvFile { return EnvFile{single: path} }

// EnvFiles returns the list form from plain paths.
func EnvFiles(paths ...string) EnvFile {
	entries := make([]union.StringOr[EnvFileConfig], len(paths))
	for i, p := range paths {
		entries[i] = union.Short[EnvFileConfig](p)
	}
	return EnvFile{list: collection.SetOf(entries...), isList: true}
}

func (e EnvFile) IsZero() bool { return !e.isList && e.single == "" }

func (e EnvFile) Variant() string {
	switch {
	case e.isList:
		return "list"
	case e.single != "":
		return "string"
	default:
		return "absent"
	}
}

// Entries returns the list form, wrapping a single path.
func (e EnvFile) Entries() []union.StringOr[EnvFileConfig] {
	if e.isList {
		return e.list.Items()
	}
	if e.single == "" {
		return nil
	}
	return []union.StringOr[EnvFileConfig]{union.Short[EnvFileConfig](e.single)}
}

func (e *EnvFile) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(tree.Array); ok {
		var list collection.Set[union.StringOr[EnvFileConfig]]
		if err := list.DecodeTree(v, path); err != nil {
			return err
		}
		*e = EnvFile{list: list, isList: true}
		return nil
	}
	s, ok := v.(tree.String)
	if !ok {
		return schema.TypeError(path, "path or list of paths", v)
	}
	*e = EnvFileOf(string(s))
	return nil
}

func (e EnvFile) EncodeTree() (tree.Value, error) {
	if e.isList {
		return e.list.EncodeTree()
	}
	return tree.String(e.single), nil
}

func (e EnvFile) Merge(right any, _ tree.Path) (any, error) {
	r := right.(EnvFile)
	if !e.isList && !r.isList {
		return r, nil
	}
	left := collection.SetOf(e.Entries()...)
	return EnvFile{list: left.With(r.Entries()...), isList: true}, nil
}

// GPUs is `gpus`: the literal `all`, or a list of device requests. Two lists
// concatenate; anything else resolves to the right operand.
type GPUs struct {
	all     bool
	devices []Device
}

// AllGPUs returns the `all` form.
func AllGPUs() GPUs { return GPUs{all: true} }

// GPUDevices returns the list form.
func GPUDevices(d ...Device) GPUs { return GPUs{devices: append([]Device{}, d...)} }

func (g GPUs) IsZero() bool { return !g.all && g.devices == nil }

func (g GPUs) Variant() string {
	switch {
	case g.all:
		return "all"
	case g.devices != nil:
		return "list"
	default:
		return "absent"
	}
}

// Devices returns the list form.
func (g GPUs) Devices() []Device { return g.devices }

func (g *GPUs) DecodeTree(v tree.Value, path tree.Path) error {
	if s, ok := v.(tree.String); ok {
		if s != "all" {
			return schema.Errorf(path, "gpus must be %q or a list of devices, got %q", "all", string(s))
		}
		*g = AllGPUs()
		return nil
	}
	var d []Device
	if err := schema.Decode(v, &d, path); err != nil {
		return err
	}
	if d == nil {
		d = []Device{}
	}
	*g = GPUs{devices: d}
	return nil
}

func (g GPUs) EncodeTree() (tree.Value, error) {
	if g.all {
		return tree.String("all"), nil
	}
	return schema.Encode(g.devices)
}

func (g GPUs) Merge(right any, _ tree.Path) (any, error) {
	r := right.(GPUs)
	if g.all || r.all {
		return r, nil
	}
	out := make([]Device, 0, len(g.devices)+len(r.devices))
	return GPUs{devices: append(append(out, g.devices...), r.devices...)}, nil
}

// Device is a device request.
type Device struct {
	Driver       string                        `json:"driver"`
	Count        union.Scalar                  `json:"count"`
	DeviceIDs    collection.Set[string]        `json:"device_ids" alias:"device-ids"`
	Capabilities collection.Set[string]        `json:"capabilities"`
	Options      collection.OrderedMap[string] `json:"options"`
}
