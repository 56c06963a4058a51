// Package repo is the repository preset: the set of artifacts and templates
// generated together by `sketch repo`.
package repo

import (
	"path"

	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

const Tag = "repo"

// Repo lists, per dialect tag, the artifacts to generate, plus templates and
// the variables they are rendered with.
type Repo struct {
	Description string                                       `json:"description"`
	Artifacts   collection.OrderedMap[collection.Set[Entry]] `json:"artifacts"`
	Templates   collection.Set[Template]                     `json:"templates"`
	Vars        *tree.Object                                 `json:"vars"`
}

// Entry selects one artifact: a preset id, optionally with an output path
// and an inline body that may extend further presets. It is written as a
// bare id when nothing else is set.
type Entry struct {
	Preset string       `json:"preset"`
	Output string       `json:"output"`
	Inline *tree.Object `json:"inline"`
}

func (e Entry) SetKey() string {
	if e.Output != "" {
		return "output:" + path.Clean(e.Output)
	}
	return "preset:" + e.Preset
}

func (e *Entry) DecodeTree(v tree.Value, p tree.Path) error {
	if s, ok := v.(tree.String); ok {
		*e = Entry{Preset: string(s)}
		return nil
	}
	type plain Entry
	var out plain
	if err := schema.Decode(v, &out, p); err != nil {
		return err
	}
	if out.Preset == "" && out.Inline == nil {
		return schema.Errorf(p, "artifact entry needs a preset or an inline body")
	}
	*e = Entry(out)
	return nil
}

func (e Entry) EncodeTree() (tree.Value, error) {
	if e.Output == "" && e.Inline == nil {
		return tree.String(e.Preset), nil
	}
	type plain Entry
	return schema.Encode(plain(e))
}

// Template selects one template, by name, with an optional output path and
// variables layered over the repo's.
type Template struct {
	Name   string       `json:"name"`
	Output string       `json:"output"`
	Vars   *tree.Object `json:"vars"`
}

func (t Template) SetKey() string {
	if t.Output != "" {
		return "output:" + path.Clean(t.Output)
	}
	return "name:" + t.Name
}

func (t *Template) DecodeTree(v tree.Value, p tree.Path) error {
	if s, ok := v.(tree.String); ok {
		*t = Template{Name: string(s)}
		return nil
	}
	type plain Template
	var out plain
	if err := schema.Decode(v, &out, p); err != nil {
		return err
	}
	if out.Name == "" {
		return schema.Errorf(p, "template entry needs a name")
	}
	*t = Template(out)
	return nil
}

func (t Template) EncodeTree() (tree.Value, error) {
	if t.Output == "" && t.Vars == nil {
		return tree.String(t.Name), nil
	}
	type plain Template
	return schema.Encode(plain(t))
}

// Spec is the repo preset dialect. It composes like any other dialect but is
// not rendered itself.
var Spec = &dialect.Spec[Repo]{
	Tag: Tag,
}
