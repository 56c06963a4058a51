// Package dialect ties a typed schema to the preset store, the merge engine
// and the serializers.
//
// Each supported artifact format is a Spec over its root record type. Specs
// erase their type behind Dialect, so the generator and the CLI can drive any
// dialect by tag.
package dialect

import (
	"fmt"
	"slices"

	"github.com/roach88/sketch/internal/preset"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
)

// Person is a registered person, referenced by id from manifests.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	URL   string `json:"url" alias:"homepage"`
}

// Env carries request-level context for finalizers.
type Env struct {
	People map[string]Person
	// Year stamps license texts.
	Year int
	// Preset is the id of the root preset being rendered.
	Preset string
}

// Dialect is a type-erased Spec.
type Dialect interface {
	Name() string
	// DefaultPath is the conventional output path for an artifact composed
	// from the given preset.
	DefaultPath(id string) string
	Formats() []serialize.Format
	// Compose resolves id in src and merges it with an optional raw inline
	// override, which may carry its own extends list.
	Compose(src preset.Source, id string, inline tree.Value, env Env) (Artifact, error)
	// Validate decodes every preset of src without composing any of them.
	Validate(src preset.Source) ([]string, error)
}

// Artifact is a composed, finalized dialect value ready to be pinned and
// serialized.
type Artifact interface {
	Dialect() string
	// Latest lists the package names whose version is the "latest" sentinel.
	Latest() []string
	// Pin returns a copy of the artifact with the given version ranges
	// applied to the "latest" entries.
	Pin(ranges map[string]string) Artifact
	Tree() (tree.Value, error)
	Render(f serialize.Format) ([]byte, error)
}

// Pinnable is implemented by dialect records that carry "latest" versions.
type Pinnable[T any] interface {
	LatestPackages() []string
	PinVersions(ranges map[string]string) T
}

// Texter is implemented by records rendered as raw text.
type Texter interface {
	Text() string
}

// LatestVersion is the version sentinel resolved by pinning.
const LatestVersion = "latest"

// Spec describes one dialect over its root record type T.
type Spec[T any] struct {
	// Tag names the dialect in configuration files.
	Tag string
	// Path is the conventional output path; Paths overrides it when the path
	// depends on the preset id.
	Path  string
	Paths func(id string) string
	// Accepts lists the output formats, the first being the default.
	Accepts []serialize.Format
	TOML    serialize.TOMLOptions
	// Finalize runs once on the composed value, before pinning.
	Finalize func(v T, env Env) (T, error)
}

func (s *Spec[T]) Name() string { return s.Tag }

func (s *Spec[T]) DefaultPath(id string) string {
	if s.Paths != nil {
		return s.Paths(id)
	}
	return s.Path
}

func (s *Spec[T]) Formats() []serialize.Format { return s.Accepts }

// Default returns the merge seed of the dialect.
func (s *Spec[T]) Default() T { return schema.Default[T]() }

// Decode decodes a raw value of the dialect.
func (s *Spec[T]) Decode(v tree.Value) (T, error) {
	return schema.DecodeAs[T](v, nil)
}

// Encode encodes a value of the dialect.
func (s *Spec[T]) Encode(v T) (tree.Value, error) {
	out, err := schema.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", s.Tag, err)
	}
	if _, null := out.(tree.Null); null {
		return tree.NewObject(), nil
	}
	return out, nil
}

// Store loads the presets of src.
func (s *Spec[T]) Store(src preset.Source) (*preset.Store[T], error) {
	return preset.Load[T](s.Tag, src)
}

// Value composes and finalizes the typed value of preset id.
func (s *Spec[T]) Value(src preset.Source, id string, inline tree.Value, env Env) (T, error) {
	var zero T
	store, err := s.Store(src)
	if err != nil {
		return zero, err
	}
	var override *preset.Override[T]
	if inline != nil {
		p, err := preset.Decode[T](inline, nil)
		if err != nil {
			return zero, fmt.Errorf("inline %s override: %w", s.Tag, err)
		}
		override = &preset.Override[T]{Extends: p.Extends, Body: p.Body}
	}
	v, err := preset.Compose(store, id, override)
	if err != nil {
		return zero, err
	}
	if s.Finalize != nil {
		env.Preset = id
		if v, err = s.Finalize(v, env); err != nil {
			return zero, fmt.Errorf("finalizing %s: %w", s.Tag, err)
		}
	}
	return v, nil
}

func (s *Spec[T]) Compose(src preset.Source, id string, inline tree.Value, env Env) (Artifact, error) {
	v, err := s.Value(src, id, inline, env)
	if err != nil {
		return nil, err
	}
	return &artifact[T]{spec: s, value: v}, nil
}

func (s *Spec[T]) Validate(src preset.Source) ([]string, error) {
	store, err := s.Store(src)
	if err != nil {
		return nil, err
	}
	ids := store.IDs()
	for _, id := range ids {
		if _, err := store.Resolve(id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// Artifact wraps an already composed value.
func (s *Spec[T]) Artifact(v T) Artifact {
	return &artifact[T]{spec: s, value: v}
}

type artifact[T any] struct {
	spec  *Spec[T]
	value T
}

func (a *artifact[T]) Dialect() string { return a.spec.Tag }

func (a *artifact[T]) Latest() []string {
	if p, ok := any(a.value).(Pinnable[T]); ok {
		names := p.LatestPackages()
		slices.Sort(names)
		return slices.Compact(names)
	}
	return nil
}

func (a *artifact[T]) Pin(ranges map[string]string) Artifact {
	p, ok := any(a.value).(Pinnable[T])
	if !ok || len(ranges) == 0 {
		return a
	}
	return &artifact[T]{spec: a.spec, value: p.PinVersions(ranges)}
}

func (a *artifact[T]) Tree() (tree.Value, error) {
	if t, ok := any(a.value).(Texter); ok {
		return tree.String(t.Text()), nil
	}
	return a.spec.Encode(a.value)
}

func (a *artifact[T]) Render(f serialize.Format) ([]byte, error) {
	if !slices.Contains(a.spec.Accepts, f) {
		return nil, &serialize.FormatError{Dialect: a.spec.Tag, Accepted: a.spec.Accepts}
	}
	v, err := a.Tree()
	if err != nil {
		return nil, err
	}
	return serialize.Marshal(v, f, serialize.Options{TOML: a.spec.TOML})
}

// Value returns the typed value held by an artifact of T.
func Value[T any](a Artifact) (T, bool) {
	typed, ok := a.(*artifact[T])
	if !ok {
		var zero T
		return zero, false
	}
	return typed.value, true
}
