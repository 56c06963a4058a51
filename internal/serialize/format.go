// Package serialize renders value trees to the on-disk formats of the
// supported dialects: JSON, YAML, TOML and raw text.
//
// Every encoder walks the tree in its stored order, so insertion-ordered maps
// keep user order and sorted collections, which are sorted before they reach
// the tree, stay sorted.
package serialize

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/sketch/internal/tree"
)

// Format is an output format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
	Text Format = "text"
)

// FormatError reports an output path whose extension has no serializer, or
// whose serializer the dialect does not accept.
type FormatError struct {
	Path     string
	Dialect  string
	Accepted []Format
}

func (e *FormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid output format for %q", e.Path)
	if e.Dialect != "" {
		fmt.Fprintf(&b, " (%s)", e.Dialect)
	}
	if len(e.Accepted) > 0 {
		names := make([]string, len(e.Accepted))
		for i, f := range e.Accepted {
			names[i] = string(f)
		}
		fmt.Fprintf(&b, ": expected %s", strings.Join(names, " or "))
	}
	return b.String()
}

// IsFormatError reports whether err wraps a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// FormatForPath picks the format from the extension of path.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", &FormatError{Path: path}
	}
}

// Choose returns the format for writing path when only accepted formats are
// allowed. A dialect that accepts only Text ignores the extension.
func Choose(path, dialect string, accepted []Format) (Format, error) {
	if len(accepted) == 1 && accepted[0] == Text {
		return Text, nil
	}
	f, err := FormatForPath(path)
	if err != nil || !slices.Contains(accepted, f) {
		return "", &FormatError{Path: path, Dialect: dialect, Accepted: accepted}
	}
	return f, nil
}

// Options tunes the encoders.
type Options struct {
	TOML TOMLOptions
}

// Marshal renders v in format f.
func Marshal(v tree.Value, f Format, opts Options) ([]byte, error) {
	switch f {
	case JSON:
		return MarshalJSON(v)
	case YAML:
		return MarshalYAML(v)
	case TOML:
		return MarshalTOML(v, opts.TOML)
	case Text:
		return MarshalText(v)
	default:
		return nil, fmt.Errorf("serialize: unknown format %q", f)
	}
}

// MarshalText renders a string value verbatim, ending in exactly one newline.
func MarshalText(v tree.Value) ([]byte, error) {
	s, ok := v.(tree.String)
	if !ok {
		return nil, fmt.Errorf("serialize: text output needs a string, got %s", kindOf(v))
	}
	text := strings.TrimRight(string(s), "\n")
	if text == "" {
		return []byte{}, nil
	}
	return []byte(text + "\n"), nil
}

func kindOf(v tree.Value) string {
	if v == nil {
		return "null"
	}
	return v.Kind().String()
}
