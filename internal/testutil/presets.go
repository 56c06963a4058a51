package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/preset"
	"github.com/roach88/sketch/internal/tree"
)

// Presets parses a YAML mapping of preset ids to bodies into a preset
// source, as if it were the presets section of a sketch.yaml.
func Presets(t *testing.T, src string) preset.Source {
	t.Helper()

	doc, err := tree.Parse([]byte(src), tree.SyntaxYAML, "presets.yaml")
	require.NoError(t, err)
	obj, ok := doc.Root.(*tree.Object)
	require.True(t, ok, "presets must be a mapping")
	return preset.Source{Presets: obj, Doc: doc}
}

// Inline parses an inline override body.
func Inline(t *testing.T, src string) tree.Value {
	t.Helper()

	doc, err := tree.ParseString(src)
	require.NoError(t, err)
	return doc.Root
}
