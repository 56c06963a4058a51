package pnpm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/testutil"
)

const presets = `
base:
  packages: [apps/*]
  catalog:
    react: latest
    zod: ^3.0.0
  onlyBuiltDependencies: [esbuild]
web:
  extends: base
  packages: [packages/*]
  catalogs:
    next:
      next: latest
  only_built_dependencies: [sharp, esbuild]
`

func TestWorkspace_Compose(t *testing.T) {
	a, err := Spec.Compose(testutil.Presets(t, presets), "web", nil, dialect.Env{})
	require.NoError(t, err)
	assert.Equal(t, []string{"next", "react"}, a.Latest())

	got, err := a.Pin(map[string]string{"react": "^19.0.0", "next": "^15.0.0"}).Render(serialize.YAML)
	require.NoError(t, err)
	testutil.AssertGolden(t, "web", got)
}

func TestWorkspace_CatalogsMergeByName(t *testing.T) {
	src := testutil.Presets(t, presets)
	w, err := Spec.Value(src, "web", testutil.Inline(t, `{"catalogs": {"next": {"react-dom": "^19.0.0"}, "legacy": {"react": "^17.0.0"}}}`), dialect.Env{})
	require.NoError(t, err)

	assert.Equal(t, []string{"legacy", "next"}, w.Catalogs.Keys())
	next, _ := w.Catalogs.Get("next")
	assert.Equal(t, []string{"next", "react-dom"}, next.Keys())
}

func TestWorkspace_Errors(t *testing.T) {
	_, err := Spec.Compose(testutil.Presets(t, "x:\n  nodeLinker: flat\n"), "x", nil, dialect.Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.nodeLinker")
}
