package precommit

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
  repos:
    - repo: https://github.com/pre-commit/pre-commit-hooks
      rev: v4.6.0
      hooks:
        - id: trailing-whitespace
        - id: check-yaml
          args: [--allow-multiple-documents]
lint:
  extends: base
  repos:
    - repo: https://github.com/pre-commit/pre-commit-hooks
      rev: v5.0.0
      hooks:
        - id: check-yaml
          args: [--unsafe]
    - repo: local
      hooks:
        - id: typecheck
          entry: pnpm tsc --noEmit
          language: system
          pass_filenames: false
`

func TestConfig_Compose(t *testing.T) {
	a, err := Spec.Compose(testutil.Presets(t, presets), "lint", nil, dialect.Env{})
	require.NoError(t, err)

	got, err := a.Render(serialize.YAML)
	require.NoError(t, err)
	testutil.AssertGolden(t, "lint", got)
}

func TestConfig_ReposMergeByURL(t *testing.T) {
	c, err := Spec.Value(testutil.Presets(t, presets), "lint", nil, dialect.Env{})
	require.NoError(t, err)

	repos := c.Repos.Items()
	require.Len(t, repos, 2)
	assert.Equal(t, "v5.0.0", repos[0].Rev)

	hooks := repos[0].Hooks.Items()
	require.Len(t, hooks, 2)
	assert.Equal(t, "trailing-whitespace", hooks[0].ID)
	assert.Equal(t, []string{"--unsafe"}, hooks[1].Args, "args are replaced as a whole")
}

func TestConfig_FailFastSticks(t *testing.T) {
	src := testutil.Presets(t, "a:\n  fail_fast: true\nb:\n  extends: a\n  fail_fast: false\n")
	c, err := Spec.Value(src, "b", nil, dialect.Env{})
	require.NoError(t, err)
	require.NotNil(t, c.FailFast)
	assert.True(t, *c.FailFast)
}

func TestConfig_Errors(t *testing.T) {
	src := testutil.Presets(t, "x:\n  default_stages: [pre-commit, commit]\n")
	_, err := Spec.Compose(src, "x", nil, dialect.Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.default_stages[1]")
}
