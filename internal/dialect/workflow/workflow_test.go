package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/testutil"
	"github.com/roach88/sketch/internal/tree"
)

func decodeOn(t *testing.T, src string) On {
	t.Helper()
	o, err := schema.DecodeAs[On](testutil.Inline(t, src), nil)
	require.NoError(t, err)
	return o
}

func TestOn_Merge(t *testing.T) {
	tests := []struct {
		name    string
		left    string
		right   string
		variant string
		want    string
	}{
		{
			name:    "maps merge event by event",
			left:    `{"push": {"branches": ["dev"]}, "pull_request": {"types": ["opened"]}}`,
			right:   `{"push": {"branches": ["main"]}}`,
			variant: "object",
			want:    `{"push":{"branches":["dev","main"]},"pull_request":{"types":["opened"]}}`,
		},
		{
			name:    "two singles widen to a list",
			left:    `"push"`,
			right:   `"pull_request"`,
			variant: "multiple",
			want:    `["push","pull_request"]`,
		},
		{
			name:    "list and single",
			left:    `["push", "pull_request"]`,
			right:   `"push"`,
			variant: "multiple",
			want:    `["push","pull_request"]`,
		},
		{
			name:    "list into map",
			left:    `["workflow_dispatch"]`,
			right:   `{"push": {"tags": ["v*"]}}`,
			variant: "object",
			want:    `{"push":{"tags":["v*"]},"workflow_dispatch":null}`,
		},
		{
			name:    "map keeps settings over a list",
			left:    `{"push": {"branches": ["main"]}}`,
			right:   `["push", "release"]`,
			variant: "object",
			want:    `{"push":{"branches":["main"]},"release":null}`,
		},
		{
			name:    "schedules concatenate",
			left:    `{"schedule": [{"cron": "0 0 * * *"}]}`,
			right:   `{"schedule": [{"cron": "0 12 * * *"}]}`,
			variant: "object",
			want:    `{"schedule":[{"cron":"0 0 * * *"},{"cron":"0 12 * * *"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := merge.Merge(decodeOn(t, tt.left), decodeOn(t, tt.right))
			require.NoError(t, err)
			assert.Equal(t, tt.variant, got.Variant())

			v, err := schema.Encode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.Canonical(v))
		})
	}
}

func TestOn_MapOrder(t *testing.T) {
	got, err := merge.Merge(decodeOn(t, `["workflow_dispatch", "push"]`), decodeOn(t, `{"pull_request": null, "push": {"branches": ["main"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"workflow_dispatch", "push", "pull_request"}, got.Events())
}

func TestJob_Merge(t *testing.T) {
	decode := func(src string) Job {
		j, err := schema.DecodeAs[Job](testutil.Inline(t, src), nil)
		require.NoError(t, err)
		return j
	}

	t.Run("normal jobs", func(t *testing.T) {
		got, err := merge.Merge(
			decode(`{"runs-on": ["self-hosted", "linux"], "env": {"CI": true}, "steps": [{"run": "make"}]}`),
			decode(`{"runs-on": "ubuntu-latest", "env": {"NODE": 22}, "steps": [{"run": "make test"}]}`),
		)
		require.NoError(t, err)
		n, ok := got.AsNormal()
		require.True(t, ok)
		assert.Equal(t, tree.String("ubuntu-latest"), n.RunsOn)
		assert.Equal(t, []string{"CI", "NODE"}, n.Env.Keys())
		require.Len(t, n.Steps, 1)
		assert.Equal(t, "make test", n.Steps[0].Run)
	})

	t.Run("reusable keeps target", func(t *testing.T) {
		got, err := merge.Merge(
			decode(`{"uses": "org/repo/.github/workflows/a.yml@main", "with": {"x": 1}}`),
			decode(`{"uses": "org/repo/.github/workflows/b.yml@main", "with": {"y": 2}}`),
		)
		require.NoError(t, err)
		r, ok := got.AsReusable()
		require.True(t, ok)
		assert.Equal(t, "org/repo/.github/workflows/a.yml@main", r.Uses)
		assert.Equal(t, []string{"x", "y"}, r.With.Keys())
	})

	t.Run("cross variant", func(t *testing.T) {
		_, err := merge.Merge(
			decode(`{"runs-on": "ubuntu-latest"}`),
			decode(`{"uses": "org/repo/.github/workflows/a.yml@main"}`),
		)
		require.Error(t, err)
		assert.True(t, merge.IsCrossVariantError(err))
	})
}

func TestPermissions_Merge(t *testing.T) {
	decode := func(src string) Permissions {
		p, err := schema.DecodeAs[Permissions](testutil.Inline(t, src), nil)
		require.NoError(t, err)
		return p
	}

	got, err := merge.Merge(decode(`{"contents": "read"}`), decode(`{"id-token": "write"}`))
	require.NoError(t, err)
	v, err := schema.Encode(got)
	require.NoError(t, err)
	assert.Equal(t, `{"contents":"read","id-token":"write"}`, tree.Canonical(v))

	got, err = merge.Merge(decode(`{"contents": "read"}`), decode(`"write-all"`))
	require.NoError(t, err)
	assert.Equal(t, "global", got.Variant())

	_, err = schema.DecodeAs[Permissions](testutil.Inline(t, `{"contents": "admin"}`), nil)
	assert.ErrorContains(t, err, "must be one of")
}

const presets = `
ci:
  name: CI
  on:
    push:
      branches: [main]
    pull_request: null
  jobs:
    test:
      runs-on: ubuntu-latest
      steps:
        - uses: actions/checkout@v4
        - run: pnpm test
deploy:
  jobs:
    release:
      uses: org/infra/.github/workflows/release.yml@v1
broken:
  extends: [ci, deploy]
  jobs:
    test:
      uses: org/infra/.github/workflows/test.yml@v1
`

func TestWorkflow_Compose(t *testing.T) {
	src := testutil.Presets(t, presets)

	a, err := Spec.Compose(src, "ci", testutil.Inline(t, `{"on": {"push": {"branches": ["release"]}}}`), dialect.Env{})
	require.NoError(t, err)

	got, err := a.Render(serialize.YAML)
	require.NoError(t, err)
	testutil.AssertGolden(t, "ci", got)

	assert.Equal(t, ".github/workflows/ci.yaml", Spec.DefaultPath("ci"))
}

func TestWorkflow_CrossVariantPreset(t *testing.T) {
	_, err := Spec.Compose(testutil.Presets(t, presets), "broken", nil, dialect.Env{})
	require.Error(t, err)
	assert.True(t, merge.IsCrossVariantError(err))
	assert.Contains(t, err.Error(), "jobs.test")
}
