package compose

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

func mergeEncoded[T any](t *testing.T, left, right string) (T, string) {
	t.Helper()
	l, err := schema.DecodeAs[T](testutil.Inline(t, left), nil)
	require.NoError(t, err)
	r, err := schema.DecodeAs[T](testutil.Inline(t, right), nil)
	require.NoError(t, err)

	got, err := merge.Merge(l, r)
	require.NoError(t, err)
	v, err := schema.Encode(got)
	require.NoError(t, err)
	return got, tree.Canonical(v)
}

func TestDependsOn_Merge(t *testing.T) {
	tests := []struct {
		name    string
		left    string
		right   string
		variant string
		want    string
	}{
		{"lists union", `["a", "b"]`, `["b", "c"]`, "list", `["a","b","c"]`},
		{"list then map", `["a"]`, `{"a": {"condition": "service_healthy"}}`, "map", `{"a":{"condition":"service_healthy"}}`},
		{"map then list", `{"a": {"condition": "service_healthy"}}`, `["b"]`, "list", `["b"]`},
		{"maps merge", `{"a": {"condition": "service_started"}}`, `{"a": {"restart": true}, "b": {}}`, "map", `{"a":{"condition":"service_started","restart":true},"b":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, encoded := mergeEncoded[DependsOn](t, tt.left, tt.right)
			assert.Equal(t, tt.variant, got.Variant())
			assert.Equal(t, tt.want, encoded)
		})
	}
}

func TestEnvFile_Merge(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		want  string
	}{
		{"two paths", `".env"`, `".env.local"`, `".env.local"`},
		{"path widens", `".env"`, `[".env.local"]`, `[".env",".env.local"]`},
		{"list and path", `[".env", {"path": "x.env", "required": false}]`, `".env"`, `[".env",{"path":"x.env","required":false}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, encoded := mergeEncoded[EnvFile](t, tt.left, tt.right)
			assert.Equal(t, tt.want, encoded)
		})
	}
}

func TestGPUs_Merge(t *testing.T) {
	_, encoded := mergeEncoded[GPUs](t, `[{"driver": "nvidia", "count": 1}]`, `[{"driver": "nvidia", "count": 1}]`)
	assert.Equal(t, `[{"count":1,"driver":"nvidia"},{"count":1,"driver":"nvidia"}]`, encoded)

	got, _ := mergeEncoded[GPUs](t, `[{"driver": "nvidia"}]`, `"all"`)
	assert.Equal(t, "all", got.Variant())

	_, err := schema.DecodeAs[GPUs](testutil.Inline(t, `"some"`), nil)
	assert.ErrorContains(t, err, `gpus must be "all"`)
}

const presets = `
db:
  services:
    db:
      image: postgres:16
      healthcheck:
        test: [CMD, pg_isready]
        interval: 5s
web:
  extends: db
  services:
    web:
      image: node:22
      depends_on: [db]
      ports: ["3000:3000"]
      command: [pnpm, dev]
  volumes:
    data: null
`

func TestProject_Compose(t *testing.T) {
	inline := testutil.Inline(t, `{"services": {"web": {
		"depends_on": {"db": {"condition": "service_healthy"}},
		"command": ["pnpm", "start"]
	}}}`)

	a, err := Spec.Compose(testutil.Presets(t, presets), "web", inline, dialect.Env{})
	require.NoError(t, err)

	got, err := a.Render(serialize.YAML)
	require.NoError(t, err)
	testutil.AssertGolden(t, "web", got)

	p, ok := dialect.Value[Project](a)
	require.True(t, ok)
	assert.Equal(t, []string{"db", "web"}, p.Services.Keys())
}

func TestProject_ServiceOrder(t *testing.T) {
	src := testutil.Presets(t, "a:\n  services:\n    zeta: {image: z}\n    alpha: {image: a}\nb:\n  extends: a\n  services:\n    beta: {image: b}\n    zeta: {restart: always}\n")

	p, err := Spec.Value(src, "b", nil, dialect.Env{})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "beta"}, p.Services.Keys())

	zeta, _ := p.Services.Get("zeta")
	assert.Equal(t, "z", zeta.Image)
	assert.Equal(t, "always", zeta.Restart)
}

func TestProject_DecodeErrors(t *testing.T) {
	src := testutil.Presets(t, "x:\n  services:\n    web:\n      depends_on:\n        db:\n          condition: ready\n")
	_, err := Spec.Compose(src, "x", nil, dialect.Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.services.web.depends_on.db.condition")
}
