package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/testutil"
	"github.com/roach88/sketch/internal/tree"
)

const presets = `
base:
  artifacts:
    package_json: [lib]
    gitignore: [node]
  templates: [readme]
  vars: {org: acme}
web:
  extends: base
  description: web app
  artifacts:
    package_json:
      - lib
      - {preset: app, output: apps/web/package.json}
    tsconfig: [app]
  templates:
    - {name: readme, output: docs/README.md}
  vars: {team: web}
`

func TestRepo_Compose(t *testing.T) {
	r, err := Spec.Value(testutil.Presets(t, presets), "web", nil, dialect.Env{})
	require.NoError(t, err)

	assert.Equal(t, "web app", r.Description)
	assert.Equal(t, []string{"package_json", "gitignore", "tsconfig"}, r.Artifacts.Keys())

	pkg, _ := r.Artifacts.Get("package_json")
	assert.Equal(t, []Entry{{Preset: "lib"}, {Preset: "app", Output: "apps/web/package.json"}}, pkg.Items())

	require.Equal(t, 2, r.Templates.Len())
	assert.Equal(t, `{"org":"acme","team":"web"}`, tree.Canonical(r.Vars))

	v, err := Spec.Encode(r)
	require.NoError(t, err)
	artifacts, _ := v.(*tree.Object).Get("artifacts")
	entries, _ := artifacts.(*tree.Object).Get("package_json")
	assert.Equal(t, `["lib",{"output":"apps/web/package.json","preset":"app"}]`, tree.Canonical(entries))
}

func TestEntry_SetKey(t *testing.T) {
	tests := []struct {
		name string
		a, b Entry
		same bool
	}{
		{"same preset", Entry{Preset: "x"}, Entry{Preset: "x"}, true},
		{"same output", Entry{Preset: "x", Output: "a/../b.json"}, Entry{Preset: "y", Output: "b.json"}, true},
		{"preset versus output", Entry{Preset: "x"}, Entry{Preset: "x", Output: "x.json"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, tt.a.SetKey() == tt.b.SetKey())
		})
	}
}

func TestEntry_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty record", `{"output": "x.json"}`, "needs a preset or an inline body"},
		{"unknown field", `{"preset": "x", "path": "y"}`, `unknown field "path"`},
		{"number", `1`, "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.DecodeAs[Entry](testutil.Inline(t, tt.src), tree.Path{}.Key("artifacts"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	e, err := schema.DecodeAs[Entry](testutil.Inline(t, `{"inline": {"name": "x"}}`), nil)
	require.NoError(t, err)
	assert.Empty(t, e.Preset)
	assert.NotNil(t, e.Inline)
}

func TestTemplate_Decode(t *testing.T) {
	tmpl, err := schema.DecodeAs[Template](testutil.Inline(t, `"readme"`), nil)
	require.NoError(t, err)
	assert.Equal(t, Template{Name: "readme"}, tmpl)

	_, err = schema.DecodeAs[Template](testutil.Inline(t, `{"output": "x.md"}`), nil)
	assert.ErrorContains(t, err, "needs a name")
}
