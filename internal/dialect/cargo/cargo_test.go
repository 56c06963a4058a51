package cargo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/testutil"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

func encoded(t *testing.T, v any) string {
	t.Helper()
	out, err := schema.Encode(v)
	require.NoError(t, err)
	return tree.Canonical(out)
}

func TestDependency_Merge(t *testing.T) {
	tests := []struct {
		name  string
		left  Dependency
		right Dependency
		want  string
	}{
		{
			name:  "inherited then detailed",
			left:  Inherited(InheritedDependency{Features: collection.SetOf("f1"), Optional: true}),
			right: Detailed(DetailedDependency{Version: "1.2", Features: collection.SetOf("f2")}),
			want:  `{"features":["f1","f2"],"optional":true,"version":"1.2"}`,
		},
		{
			name:  "detailed then inherited",
			left:  Detailed(DetailedDependency{Version: "1", Features: collection.SetOf("a"), Optional: true}),
			right: Inherited(InheritedDependency{Features: collection.SetOf("b")}),
			want:  `{"features":["a","b"],"optional":true,"workspace":true}`,
		},
		{
			name:  "detailed fields merge",
			left:  Detailed(DetailedDependency{Version: "1", Features: collection.SetOf("a")}),
			right: Detailed(DetailedDependency{Git: "https://example.com/x", Features: collection.SetOf("a", "b")}),
			want:  `{"features":["a","b"],"git":"https://example.com/x","version":"1"}`,
		},
		{
			name:  "simple replaces table",
			left:  Detailed(DetailedDependency{Version: "1", Features: collection.SetOf("a")}),
			right: Simple("2"),
			want:  `"2"`,
		},
		{
			name:  "table replaces simple",
			left:  Simple("1"),
			right: Inherited(InheritedDependency{}),
			want:  `{"workspace":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := merge.Merge(tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, encoded(t, got))
		})
	}
}

func TestDependency_Decode(t *testing.T) {
	tests := []struct {
		src     string
		variant string
	}{
		{`"1.0"`, "simple"},
		{`1`, "simple"},
		{`{"workspace": true, "features": ["x"]}`, "inherited"},
		{`{"version": "1", "default-features": false}`, "detailed"},
		{`{"path": "../core"}`, "detailed"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d, err := schema.DecodeAs[Dependency](testutil.Inline(t, tt.src), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.variant, d.Variant())
		})
	}

	_, err := schema.DecodeAs[Dependency](testutil.Inline(t, `{"workspace": false}`), nil)
	assert.ErrorContains(t, err, "workspace inheritance must be `true`")

	_, err = schema.DecodeAs[Dependency](testutil.Inline(t, `["1"]`), tree.Path{}.Key("serde"))
	assert.ErrorContains(t, err, "serde")
}

const presets = `
base:
  package:
    edition: "2021"
    license: MIT
  dependencies:
    anyhow: "1"
    serde: {workspace: true, features: [derive]}
  profile:
    release:
      lto: true
app:
  extends: base
  package:
    name: demo
  dependencies:
    serde: {version: "1.0", features: [rc]}
    tokio: {version: "1", features: [full]}
  bin:
    - name: demo
      path: src/main.rs
inherits:
  package:
    name: member
    version: {workspace: true}
    edition: {workspace: true}
root:
  workspace:
    members: [crates/*]
    resolver: "2"
`

func TestManifest_Compose(t *testing.T) {
	a, err := Spec.Compose(testutil.Presets(t, presets), "app", nil, dialect.Env{})
	require.NoError(t, err)

	got, err := a.Render(serialize.TOML)
	require.NoError(t, err)
	testutil.AssertGolden(t, "app", got)
}

func TestManifest_PackageVersion(t *testing.T) {
	src := testutil.Presets(t, presets)

	m, err := Spec.Value(src, "app", testutil.Inline(t, `{"package": {"version": "2.0.0"}}`), dialect.Env{})
	require.NoError(t, err)
	v, _ := m.Package.Version.Get()
	assert.Equal(t, "2.0.0", v)

	// a default version never overrides an inherited one
	m, err = Spec.Value(src, "inherits", testutil.Inline(t, `{"package": {"name": "member"}}`), dialect.Env{})
	require.NoError(t, err)
	assert.True(t, m.Package.Version.IsWorkspace())
	assert.True(t, m.Package.Edition.IsWorkspace())
}

func TestWorkspaceSpec(t *testing.T) {
	src := testutil.Presets(t, presets)

	_, err := WorkspaceSpec.Compose(src, "app", nil, dialect.Env{})
	assert.ErrorIs(t, err, ErrNoWorkspace)

	a, err := WorkspaceSpec.Compose(src, "root", nil, dialect.Env{})
	require.NoError(t, err)
	got, err := a.Render(serialize.TOML)
	require.NoError(t, err)
	assert.Equal(t, "[workspace]\nmembers = [\"crates/*\"]\nresolver = \"2\"\n", string(got))
}

func TestManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad edition", "x:\n  package:\n    edition: \"2019\"\n", "must be one of"},
		{"unknown product field", "x:\n  bin:\n    - nmae: a\n", `unknown field "nmae"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Spec.Compose(testutil.Presets(t, tt.src), "x", nil, dialect.Env{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDependencyTable(t *testing.T) {
	for _, tt := range []struct {
		path []string
		want bool
	}{
		{[]string{"dependencies"}, true},
		{[]string{"target", "cfg(unix)", "dev-dependencies"}, true},
		{[]string{"workspace", "dependencies"}, true},
		{[]string{"patch", "crates-io"}, true},
		{[]string{"replace"}, true},
		{[]string{"package"}, false},
		{nil, false},
	} {
		assert.Equal(t, tt.want, DependencyTable(tt.path), "%v", tt.path)
	}
}

func TestInheritable_DecodeMarker(t *testing.T) {
	p, err := schema.DecodeAs[Package](testutil.Inline(t, `{"version": {"workspace": true}}`), nil)
	require.NoError(t, err)
	assert.Equal(t, union.Workspace[string](), p.Version)
}
