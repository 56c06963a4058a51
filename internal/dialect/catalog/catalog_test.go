package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/dialect/cargo"
	"github.com/roach88/sketch/internal/dialect/compose"
	"github.com/roach88/sketch/internal/dialect/oxlint"
	"github.com/roach88/sketch/internal/dialect/packagejson"
	"github.com/roach88/sketch/internal/dialect/pnpm"
	"github.com/roach88/sketch/internal/dialect/precommit"
	"github.com/roach88/sketch/internal/dialect/tsconfig"
	"github.com/roach88/sketch/internal/dialect/workflow"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/testutil"
	"github.com/roach88/sketch/internal/tree"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"cargo", "docker_compose", "github_workflow", "gitignore", "license",
		"oxlint", "package_json", "pnpm_workspace", "pre_commit", "tsconfig",
	}, r.Tags())

	for _, d := range r.All() {
		t.Run(d.Name(), func(t *testing.T) {
			assert.NotEmpty(t, d.Formats())
			f, err := serialize.Choose(d.DefaultPath("ci"), d.Name(), d.Formats())
			require.NoError(t, err)
			assert.Equal(t, d.Formats()[0], f)
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := Default()

	d, err := r.Lookup("tsconfig")
	require.NoError(t, err)
	assert.Equal(t, "tsconfig.json", d.DefaultPath(""))

	_, err = r.Lookup("makefile")
	assert.ErrorContains(t, err, `unknown dialect "makefile"`)
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	d, err := Default().Lookup("gitignore")
	require.NoError(t, err)
	assert.Panics(t, func() { dialect.NewRegistry(d, d) })
}

var fixtures = struct {
	packageJSON, tsconfig, pnpm, cargo, workflow, compose, precommit, oxlint string
}{
	packageJSON: "x:\n  name: demo\n  private: true\n  scripts: {build: tsc, test: vitest}\n  dependencies: {react: ^19.0.0}\n  exports: {\".\": {import: ./index.js}}\n",
	tsconfig:    "x:\n  compilerOptions: {strict: true, lib: [dom, es2022], paths: {\"@/*\": [src/*]}}\n  references: [{path: b}, {path: a}]\n",
	pnpm:        "x:\n  packages: [apps/*]\n  catalog: {zod: ^3.0.0}\n",
	cargo:       "x:\n  package: {name: demo, edition: \"2021\"}\n  dependencies:\n    serde: {version: \"1\", features: [derive]}\n    anyhow: \"1\"\n    tokio: {workspace: true}\n",
	workflow:    "x:\n  name: CI\n  on: {push: {branches: [main]}}\n  jobs:\n    test: {runs-on: ubuntu-latest, steps: [{run: make}]}\n",
	compose:     "x:\n  services:\n    web: {image: nginx, ports: [\"80:80\"], depends_on: [db]}\n    db: {image: postgres}\n",
	precommit:   "x:\n  repos:\n    - repo: local\n      hooks: [{id: lint, entry: make lint, language: system}]\n",
	oxlint:      "x:\n  plugins: [react]\n  rules: {eqeqeq: [warn, always], curly: error}\n",
}

// roundTrip checks that a rendered artifact reads back to the value it was
// rendered from, and that merging the dialect default leaves a value unchanged.
func roundTrip[T any](t *testing.T, spec *dialect.Spec[T], src string) {
	t.Helper()

	v, err := spec.Value(testutil.Presets(t, src), "x", nil, dialect.Env{})
	require.NoError(t, err)
	want, err := spec.Encode(v)
	require.NoError(t, err)

	format := spec.Formats()[0]
	data, err := spec.Artifact(v).Render(format)
	require.NoError(t, err)
	doc, err := tree.Parse(data, tree.Syntax(format), "out."+string(format))
	require.NoError(t, err)
	back, err := spec.Decode(doc.Root)
	require.NoError(t, err)
	got, err := spec.Encode(back)
	require.NoError(t, err)
	assert.Equal(t, tree.Canonical(want), tree.Canonical(got), "parse(serialize(v)) == v")

	merged, err := merge.Merge(v, spec.Default())
	require.NoError(t, err)
	got, err = spec.Encode(merged)
	require.NoError(t, err)
	assert.Equal(t, tree.Canonical(want), tree.Canonical(got), "merge(v, default) == v")
}

func TestDialects_RoundTrip(t *testing.T) {
	t.Run(packagejson.Tag, func(t *testing.T) { roundTrip(t, packagejson.Spec, fixtures.packageJSON) })
	t.Run(tsconfig.Tag, func(t *testing.T) { roundTrip(t, tsconfig.Spec, fixtures.tsconfig) })
	t.Run(pnpm.Tag, func(t *testing.T) { roundTrip(t, pnpm.Spec, fixtures.pnpm) })
	t.Run(cargo.Tag, func(t *testing.T) { roundTrip(t, cargo.Spec, fixtures.cargo) })
	t.Run(workflow.Tag, func(t *testing.T) { roundTrip(t, workflow.Spec, fixtures.workflow) })
	t.Run(compose.Tag, func(t *testing.T) { roundTrip(t, compose.Spec, fixtures.compose) })
	t.Run(precommit.Tag, func(t *testing.T) { roundTrip(t, precommit.Spec, fixtures.precommit) })
	t.Run(oxlint.Tag, func(t *testing.T) { roundTrip(t, oxlint.Spec, fixtures.oxlint) })
}
