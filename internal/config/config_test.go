package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover_Order(t *testing.T) {
	cwd := t.TempDir()
	user := t.TempDir()

	_, err := Discover(cwd, user)
	assert.ErrorIs(t, err, ErrNotFound)

	writeFile(t, filepath.Join(user, AppName, "sketch.toml"), "")
	got, err := Discover(cwd, user)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(user, AppName, "sketch.toml"), got)

	writeFile(t, filepath.Join(cwd, "sketch.json"), "{}")
	got, err = Discover(cwd, user)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "sketch.json"), got)

	writeFile(t, filepath.Join(cwd, "sketch.yaml"), "")
	got, err = Discover(cwd, user)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "sketch.yaml"), got, "yaml is tried before json")
}

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"yaml", "sketch.yaml", "templates_dir: tpl\nnpm: {version_range: '~', timeout: 3s}\n"},
		{"toml", "sketch.toml", "templates_dir = \"tpl\"\n[npm]\nversion_range = \"~\"\ntimeout = 3\n"},
		{"json", "sketch.json", `{"templates_dir": "tpl", "npm": {"version_range": "~", "timeout": "3s"},}`},
		{"cue", "sketch.cue", "templates_dir: \"tpl\"\nnpm: {version_range: \"~\", timeout: \"3s\"}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.data), tt.file)
			require.NoError(t, err)
			assert.Equal(t, "tpl", f.Config.TemplatesDir)
			assert.Equal(t, "~", f.Config.NPM.VersionRange)
			assert.Equal(t, 3*time.Second, time.Duration(f.Config.NPM.Timeout))
			assert.Equal(t, int64(8), f.Config.NPM.Concurrency)
			assert.Equal(t, 24*time.Hour, time.Duration(f.Config.NPM.CacheTTL))
		})
	}
}

func TestParse_UnknownFieldHasPosition(t *testing.T) {
	_, err := Parse([]byte("templates_dir: x\nbogus: 1\n"), "sketch.yaml")
	require.Error(t, err)
	var pe *schema.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bogus", pe.Path.String())
	assert.Equal(t, 2, pe.Pos.Line)
}

func TestParse_TOMLKeepsOrderAndPositions(t *testing.T) {
	src := "[presets.docker_compose.app.services.web]\nimage = \"node\"\n\n" +
		"[presets.docker_compose.app.services.api]\nimage = \"go\"\n\n" +
		"[presets.docker_compose.app.services.db]\nimage = \"postgres\"\n"
	f, err := Parse([]byte(src), "sketch.toml")
	require.NoError(t, err)

	app, ok := f.Source("docker_compose").Presets.Get("app")
	require.True(t, ok)
	services, _ := app.(*tree.Object).Get("services")
	assert.Equal(t, []string{"web", "api", "db"}, services.(*tree.Object).Keys())

	_, err = Parse([]byte("templates_dir = \"x\"\nbogus = 1\n"), "sketch.toml")
	require.Error(t, err)
	var pe *schema.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bogus", pe.Path.String())
	assert.Equal(t, 2, pe.Pos.Line)
}

func TestFile_Source(t *testing.T) {
	f, err := Parse([]byte("presets:\n  gitignore:\n    node: {patterns: [dist/]}\n"), "sketch.yaml")
	require.NoError(t, err)

	src := f.Source("gitignore")
	require.NotNil(t, src.Presets)
	assert.True(t, src.Presets.Has("node"))
	assert.Equal(t, "presets.gitignore", src.Base.String())

	assert.Nil(t, f.Source("cargo").Presets)
}

func TestEmpty_HasDefaults(t *testing.T) {
	f := Empty()
	assert.Empty(t, f.Path)
	assert.Equal(t, "^", f.Config.NPM.VersionRange)
	assert.Equal(t, 10*time.Second, time.Duration(f.Config.NPM.Timeout))
}

func TestDefault_Parses(t *testing.T) {
	f, err := Parse(Default(), DefaultFileName)
	require.NoError(t, err)
	assert.True(t, f.Config.Templates.Len() > 0)
	for _, tag := range []string{"gitignore", "package_json", "tsconfig", "repo"} {
		assert.NotNil(t, f.Source(tag).Presets, tag)
	}
}

func TestVars_Layering(t *testing.T) {
	dir := t.TempDir()
	varsFile := filepath.Join(dir, "vars.json")
	writeFile(t, varsFile, `{"org": "file", "team": {"lead": "ann"}}`)

	base := tree.ObjectOf("org", tree.String("config"), "name", tree.String("demo"))
	got, err := Vars(base, varsFile, []string{"team.size=3", "name=app", "flags.beta=true"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"org":   "file",
		"name":  "app",
		"team":  map[string]any{"lead": "ann", "size": int64(3)},
		"flags": map[string]any{"beta": true},
	}, tree.ToAny(got))

	org, _ := base.Get("org")
	assert.Equal(t, tree.String("config"), org, "base is not modified")
}

func TestVars_InvalidSet(t *testing.T) {
	for _, s := range []string{"novalue", "=x", "a..b=1"} {
		_, err := Vars(nil, "", []string{s})
		assert.Error(t, err, s)
	}
}
