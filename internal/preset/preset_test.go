package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/tree"
)

type body struct {
	Name     string   `json:"name"`
	Edition  string   `json:"edition" merge:"notdefault" default:"2021"`
	Patterns []string `json:"patterns" merge:"union"`
}

func ids[T any](plan []Preset[T]) []string {
	out := make([]string, len(plan))
	for i, p := range plan {
		out[i] = p.ID
	}
	return out
}

func newStore(t *testing.T, presets ...Preset[body]) *Store[body] {
	t.Helper()
	s, err := NewStore("gitignore", presets...)
	require.NoError(t, err)
	return s
}

func TestResolve(t *testing.T) {
	s := newStore(t,
		Preset[body]{ID: "A", Extends: []string{"B", "C"}},
		Preset[body]{ID: "B", Extends: []string{"D"}},
		Preset[body]{ID: "C", Extends: []string{"D"}},
		Preset[body]{ID: "D"},
		Preset[body]{ID: "E", Extends: []string{"B", "C", "B"}},
		Preset[body]{ID: "F", Extends: []string{"B", "D"}},
	)

	tests := []struct {
		id   string
		want []string
	}{
		{"D", []string{"D"}},
		{"B", []string{"D", "B"}},
		{"A", []string{"D", "B", "C", "A"}},
		{"E", []string{"D", "B", "C", "E"}},
		{"F", []string{"D", "B", "F"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			plan, err := s.Resolve(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(plan))
		})
	}
}

func TestResolve_Cycles(t *testing.T) {
	s := newStore(t,
		Preset[body]{ID: "p1", Extends: []string{"p2"}},
		Preset[body]{ID: "p2", Extends: []string{"p3"}},
		Preset[body]{ID: "p3", Extends: []string{"p1"}},
		Preset[body]{ID: "self", Extends: []string{"self"}},
		Preset[body]{ID: "entry", Extends: []string{"ok", "p2"}},
		Preset[body]{ID: "ok"},
	)

	tests := []struct {
		id    string
		chain []string
	}{
		{"p1", []string{"p1", "p2", "p3", "p1"}},
		{"self", []string{"self", "self"}},
		{"entry", []string{"entry", "p2", "p3", "p1", "p2"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := s.Resolve(tt.id)
			require.Error(t, err)
			assert.True(t, IsCycleError(err))

			var ce *CycleError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.chain, ce.Chain)
		})
	}

	_, err := s.Resolve("p1")
	assert.EqualError(t, err, "cycle detected in gitignore presets: p1 -> p2 -> p3 -> p1")
}

func TestResolve_NotFound(t *testing.T) {
	s := newStore(t, Preset[body]{ID: "A", Extends: []string{"ghost"}})

	_, err := s.Resolve("missing")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.EqualError(t, err, `gitignore preset "missing" not found`)

	_, err = s.Resolve("A")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.ID)
	assert.Equal(t, "A", nf.Referrer)
}

func TestStore_NormalizesIDs(t *testing.T) {
	s := newStore(t,
		Preset[body]{ID: "café"},
		Preset[body]{ID: "base", Extends: []string{"café"}},
	)

	_, ok := s.Get("café")
	assert.True(t, ok)

	plan, err := s.Resolve("base")
	require.NoError(t, err)
	assert.Equal(t, []string{"café", "base"}, ids(plan))
	assert.Equal(t, []string{"café", "base"}, s.IDs())

	_, err = NewStore("gitignore", Preset[body]{ID: "café"}, Preset[body]{ID: "café"})
	assert.ErrorContains(t, err, "declared twice")
}

func TestCompose(t *testing.T) {
	s := newStore(t,
		Preset[body]{ID: "node", Body: body{Patterns: []string{"node_modules"}}},
		Preset[body]{ID: "web", Extends: []string{"node"}, Body: body{Name: "web", Patterns: []string{"dist"}}},
		Preset[body]{ID: "env", Body: body{Patterns: []string{".env"}}},
	)

	t.Run("preset", func(t *testing.T) {
		got, err := Compose(s, "web", nil)
		require.NoError(t, err)
		assert.Equal(t, body{Name: "web", Edition: "2021", Patterns: []string{"node_modules", "dist"}}, got)
	})

	t.Run("override wins", func(t *testing.T) {
		got, err := Compose(s, "web", &Override[body]{
			Extends: []string{"env"},
			Body:    body{Name: "inline", Edition: "2024"},
		})
		require.NoError(t, err)
		assert.Equal(t, body{Name: "inline", Edition: "2024", Patterns: []string{"node_modules", "dist", ".env"}}, got)
	})

	t.Run("override alone", func(t *testing.T) {
		got, err := Compose(s, "", &Override[body]{Extends: []string{"node"}})
		require.NoError(t, err)
		assert.Equal(t, body{Edition: "2021", Patterns: []string{"node_modules"}}, got)
	})

	t.Run("nothing", func(t *testing.T) {
		got, err := Compose(s, "", nil)
		require.NoError(t, err)
		assert.Equal(t, body{Edition: "2021"}, got)
	})

	t.Run("inline unknown", func(t *testing.T) {
		_, err := Compose(s, "web", &Override[body]{Extends: []string{"nope"}})
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "<inline>", nf.Referrer)
	})

	// stores are never modified by composition
	p, _ := s.Get("web")
	assert.Equal(t, []string{"dist"}, p.Body.Patterns)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		extends []string
		body    body
	}{
		{"list", `{"extends": ["a", "b", "a"], "name": "x"}`, []string{"a", "b"}, body{Name: "x", Edition: "2021"}},
		{"single id", `{"extends": "a"}`, []string{"a"}, body{Edition: "2021"}},
		{"long spelling", `{"extends_presets": ["a"]}`, []string{"a"}, body{Edition: "2021"}},
		{"no extends", `{"patterns": ["x"]}`, nil, body{Edition: "2021", Patterns: []string{"x"}}},
		{"null body", `null`, nil, body{Edition: "2021"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tree.ParseString(tt.src)
			require.NoError(t, err)
			p, err := Decode[body](doc.Root, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.extends, p.Extends)
			assert.Equal(t, tt.body, p.Body)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"both spellings", `{"extends": ["a"], "extends_presets": ["b"]}`, `"extends" and "extends_presets" both given`},
		{"bad extends", `{"extends": 3}`, "extends"},
		{"bad id", `{"extends": ["a", 1]}`, "extends[1]"},
		{"not an object", `[1]`, "object"},
		{"unknown field", `{"nmae": "x"}`, `unknown field "nmae"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tree.ParseString(tt.src)
			require.NoError(t, err)
			_, err = Decode[body](doc.Root, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	src := "presets:\n  node:\n    patterns: [node_modules]\n  web:\n    extends: node\n    patterns: [dist]\n"
	doc, err := tree.Parse([]byte(src), tree.SyntaxYAML, "sketch.yaml")
	require.NoError(t, err)
	presets, _ := doc.Root.(*tree.Object).Get("presets")

	s, err := Load[body]("gitignore", Source{Presets: presets.(*tree.Object), Doc: doc, Base: tree.Path{}.Key("presets")})
	require.NoError(t, err)
	assert.Equal(t, "gitignore", s.Dialect())
	assert.Equal(t, []string{"node", "web"}, s.IDs())

	got, err := Compose(s, "web", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules", "dist"}, got.Patterns)

	empty, err := Load[body]("gitignore", Source{})
	require.NoError(t, err)
	assert.Empty(t, empty.IDs())
}

func TestLoad_ErrorPosition(t *testing.T) {
	src := "presets:\n  node:\n    patterns: node_modules\n"
	doc, err := tree.Parse([]byte(src), tree.SyntaxYAML, "sketch.yaml")
	require.NoError(t, err)
	presets, _ := doc.Root.(*tree.Object).Get("presets")

	_, err = Load[body]("gitignore", Source{Presets: presets.(*tree.Object), Doc: doc, Base: tree.Path{}.Key("presets")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sketch.yaml:3:5: presets.node.patterns")
}
