package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_YAMLKeepsOrderAndPositions(t *testing.T) {
	doc, err := Parse([]byte("zeta: 1\nalpha:\n  beta: [x, y]\n"), SyntaxYAML, "cfg.yaml")
	require.NoError(t, err)

	obj, ok := doc.Root.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha"}, obj.Keys())

	pos := doc.PositionOf(Path{}.Key("alpha").Key("beta"))
	assert.Equal(t, Position{File: "cfg.yaml", Line: 3, Column: 3}, pos)

	// unknown paths fall back to the closest recorded ancestor
	pos = doc.PositionOf(Path{}.Key("alpha").Key("missing"))
	assert.Equal(t, 2, pos.Line)
}

func TestParse_YAMLScalars(t *testing.T) {
	doc, err := Parse([]byte("i: 3\nf: 1.5\nb: true\nn: null\ns: '3'\n"), SyntaxYAML, "")
	require.NoError(t, err)

	obj := doc.Root.(*Object)
	for key, want := range map[string]Value{"i": Int(3), "f": Float(1.5), "b": Bool(true), "n": Null{}, "s": String("3")} {
		got, _ := obj.Get(key)
		assert.Equal(t, want, got, key)
	}
}

func TestParse_YAMLMergeKeys(t *testing.T) {
	src := "base: &base\n  a: 1\n  b: 2\nchild:\n  <<: *base\n  b: 3\n"
	doc, err := Parse([]byte(src), SyntaxYAML, "")
	require.NoError(t, err)

	child, _ := doc.Root.(*Object).Get("child")
	assert.True(t, Equal(ObjectOf("a", 1, "b", 3), child))
}

func TestParse_JSONC(t *testing.T) {
	src := "{\n  // comment\n  \"b\": 1,\n  \"a\": [1, 2,],\n}\n"
	doc, err := Parse([]byte(src), SyntaxJSON, "tsconfig.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, doc.Root.(*Object).Keys())
	assert.Equal(t, 3, doc.PositionOf(Path{}.Key("b")).Line)
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		src    string
		line   int
	}{
		{"json", SyntaxJSON, "{\n  \"a\": 1\n  \"b\": 2\n}", 3},
		{"toml", SyntaxTOML, "a = 1\nb = \n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), tt.syntax, "f")
			require.Error(t, err)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.syntax, se.Syntax)
			assert.Equal(t, tt.line, se.Pos.Line)
		})
	}
}

func TestParse_TOMLAndCUE(t *testing.T) {
	doc, err := Parse([]byte("[package]\nname = \"demo\"\nedition = 2021\n"), SyntaxTOML, "Cargo.toml")
	require.NoError(t, err)
	pkg, _ := doc.Root.(*Object).Get("package")
	edition, _ := pkg.(*Object).Get("edition")
	assert.Equal(t, Int(2021), edition)

	doc, err = Parse([]byte("presets: gitignore: node: patterns: [\"node_modules\"]\n"), SyntaxCUE, "sketch.cue")
	require.NoError(t, err)
	assert.Equal(t, `{"presets":{"gitignore":{"node":{"patterns":["node_modules"]}}}}`, Canonical(doc.Root))
}

func TestParse_TOMLKeepsDocumentOrder(t *testing.T) {
	src := `zeta = 1
alpha = { y = 2, x = 1 }
nums = [1_000, 0x10, 1.5e3, inf]

[services.web]
image = "node"

[services.api]
image = "go"

[services.db.healthcheck]
test = ["pg_isready"]

[[bin]]
name = "b"

[[bin]]
name = "a"
path.src = "main.rs"
`
	doc, err := Parse([]byte(src), SyntaxTOML, "sketch.toml")
	require.NoError(t, err)
	root := doc.Root.(*Object)

	assert.Equal(t, []string{"zeta", "alpha", "nums", "services", "bin"}, root.Keys())
	alpha, _ := root.Get("alpha")
	assert.Equal(t, []string{"y", "x"}, alpha.(*Object).Keys())
	services, _ := root.Get("services")
	assert.Equal(t, []string{"web", "api", "db"}, services.(*Object).Keys())

	nums, _ := root.Get("nums")
	arr := nums.(Array)
	require.Len(t, arr, 4)
	assert.Equal(t, Int(1000), arr[0])
	assert.Equal(t, Int(16), arr[1])
	assert.Equal(t, Float(1500), arr[2])

	assert.Equal(t, `[{"name":"b"},{"name":"a","path":{"src":"main.rs"}}]`, Canonical(mustGet(t, root, "bin")))

	tests := []struct {
		path Path
		line int
		col  int
	}{
		{Path{}.Key("alpha"), 2, 1},
		{Path{}.Key("alpha").Key("x"), 2, 18},
		{Path{}.Key("services").Key("api"), 8, 11},
		{Path{}.Key("services").Key("api").Key("image"), 9, 1},
		{Path{}.Key("bin").Index(1).Key("name"), 18, 1},
	}
	for _, tt := range tests {
		t.Run(tt.path.String(), func(t *testing.T) {
			pos := doc.PositionOf(tt.path)
			assert.Equal(t, "sketch.toml", pos.File)
			assert.Equal(t, tt.line, pos.Line)
			assert.Equal(t, tt.col, pos.Column)
		})
	}
}

func mustGet(t *testing.T, obj *Object, key string) Value {
	t.Helper()
	v, ok := obj.Get(key)
	require.True(t, ok, key)
	return v
}

func TestParse_CUEIncomplete(t *testing.T) {
	_, err := Parse([]byte("a: string\n"), SyntaxCUE, "sketch.cue")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SyntaxCUE, se.Syntax)
}

func TestSyntaxForPath(t *testing.T) {
	for path, want := range map[string]Syntax{
		"a.json": SyntaxJSON, "a.JSONC": SyntaxJSON, "a.yml": SyntaxYAML,
		"a.yaml": SyntaxYAML, "a.toml": SyntaxTOML, "a.cue": SyntaxCUE,
	} {
		got, err := SyntaxForPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := SyntaxForPath("a.ini")
	assert.Error(t, err)
}

func TestParseString(t *testing.T) {
	doc, err := ParseString(`{"a": [1, "x"]}`)
	require.NoError(t, err)
	assert.True(t, Equal(ObjectOf("a", Array{Int(1), String("x")}), doc.Root))

	doc, err = ParseString("{a: 1}")
	require.NoError(t, err)
	assert.True(t, Equal(ObjectOf("a", 1), doc.Root))

	doc, err = ParseString("true")
	require.NoError(t, err)
	assert.Equal(t, Bool(true), doc.Root)
}

func TestMerge(t *testing.T) {
	left := ObjectOf("a", ObjectOf("x", 1, "y", 2), "b", "keep", "c", Array{Int(1)})
	right := ObjectOf("a", ObjectOf("y", 3, "z", 4), "c", Array{Int(2)}, "d", true)

	got := Merge(left, right)

	want := ObjectOf(
		"a", ObjectOf("x", 1, "y", 3, "z", 4),
		"b", "keep",
		"c", Array{Int(2)},
		"d", true,
	)
	assert.True(t, Equal(want, got), Canonical(got))

	// inputs are untouched
	a, _ := left.Get("a")
	assert.Equal(t, 2, a.(*Object).Len())
}

func TestMerge_NullKeepsLeft(t *testing.T) {
	assert.Equal(t, String("x"), Merge(String("x"), Null{}))
	assert.Equal(t, String("x"), Merge(String("x"), nil))
	assert.Equal(t, String("y"), Merge(ObjectOf("a", 1), String("y")))
}

func TestCanonical(t *testing.T) {
	v := ObjectOf("b", 1, "a", Array{String("<x>"), Null{}, Float(1.5)}, "é", true)
	assert.Equal(t, `{"a":["<x>",null,1.5],"b":1,"é":true}`, Canonical(v))

	// NFC and NFD spellings are the same element
	assert.Equal(t, Canonical(String("\u00e9")), Canonical(String("e\u0301")))
}

func TestEqual(t *testing.T) {
	a := ObjectOf("x", 1, "y", 2)
	b := ObjectOf("y", 2, "x", 1)
	assert.False(t, Equal(a, b))
	assert.True(t, EqualUnordered(a, b))
	assert.True(t, Equal(nil, Null{}))
	assert.False(t, Equal(Int(1), Float(1)))
}

func TestPath_String(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{Path{}, "$"},
		{Path{}.Key("a").Key("b").Index(0), "a.b[0]"},
		{Path{}.Key("a").Key("c.d"), `a["c.d"]`},
		{Path{}.Key("devDependencies").Key("@types/node"), "devDependencies.@types/node"},
		{Path{}.Index(2).Key("x"), "[2].x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.path.String())
	}
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "-", Position{}.String())
	assert.Equal(t, "f.yaml", Position{File: "f.yaml"}.String())
	assert.Equal(t, "f.yaml:2:3", Position{File: "f.yaml", Line: 2, Column: 3}.String())
}

func TestConvert_RoundTrip(t *testing.T) {
	v, err := FromAny(map[string]any{"b": []any{1, "x", nil}, "a": 1.5})
	require.NoError(t, err)
	// plain maps have no order and are sorted
	assert.Equal(t, []string{"a", "b"}, v.(*Object).Keys())
	assert.Equal(t, map[string]any{"a": 1.5, "b": []any{int64(1), "x", nil}}, ToAny(v))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.0", FormatFloat(1))
	assert.Equal(t, "1.5", FormatFloat(1.5))
	assert.Equal(t, "1e+21", FormatFloat(1e21))
}
