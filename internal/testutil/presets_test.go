package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sketch/internal/tree"
)

func TestPresets(t *testing.T) {
	src := Presets(t, "node:\n  patterns: [node_modules]\nweb:\n  extends: node\n")
	assert.Equal(t, []string{"node", "web"}, src.Presets.Keys())
	assert.Equal(t, 3, src.Doc.PositionOf(tree.Path{}.Key("web").Key("extends")).Line)
}

func TestInline(t *testing.T) {
	v := Inline(t, `{"extends": ["node"]}`)
	assert.Equal(t, `{"extends":["node"]}`, tree.Canonical(v))
}

func TestAssertGolden(t *testing.T) {
	AssertGolden(t, "example", []byte("sketch\n"))
}
