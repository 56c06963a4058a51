// Package gitignore is the .gitignore dialect. Patterns accumulate across
// presets and are rendered as plain text.
package gitignore

import (
	"strings"

	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
)

const Tag = "gitignore"

// Gitignore is a .gitignore file: a leading comment, top-level patterns and
// named sections of patterns.
type Gitignore struct {
	Header   string                                        `json:"header"`
	Patterns collection.Set[string]                        `json:"patterns"`
	Sections collection.OrderedMap[collection.Set[string]] `json:"sections"`
}

// Text renders the file. Each section is introduced by a comment line with
// its name; a pattern already emitted is not repeated, and a section left
// with nothing new is omitted.
func (g Gitignore) Text() string {
	var b strings.Builder
	for line := range strings.Lines(strings.TrimSpace(g.Header)) {
		b.WriteString("# ")
		b.WriteString(strings.TrimRight(line, "\n"))
		b.WriteByte('\n')
	}
	seen := make(map[string]bool)
	fresh := func(patterns []string) []string {
		var out []string
		for _, p := range patterns {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
		return out
	}
	top := fresh(g.Patterns.Items())
	if g.Header != "" && len(top) > 0 {
		b.WriteByte('\n')
	}
	for _, p := range top {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	for name, patterns := range g.Sections.All() {
		lines := fresh(patterns.Items())
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("# ")
		b.WriteString(name)
		b.WriteByte('\n')
		for _, p := range lines {
			b.WriteString(p)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Spec is the gitignore dialect.
var Spec = &dialect.Spec[Gitignore]{
	Tag:     Tag,
	Path:    ".gitignore",
	Accepts: []serialize.Format{serialize.Text},
}
