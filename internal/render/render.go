// Package render renders free-form text templates and runs rendered shell
// scripts.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/sketch/internal/tree"
)

// Template is a template source: inline content, or a file relative to the
// templates directory. A template with neither is looked up by name.
type Template struct {
	Name    string
	Content string
	File    string
}

// Inline returns an anonymous template with the given content.
func Inline(content string) Template {
	return Template{Name: "<inline>", Content: content}
}

// ErrTemplateNotFound is returned when a named template has no source.
var ErrTemplateNotFound = errors.New("template not found")

// Renderer renders templates with text/template. Missing variables are
// errors.
type Renderer struct {
	// Dir is the templates directory; relative template files resolve
	// against it.
	Dir string
}

// Render renders t with vars.
func (r *Renderer) Render(t Template, vars *tree.Object) (string, error) {
	src, err := r.source(t)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(t.Name).Funcs(Funcs()).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", t.Name, err)
	}
	data := map[string]any{}
	if vars != nil {
		data = tree.ToAny(vars).(map[string]any)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) source(t Template) (string, error) {
	if t.Content != "" {
		return t.Content, nil
	}
	candidates := []string{t.File}
	if t.File == "" {
		candidates = []string{t.Name, t.Name + ".tmpl"}
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		path := c
		if !filepath.IsAbs(path) && r.Dir != "" {
			path = filepath.Join(r.Dir, path)
		}
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading template %s: %w", t.Name, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, t.Name)
}

// Funcs returns the helper functions available to templates.
func Funcs() template.FuncMap {
	title := cases.Title(language.Und)
	return template.FuncMap{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"title": title.String,
		"snake": func(s string) string { return join(words(s), "_") },
		"kebab": func(s string) string { return join(words(s), "-") },
		"camel": func(s string) string {
			w := words(s)
			for i := 1; i < len(w); i++ {
				w[i] = title.String(w[i])
			}
			return strings.Join(w, "")
		},
		"default": func(def, v any) any {
			if v == nil || v == "" {
				return def
			}
			return v
		},
	}
}

// words splits an identifier on separators and lower-to-upper case changes
// and lowercases every word.
func words(s string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return out
}

func join(w []string, sep string) string { return strings.Join(w, sep) }
