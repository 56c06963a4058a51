// Package license renders license files from SPDX identifiers.
package license

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
)

const Tag = "license"

//go:embed texts/*.txt
var texts embed.FS

// License selects a license text. Holder may name a registered person.
type License struct {
	ID     string `json:"id" alias:"spdx"`
	Holder string `json:"holder"`
	Year   int64  `json:"year"`
	// Body replaces the built-in text; it is required for identifiers
	// without one.
	Body string `json:"text"`
}

// ErrNoText is returned for an identifier without a built-in text when the
// preset does not supply one.
var ErrNoText = errors.New("no built-in text")

// Known returns the identifiers with a built-in text.
func Known() []string {
	entries, _ := fs.ReadDir(texts, "texts")
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".txt"))
	}
	return ids
}

func builtin(id string) (string, bool) {
	for _, known := range Known() {
		if strings.EqualFold(known, id) {
			data, err := texts.ReadFile("texts/" + known + ".txt")
			return string(data), err == nil
		}
	}
	return "", false
}

func finalize(l License, env dialect.Env) (License, error) {
	if p, ok := env.People[l.Holder]; ok {
		l.Holder = p.Name
	}
	if l.Year == 0 {
		l.Year = int64(env.Year)
	}
	if l.Body != "" {
		return l, nil
	}
	if l.ID == "" {
		return l, errors.New("license has neither id nor text")
	}
	src, ok := builtin(l.ID)
	if !ok {
		return l, fmt.Errorf("license %q: %w; set text", l.ID, ErrNoText)
	}
	tmpl, err := template.New(l.ID).Option("missingkey=error").Parse(src)
	if err != nil {
		return l, fmt.Errorf("license %q: %w", l.ID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, l); err != nil {
		return l, fmt.Errorf("license %q: %w", l.ID, err)
	}
	l.Body = buf.String()
	return l, nil
}

// Text returns the license text. Built-in texts are filled in when the
// license is finalized.
func (l License) Text() string { return l.Body }

// Spec is the license dialect.
var Spec = &dialect.Spec[License]{
	Tag:      Tag,
	Path:     "LICENSE",
	Accepts:  []serialize.Format{serialize.Text},
	Finalize: finalize,
}
