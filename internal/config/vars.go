package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/roach88/sketch/internal/tree"
)

// Vars builds the template variable bundle: the config's vars, then the
// vars file, then each --set assignment in order. Later sources win.
func Vars(base *tree.Object, varsFile string, sets []string) (*tree.Object, error) {
	out := tree.NewObject()
	if base != nil {
		out = base.Clone()
	}
	if varsFile != "" {
		data, err := os.ReadFile(varsFile)
		if err != nil {
			return nil, fmt.Errorf("reading vars file: %w", err)
		}
		syntax, err := tree.SyntaxForPath(varsFile)
		if err != nil {
			return nil, err
		}
		doc, err := tree.Parse(data, syntax, varsFile)
		if err != nil {
			return nil, err
		}
		obj, ok := doc.Root.(*tree.Object)
		if !ok {
			return nil, fmt.Errorf("vars file %s: top level must be a mapping", varsFile)
		}
		out = tree.Merge(out, obj).(*tree.Object)
	}
	if len(sets) == 0 {
		return out, nil
	}

	data := tree.ToAny(out).(map[string]any)
	for _, assignment := range sets {
		if err := set(data, assignment); err != nil {
			return nil, err
		}
	}
	v, err := tree.FromAny(data)
	if err != nil {
		return nil, err
	}
	return v.(*tree.Object), nil
}

// set applies one KEY=VALUE assignment. Dotted keys address nested maps,
// which are created as needed. The value is read as a YAML scalar or flow
// collection, so `n=3` sets an integer and `tags=[a, b]` a list.
func set(data map[string]any, assignment string) error {
	key, raw, ok := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("invalid --set %q: want KEY=VALUE", assignment)
	}
	x := jp.R()
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return fmt.Errorf("invalid --set %q: empty key segment", assignment)
		}
		x = x.C(part)
	}
	value := any(raw)
	if raw != "" {
		if doc, err := tree.ParseString(raw); err == nil {
			value = tree.ToAny(doc.Root)
		}
	}
	if err := x.Set(data, value); err != nil {
		return fmt.Errorf("invalid --set %q: %w", assignment, err)
	}
	return nil
}
