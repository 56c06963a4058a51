package generate

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/roach88/sketch/internal/dialect/repo"
	"github.com/roach88/sketch/internal/output"
)

// Repo generates every artifact and template of a repo preset under dir.
// All artifacts are composed and rendered first; files are written only when
// everything succeeded.
func (g *Generator) Repo(ctx context.Context, id, dir string) ([]*Result, error) {
	log := g.logger().With("request_id", uuid.NewString(), "repo", id)

	spec, err := repo.Spec.Value(g.config().Source(repo.Tag), id, nil, g.env())
	if err != nil {
		return nil, err
	}

	var results []*Result
	for tag, entries := range spec.Artifacts.All() {
		d, err := g.Dialects.Lookup(tag)
		if err != nil {
			return nil, fmt.Errorf("repo %q: %w", id, err)
		}
		for _, e := range entries.Items() {
			req := Request{Dialect: d, Preset: e.Preset, Output: e.Output}
			if e.Inline != nil {
				req.Inline = e.Inline
			}
			if req.Output == "" {
				req.Output = d.DefaultPath(e.Preset)
			}
			req.Output = path.Join(dir, req.Output)
			res, err := g.build(ctx, log.With("dialect", tag, "preset", e.Preset), req)
			if err != nil {
				return nil, fmt.Errorf("repo %q: %s %q: %w", id, tag, e.Preset, err)
			}
			results = append(results, res)
		}
	}

	files := make([]output.File, 0, len(results)+spec.Templates.Len())
	for _, res := range results {
		files = append(files, res.file())
	}
	for _, t := range spec.Templates.Items() {
		tmpl, out := g.Template(t.Name)
		if t.Output != "" {
			out = t.Output
		}
		if out == "" {
			return nil, fmt.Errorf("repo %q: template %q has no output path", id, t.Name)
		}
		text, err := g.RenderTemplate(tmpl, layer(spec.Vars, t.Vars))
		if err != nil {
			return nil, fmt.Errorf("repo %q: %w", id, err)
		}
		files = append(files, output.File{Path: path.Join(dir, out), Data: []byte(text)})
	}

	if err := g.write(log, files...); err != nil {
		return nil, err
	}
	return results, nil
}
