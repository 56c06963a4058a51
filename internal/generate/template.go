package generate

import (
	"context"
	"fmt"

	"github.com/roach88/sketch/internal/output"
	"github.com/roach88/sketch/internal/render"
	"github.com/roach88/sketch/internal/tree"
)

// Template resolves a configured template by name. A name that is not
// configured is looked up in the templates directory.
func (g *Generator) Template(name string) (render.Template, string) {
	t := render.Template{Name: name}
	if def, ok := g.config().Config.Templates.Get(name); ok {
		t.Content = def.Content
		t.File = def.File
		return t, def.Output
	}
	return t, ""
}

// RenderTemplate renders a template with the request variables layered over
// the template's own.
func (g *Generator) RenderTemplate(t render.Template, vars *tree.Object) (string, error) {
	r := g.Renderer
	if r == nil {
		r = &render.Renderer{Dir: g.config().Config.TemplatesDir}
	}
	return r.Render(t, layer(g.templateVars(t.Name), g.Vars, vars))
}

// WriteTemplate renders a template to path; an empty path uses the
// template's configured output.
func (g *Generator) WriteTemplate(name, path string) (string, error) {
	t, defaultOut := g.Template(name)
	if path == "" {
		path = defaultOut
	}
	if path == "" {
		return "", fmt.Errorf("template %q has no output path", name)
	}
	return path, g.RenderTo(t, path)
}

// RenderTo renders t and writes the text to path.
func (g *Generator) RenderTo(t render.Template, path string) error {
	text, err := g.RenderTemplate(t, nil)
	if err != nil {
		return err
	}
	return g.write(g.logger().With("template", t.Name), output.File{Path: path, Data: []byte(text)})
}

// Exec renders a template and runs it as a shell script.
func (g *Generator) Exec(ctx context.Context, runner *render.Runner, t render.Template) error {
	script, err := g.RenderTemplate(t, nil)
	if err != nil {
		return err
	}
	g.logger().Debug("running script", "template", t.Name)
	return runner.Run(ctx, script)
}

func (g *Generator) templateVars(name string) *tree.Object {
	if def, ok := g.config().Config.Templates.Get(name); ok {
		return def.Vars
	}
	return nil
}

// layer merges variable bundles left to right; later bundles win.
func layer(bundles ...*tree.Object) *tree.Object {
	out := tree.NewObject()
	for _, b := range bundles {
		if b != nil {
			out = tree.Merge(out, b).(*tree.Object)
		}
	}
	return out
}
