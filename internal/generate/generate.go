// Package generate runs generation requests: resolve a preset, merge its
// chain, finalize, pin "latest" versions, serialize and write.
//
// Nothing is written until every artifact of a request is serialized, so a
// failure at any stage leaves the file system untouched.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/sketch/internal/config"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/output"
	"github.com/roach88/sketch/internal/render"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/versions"
)

// Pinner resolves package names to version ranges.
type Pinner interface {
	Pin(ctx context.Context, names []string) (map[string]string, error)
}

// Generator holds the collaborators shared by every request.
type Generator struct {
	Config   *config.File
	Dialects *dialect.Registry
	// Pinner resolves "latest" sentinels; nil leaves them in place.
	Pinner   Pinner
	Renderer *render.Renderer
	Writer   *output.Writer
	Logger   *slog.Logger
	// Vars are the template variables of the request.
	Vars *tree.Object
	// Now stamps license years; nil means time.Now.
	Now func() time.Time
}

// Request selects one artifact.
type Request struct {
	Dialect dialect.Dialect
	Preset  string
	// Inline is an optional raw override body, which may carry extends.
	Inline tree.Value
	// Output is the destination path; empty means the dialect default.
	Output string
}

// Result is a serialized artifact.
type Result struct {
	Dialect string
	Preset  string
	Path    string
	Format  serialize.Format
	Data    []byte
	// Pinned maps each resolved "latest" package to its range.
	Pinned map[string]string
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (g *Generator) env() dialect.Env {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	env := dialect.Env{Year: now().Year()}
	if g.Config != nil {
		env.People = g.Config.People()
	}
	return env
}

func (g *Generator) config() *config.File {
	if g.Config != nil {
		return g.Config
	}
	return config.Empty()
}

// Build composes, pins and serializes one artifact without writing it.
func (g *Generator) Build(ctx context.Context, req Request) (*Result, error) {
	log := g.logger().With("request_id", uuid.NewString(), "dialect", req.Dialect.Name(), "preset", req.Preset)
	return g.build(ctx, log, req)
}

func (g *Generator) build(ctx context.Context, log *slog.Logger, req Request) (*Result, error) {
	d := req.Dialect
	path := req.Output
	if path == "" {
		path = d.DefaultPath(req.Preset)
	}
	format, err := serialize.Choose(path, d.Name(), d.Formats())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	art, err := d.Compose(g.config().Source(d.Name()), req.Preset, req.Inline, g.env())
	if err != nil {
		return nil, err
	}
	log.Debug("composed", "duration", time.Since(start))

	var pinned map[string]string
	if latest := art.Latest(); len(latest) > 0 && g.Pinner != nil {
		pinned, err = g.Pinner.Pin(ctx, latest)
		if err != nil {
			return nil, err
		}
		art = art.Pin(pinned)
		log.Debug("pinned", "packages", len(pinned))
	}

	data, err := art.Render(format)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", d.Name(), err)
	}
	return &Result{
		Dialect: d.Name(),
		Preset:  req.Preset,
		Path:    path,
		Format:  format,
		Data:    data,
		Pinned:  pinned,
	}, nil
}

// Generate builds one artifact and writes it.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	log := g.logger().With("request_id", uuid.NewString(), "dialect", req.Dialect.Name(), "preset", req.Preset)
	res, err := g.build(ctx, log, req)
	if err != nil {
		log.Debug("generation failed", "error", err)
		return nil, err
	}
	if err := g.write(log, res.file()); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) file() output.File {
	return output.File{Path: r.Path, Data: r.Data}
}

func (g *Generator) write(log *slog.Logger, files ...output.File) error {
	w := g.Writer
	if w == nil {
		w = &output.Writer{}
	}
	written, err := w.Write(files...)
	for _, path := range written {
		log.Info("wrote file", "path", path)
	}
	return err
}

// NewPinner builds the version pinner described by the npm configuration.
// The caller closes the returned cache, if any.
func NewPinner(cfg config.NPM) (*versions.Pinner, *versions.Cache, error) {
	prefix, err := versions.ParsePrefix(cfg.VersionRange)
	if err != nil {
		return nil, nil, err
	}
	npm := versions.NewNPM(cfg.Registry)
	var (
		registry versions.Registry = npm
		cache    *versions.Cache
	)
	if cfg.Cache != "" {
		path, err := expandHome(cfg.Cache)
		if err != nil {
			return nil, nil, err
		}
		cache, err = versions.OpenCache(path, npm.BaseURL, npm, time.Duration(cfg.CacheTTL))
		if err != nil {
			return nil, nil, err
		}
		registry = cache
	}
	return &versions.Pinner{
		Registry:    registry,
		Prefix:      prefix,
		Timeout:     time.Duration(cfg.Timeout),
		Concurrency: int(cfg.Concurrency),
	}, cache, nil
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, rest), nil
}
