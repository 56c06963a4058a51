package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sketch/internal/config"
	"github.com/roach88/sketch/internal/dialect/catalog"
	"github.com/roach88/sketch/internal/generate"
	"github.com/roach88/sketch/internal/output"
	"github.com/roach88/sketch/internal/render"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/versions"
)

// session is the per-invocation state shared by the generating commands.
type session struct {
	opts      *RootOptions
	file      *config.File
	gen       *generate.Generator
	formatter *OutputFormatter
	cache     *versions.Cache
}

// newLogger builds the stderr text logger; --verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the configuration selected by the global flags.
func loadConfig(opts *RootOptions) (*config.File, error) {
	if opts.IgnoreConfig {
		return config.Empty(), nil
	}
	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err != nil {
			return nil, &configError{err: fmt.Errorf("config file: %w", err)}
		}
		return config.Load(opts.ConfigPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, &configError{err: err}
	}
	userDir, _ := os.UserConfigDir()
	path, err := config.Discover(cwd, userDir)
	if errors.Is(err, config.ErrNotFound) {
		return config.Empty(), nil
	}
	if err != nil {
		return nil, &configError{err: err}
	}
	return config.Load(path)
}

// openSession loads configuration and wires the generator. The caller must
// close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	file, err := loadConfig(opts)
	if err != nil {
		return nil, formatter.Fail(err)
	}
	if file.Path != "" {
		logger.Debug("loaded config", "path", file.Path)
	}

	vars, err := config.Vars(file.Config.Vars, opts.VarsFile, opts.Sets)
	if err != nil {
		return nil, formatter.Fail(err)
	}

	templatesDir := file.Config.TemplatesDir
	if opts.TemplatesDir != "" {
		templatesDir = opts.TemplatesDir
	}

	pinner, cache, err := generate.NewPinner(file.Config.NPM)
	if err != nil {
		return nil, formatter.Fail(err)
	}

	return &session{
		opts:      opts,
		file:      file,
		formatter: formatter,
		cache:     cache,
		gen: &generate.Generator{
			Config:   file,
			Dialects: catalog.Default(),
			Pinner:   pinner,
			Renderer: &render.Renderer{Dir: templatesDir},
			Writer:   &output.Writer{NoOverwrite: opts.NoOverwrite || file.Config.NoOverwrite},
			Logger:   logger,
			Vars:     vars,
		},
	}, nil
}

func (s *session) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

// printConfig writes the effective configuration as YAML, with vars after
// --vars-file and --set are applied.
func (s *session) printConfig() error {
	cfg := s.file.Config
	cfg.Vars = s.gen.Vars
	v, err := schema.Encode(cfg)
	if err != nil {
		return s.formatter.Fail(err)
	}
	if s.opts.Format == "json" {
		return s.formatter.Success(map[string]any{"path": s.file.Path, "config": tree.ToAny(v)})
	}
	data, err := serialize.MarshalYAML(v)
	if err != nil {
		return s.formatter.Fail(err)
	}
	if s.file.Path != "" {
		fmt.Fprintf(s.formatter.Writer, "# %s\n", s.file.Path)
	}
	_, err = s.formatter.Writer.Write(data)
	return err
}

// withSession opens a session for a command's RunE. With --print-config the
// effective configuration is printed instead of running the command.
func withSession(opts *RootOptions, run func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(opts, cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if opts.PrintConfig {
			return s.printConfig()
		}
		return run(cmd, s, args)
	}
}
