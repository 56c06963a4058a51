package cli

import (
	"fmt"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/dialect/cargo"
	"github.com/roach88/sketch/internal/dialect/compose"
	"github.com/roach88/sketch/internal/dialect/gitignore"
	"github.com/roach88/sketch/internal/dialect/license"
	"github.com/roach88/sketch/internal/dialect/oxlint"
	"github.com/roach88/sketch/internal/dialect/packagejson"
	"github.com/roach88/sketch/internal/dialect/pnpm"
	"github.com/roach88/sketch/internal/dialect/precommit"
	"github.com/roach88/sketch/internal/dialect/repo"
	"github.com/roach88/sketch/internal/dialect/tsconfig"
	"github.com/roach88/sketch/internal/dialect/workflow"
	"github.com/roach88/sketch/internal/generate"
	"github.com/roach88/sketch/internal/tree"
)

// artifactCommand describes one single-file generating subcommand.
type artifactCommand struct {
	use     string
	short   string
	dialect dialect.Dialect
}

var artifactCommands = []artifactCommand{
	{"gh-workflow", "Generate a GitHub Actions workflow", workflow.Spec},
	{"docker-compose", "Generate a Docker Compose file", compose.Spec},
	{"pnpm-workspace", "Generate pnpm-workspace.yaml", pnpm.Spec},
	{"oxlint", "Generate .oxlintrc.json", oxlint.Spec},
	{"package-json", "Generate package.json", packagejson.Spec},
	{"ts-config", "Generate tsconfig.json", tsconfig.Spec},
	{"pre-commit", "Generate .pre-commit-config.yaml", precommit.Spec},
	{"gitignore", "Generate .gitignore", gitignore.Spec},
	{"license", "Generate a LICENSE file", license.Spec},
}

// ArtifactOptions holds flags for the artifact commands.
type ArtifactOptions struct {
	Inline string
	Output string
	Stdout bool
}

// ArtifactResult is the JSON payload of an artifact command.
type ArtifactResult struct {
	Dialect string            `json:"dialect"`
	Preset  string            `json:"preset,omitempty"`
	Path    string            `json:"path"`
	Written bool              `json:"written"`
	Content string            `json:"content,omitempty"`
	Pinned  map[string]string `json:"pinned,omitempty"`
}

func (r ArtifactResult) String() string {
	if !r.Written {
		return r.Content
	}
	return "wrote " + r.Path
}

func newArtifactCommand(rootOpts *RootOptions, a artifactCommand) *cobra.Command {
	opts := &ArtifactOptions{}
	cmd := &cobra.Command{
		Use:   a.use + " [preset] [output]",
		Short: a.short,
		Long: fmt.Sprintf(`%s from the %q presets of the config file.

The output path defaults to %s. Use --inline to merge a YAML or JSON body
over the preset (the body may carry its own extends list, and replaces the
preset argument when none is given).`, a.short, a.dialect.Name(), describePath(a.dialect)),
		Args: cobra.RangeArgs(0, 2),
		RunE: withSession(rootOpts, func(cmd *cobra.Command, s *session, args []string) error {
			return runArtifact(cmd, s, a.dialect, opts, args)
		}),
	}

	cmd.Flags().StringVar(&opts.Inline, "inline", "", "inline YAML/JSON override body")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output path (same as the second argument)")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "print the artifact instead of writing it")

	return cmd
}

func describePath(d dialect.Dialect) string {
	if p := d.DefaultPath(""); p != "" && d.DefaultPath("x") == p {
		return p
	}
	return d.DefaultPath("<preset>")
}

func runArtifact(cmd *cobra.Command, s *session, d dialect.Dialect, opts *ArtifactOptions, args []string) error {
	req := generate.Request{Dialect: d}
	if len(args) > 0 {
		req.Preset = args[0]
	}
	if len(args) > 1 {
		req.Output = args[1]
	}
	if opts.Output != "" {
		req.Output = opts.Output
	}
	if opts.Inline != "" {
		doc, err := tree.ParseString(opts.Inline)
		if err != nil {
			return s.formatter.Fail(fmt.Errorf("--inline: %w", err))
		}
		req.Inline = doc.Root
	}
	if req.Preset == "" && req.Inline == nil {
		return s.formatter.Fail(NewExitError(ExitCommandError, "a preset or --inline body is required"))
	}
	if req.Output == "" && req.Preset == "" && d.DefaultPath("") != d.DefaultPath("x") {
		return s.formatter.Fail(NewExitError(ExitCommandError, "an output path is required for an inline "+d.Name()+" body"))
	}

	ctx := cmd.Context()
	var (
		res *generate.Result
		err error
	)
	if opts.Stdout {
		res, err = s.gen.Build(ctx, req)
	} else {
		res, err = s.gen.Generate(ctx, req)
	}
	if err != nil {
		return s.formatter.Fail(err)
	}

	out := ArtifactResult{
		Dialect: res.Dialect,
		Preset:  res.Preset,
		Path:    res.Path,
		Written: !opts.Stdout,
		Pinned:  res.Pinned,
	}
	if opts.Stdout {
		if s.opts.Format != "json" {
			_, err := s.formatter.Writer.Write(res.Data)
			return err
		}
		out.Content = string(res.Data)
	}
	return s.formatter.Success(out)
}

// NewRustCommand groups the Cargo manifest commands.
func NewRustCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rust",
		Short: "Generate Cargo manifests",
	}
	cmd.AddCommand(newArtifactCommand(rootOpts, artifactCommand{"manifest", "Generate a package Cargo.toml", cargo.Spec}))
	cmd.AddCommand(newArtifactCommand(rootOpts, artifactCommand{"workspace", "Generate a workspace-root Cargo.toml", cargo.WorkspaceSpec}))
	return cmd
}

// NewPresetsCommand lists and validates the presets of every dialect.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets [dialect]",
		Short: "List and validate configured presets",
		Long: `List the presets of each dialect, resolving every extends chain.

Fails on the first preset that does not decode or whose extends chain is
broken or cyclic.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(rootOpts, func(cmd *cobra.Command, s *session, args []string) error {
			dialects := append(s.gen.Dialects.All(), repo.Spec)
			if len(args) == 1 {
				i := slices.IndexFunc(dialects, func(d dialect.Dialect) bool { return d.Name() == args[0] })
				if i < 0 {
					return s.formatter.Fail(NewExitError(ExitCommandError, fmt.Sprintf("unknown dialect %q", args[0])))
				}
				dialects = dialects[i : i+1]
			}
			listing := make(presetListing)
			for _, d := range dialects {
				ids, err := d.Validate(s.file.Source(d.Name()))
				if err != nil {
					return s.formatter.Fail(err)
				}
				if len(ids) > 0 {
					listing[d.Name()] = ids
				}
			}
			return s.formatter.Success(listing)
		}),
	}
}

// presetListing maps dialect tags to preset ids.
type presetListing map[string][]string

func (l presetListing) String() string {
	tags := make([]string, 0, len(l))
	for tag := range l {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	var out string
	for _, tag := range tags {
		out += tag + ":\n"
		for _, id := range l[tag] {
			out += "  " + id + "\n"
		}
	}
	if out == "" {
		return "no presets configured"
	}
	return out[:len(out)-1]
}
