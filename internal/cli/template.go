package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sketch/internal/render"
)

// TemplateOptions holds flags for the template commands.
type TemplateOptions struct {
	Stdout bool
}

// TemplateResult is the JSON payload of the template commands.
type TemplateResult struct {
	Template string `json:"template"`
	Path     string `json:"path,omitempty"`
	Content  string `json:"content,omitempty"`
}

func (r TemplateResult) String() string {
	if r.Path == "" {
		return r.Content
	}
	return "wrote " + r.Path
}

// NewRenderCommand creates the render command, which renders a template file.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TemplateOptions{}
	cmd := &cobra.Command{
		Use:   "render <template-file> [output]",
		Short: "Render a template file",
		Long: `Render a text/template file with the configured variables.

Relative template paths are resolved against the templates directory. Without
an output path the result is printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: withSession(rootOpts, func(cmd *cobra.Command, s *session, args []string) error {
			t := render.Template{Name: args[0], File: args[0]}
			return runTemplate(s, t, "", args[1:], opts)
		}),
	}
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "print the result instead of writing it")
	return cmd
}

// NewRenderPresetCommand creates the render-preset command, which renders a
// template defined in the config file.
func NewRenderPresetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TemplateOptions{}
	cmd := &cobra.Command{
		Use:   "render-preset <template> [output]",
		Short: "Render a configured template",
		Long: `Render a template declared under templates in the config file.

The output path defaults to the template's configured output; templates
without one are printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: withSession(rootOpts, func(cmd *cobra.Command, s *session, args []string) error {
			t, defaultOut := s.gen.Template(args[0])
			return runTemplate(s, t, defaultOut, args[1:], opts)
		}),
	}
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "print the result instead of writing it")
	return cmd
}

func runTemplate(s *session, t render.Template, defaultOut string, rest []string, opts *TemplateOptions) error {
	out := defaultOut
	if len(rest) > 0 {
		out = rest[0]
	}
	if out == "" || opts.Stdout {
		text, err := s.gen.RenderTemplate(t, nil)
		if err != nil {
			return s.formatter.Fail(err)
		}
		if s.opts.Format != "json" {
			_, err := s.formatter.Writer.Write([]byte(text))
			return err
		}
		return s.formatter.Success(TemplateResult{Template: t.Name, Content: text})
	}
	if err := s.gen.RenderTo(t, out); err != nil {
		return s.formatter.Fail(err)
	}
	return s.formatter.Success(TemplateResult{Template: t.Name, Path: out})
}

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	Inline string
	Shell  string
	Dir    string
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{}
	cmd := &cobra.Command{
		Use:   "exec [template]",
		Short: "Render a template and run it as a shell script",
		Long: `Render a configured template, a template file or an --inline script, then
run the result with "<shell> -c". The script's exit status becomes sketch's.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(rootOpts, func(cmd *cobra.Command, s *session, args []string) error {
			var t render.Template
			switch {
			case opts.Inline != "" && len(args) == 0:
				t = render.Inline(opts.Inline)
			case len(args) == 1 && opts.Inline == "":
				t, _ = s.gen.Template(args[0])
			default:
				return s.formatter.Fail(NewExitError(ExitCommandError, "exactly one of a template name or --inline is required"))
			}
			runner := &render.Runner{
				Shell:  opts.Shell,
				Dir:    opts.Dir,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			if err := s.gen.Exec(cmd.Context(), runner, t); err != nil {
				return s.formatter.Fail(err)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&opts.Inline, "inline", "i", "", "inline script template")
	cmd.Flags().StringVar(&opts.Shell, "shell", envOr("SHELL", "sh"), "shell used to run the script")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "C", "", "working directory of the script")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
