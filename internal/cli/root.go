package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	TemplatesDir string
	NoOverwrite  bool
	ConfigPath   string
	IgnoreConfig bool
	Sets         []string
	VarsFile     string
	PrintConfig  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sketch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sketch",
		Short: "sketch - project scaffolding from composable presets",
		Long: `Generate configuration files from named, composable presets.

Presets live in sketch.yaml (or .yml, .toml, .json, .cue) under presets.<dialect>.
A preset may extend others; the chain is merged field by field with the
rules of each file format before the result is written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.IgnoreConfig && opts.ConfigPath != "" {
				return fmt.Errorf("--config and --ignore-config are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PrintConfig {
				return withSession(opts, func(*cobra.Command, *session, []string) error { return nil })(cmd, args)
			}
			return cmd.Help()
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.TemplatesDir, "templates-dir", "", "directory of template files")
	flags.BoolVar(&opts.NoOverwrite, "no-overwrite", false, "refuse to replace existing files")
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default: discovered sketch.* file)")
	flags.BoolVar(&opts.IgnoreConfig, "ignore-config", false, "do not load any config file")
	flags.StringArrayVar(&opts.Sets, "set", nil, "template variable KEY=VALUE; dotted keys set nested values")
	flags.StringVar(&opts.VarsFile, "vars-file", "", "JSON, YAML or TOML file of template variables")
	flags.BoolVar(&opts.PrintConfig, "print-config", false, "print the effective configuration and exit")

	// Add subcommands
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewRepoCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewRenderPresetCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewPresetsCommand(opts))
	for _, a := range artifactCommands {
		cmd.AddCommand(newArtifactCommand(opts, a))
	}
	cmd.AddCommand(NewRustCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	if _, reported := err.(*ExitError); !reported {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
