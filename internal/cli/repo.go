package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sketch/internal/config"
	"github.com/roach88/sketch/internal/output"
)

// RepoResult is the JSON payload of the repo command.
type RepoResult struct {
	Preset    string            `json:"preset"`
	Dir       string            `json:"dir"`
	Artifacts []ArtifactResult  `json:"artifacts"`
	Pinned    map[string]string `json:"pinned,omitempty"`
}

func (r RepoResult) String() string {
	out := ""
	for i, a := range r.Artifacts {
		if i > 0 {
			out += "\n"
		}
		out += a.String()
	}
	return out
}

// NewRepoCommand creates the repo command.
func NewRepoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repo <preset> [dir]",
		Short: "Initialise a project from a repo preset",
		Long: `Generate every artifact and template named by a repo preset.

All artifacts are composed and serialized before anything is written, so a
failing preset leaves the target directory untouched.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: withSession(rootOpts, func(cmd *cobra.Command, s *session, args []string) error {
			dir := "."
			if len(args) > 1 {
				dir = args[1]
			}
			results, err := s.gen.Repo(cmd.Context(), args[0], dir)
			if err != nil {
				return s.formatter.Fail(err)
			}
			out := RepoResult{Preset: args[0], Dir: dir}
			for _, res := range results {
				out.Artifacts = append(out.Artifacts, ArtifactResult{
					Dialect: res.Dialect,
					Preset:  res.Preset,
					Path:    res.Path,
					Written: true,
				})
				for name, version := range res.Pinned {
					if out.Pinned == nil {
						out.Pinned = make(map[string]string)
					}
					out.Pinned[name] = version
				}
			}
			return s.formatter.Success(out)
		}),
	}
}

// NewNewCommand creates the new command, which writes a starter config.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new [path]",
		Short: "Write a starter config file",
		Long: `Write a starter sketch.yaml with example presets for every dialect.

The file is written to ./` + config.DefaultFileName + ` unless a path is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			w := &output.Writer{NoOverwrite: rootOpts.NoOverwrite}
			if _, err := w.Write(output.File{Path: path, Data: config.Default()}); err != nil {
				return formatter.Fail(err)
			}
			return formatter.Success(TemplateResult{Template: "config", Path: path})
		},
	}
}
