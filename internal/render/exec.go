package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ExitError reports a script that ran and exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("script exited with status %d", e.Code)
}

// Runner runs scripts with `<shell> -c`.
type Runner struct {
	Shell  string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Run runs script and waits for it.
func (r *Runner) Run(ctx context.Context, script string) error {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", script)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}
