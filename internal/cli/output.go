package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/output"
	"github.com/roach88/sketch/internal/preset"
	"github.com/roach88/sketch/internal/render"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/versions"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Generation failure (bad preset, merge conflict, pinning, write)
	ExitCommandError = 2 // Command error (bad flags, missing config file, etc.)
)

// Error codes reported in text and JSON output.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeParse         = "E002" // Config or preset does not fit its schema
	ErrCodeNotFound      = "E003" // Preset not found
	ErrCodeCycle         = "E004" // Cycle in extends
	ErrCodeCrossVariant  = "E005" // Union variants cannot be merged
	ErrCodePin           = "E006" // Version pinning failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeFormat        = "E008" // Output format not accepted
	ErrCodeTemplate      = "E009" // Template lookup or rendering failed
	ErrCodeConfig        = "E010" // Config file missing or unreadable
	ErrCodeScriptFailure = "E011" // exec script exited non-zero
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Errors that are not ExitErrors come from cobra's argument and flag
// validation and map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// classify maps a failure to its error code and exit code.
func classify(err error) (string, int) {
	var (
		parseErr  *schema.ParseError
		syntaxErr *tree.SyntaxError
		nfErr     *preset.NotFoundError
		cycleErr  *preset.CycleError
		cvErr     *merge.CrossVariantError
		pinErr    *versions.PinError
		ioErr     *output.IOError
		fmtErr    *serialize.FormatError
		scriptErr *render.ExitError
		cfgErr    *configError
		exitErr   *ExitError
	)
	switch {
	case errors.As(err, &exitErr):
		return ErrCodeGeneric, exitErr.Code
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, ExitCommandError
	case errors.As(err, &parseErr), errors.As(err, &syntaxErr):
		return ErrCodeParse, ExitFailure
	case errors.As(err, &nfErr):
		return ErrCodeNotFound, ExitFailure
	case errors.As(err, &cycleErr):
		return ErrCodeCycle, ExitFailure
	case errors.As(err, &cvErr):
		return ErrCodeCrossVariant, ExitFailure
	case errors.As(err, &pinErr):
		return ErrCodePin, ExitFailure
	case errors.As(err, &ioErr):
		return ErrCodeWriteFailed, ExitFailure
	case errors.As(err, &fmtErr):
		return ErrCodeFormat, ExitFailure
	case errors.As(err, &scriptErr):
		return ErrCodeScriptFailure, scriptErr.Code
	case errors.Is(err, render.ErrTemplateNotFound):
		return ErrCodeTemplate, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// configError marks a configuration that could not be located or read.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }

func (e *configError) Unwrap() error { return e.err }

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for diagnostics (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // optional log correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format. Text errors go to
// ErrWriter so they never mix with artifact output on stdout.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
