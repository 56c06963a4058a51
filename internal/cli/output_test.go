package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/output"
	"github.com/roach88/sketch/internal/preset"
	"github.com/roach88/sketch/internal/render"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/versions"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"result": "success"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	require.NoError(t, formatter.Error("E003", "preset not found", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E003", resp.Error.Code)
	assert.Equal(t, "preset not found", resp.Error.Message)
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "text",
		Writer:    out,
		ErrWriter: errOut,
	}

	require.NoError(t, formatter.Error("E007", "write failed", nil))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error [E007]: write failed\n", errOut.String())
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(ArtifactResult{Path: "package.json", Written: true}))
	assert.Equal(t, "wrote package.json\n", buf.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"parse", schema.Errorf(tree.Path{}.Key("name"), "bad"), ErrCodeParse, ExitFailure},
		{"syntax", &tree.SyntaxError{Syntax: tree.SyntaxYAML, Message: "bad"}, ErrCodeParse, ExitFailure},
		{"not found", fmt.Errorf("wrapped: %w", &preset.NotFoundError{Dialect: "gitignore", ID: "x"}), ErrCodeNotFound, ExitFailure},
		{"cycle", &preset.CycleError{Dialect: "gitignore", Chain: []string{"a", "a"}}, ErrCodeCycle, ExitFailure},
		{"cross variant", &merge.CrossVariantError{Left: "normal", Right: "reusable"}, ErrCodeCrossVariant, ExitFailure},
		{"pin", &versions.PinError{Package: "react", Err: versions.ErrNotFound}, ErrCodePin, ExitFailure},
		{"io", &output.IOError{Op: "write", Path: "x", Err: output.ErrExists}, ErrCodeWriteFailed, ExitFailure},
		{"format", &serialize.FormatError{Path: "x.ini"}, ErrCodeFormat, ExitFailure},
		{"template", fmt.Errorf("%w: readme", render.ErrTemplateNotFound), ErrCodeTemplate, ExitFailure},
		{"script", &render.ExitError{Code: 3}, ErrCodeScriptFailure, 3},
		{"config", &configError{err: errors.New("missing")}, ErrCodeConfig, ExitCommandError},
		{"usage", NewExitError(ExitCommandError, "bad args"), ErrCodeGeneric, ExitCommandError},
		{"other", errors.New("boom"), ErrCodeGeneric, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "E001", errors.New("x"))))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("unknown flag")))
}

func TestExitError(t *testing.T) {
	inner := errors.New("inner")
	err := WrapExitError(ExitFailure, "E006", inner)
	assert.Equal(t, "E006: inner", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "plain", NewExitError(ExitCommandError, "plain").Error())
}
