package schema

import (
	"errors"
	"fmt"

	"github.com/roach88/sketch/internal/tree"
)

// ParseError reports a value that does not fit its declared schema.
type ParseError struct {
	Path    tree.Path
	Pos     tree.Position
	Message string
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() || e.Pos.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Errorf builds a ParseError at path.
func Errorf(path tree.Path, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// TypeError reports a value of the wrong shape.
func TypeError(path tree.Path, want string, got tree.Value) *ParseError {
	kind := "null"
	if got != nil {
		kind = got.Kind().String()
	}
	return Errorf(path, "expected %s, found %s", want, kind)
}

// IsParseError reports whether err wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Locate fills in the source position of a ParseError from doc, rebasing the
// error path onto base first. Other errors are returned unchanged.
func Locate(err error, doc *tree.Document, base tree.Path) error {
	var pe *ParseError
	if doc == nil || !errors.As(err, &pe) || pe.Pos.IsValid() {
		return err
	}
	full := make(tree.Path, 0, len(base)+len(pe.Path))
	full = append(full, base...)
	full = append(full, pe.Path...)
	pe.Pos = doc.PositionOf(full)
	pe.Path = full
	return err
}
