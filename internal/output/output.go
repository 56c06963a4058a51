// Package output writes generated files.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists is returned when a file exists and overwriting is disabled.
var ErrExists = errors.New("file exists and overwriting is disabled")

// IOError reports a failed file operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsIOError checks if an error is an IOError.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}

// File is one file to write.
type File struct {
	Path string
	Data []byte
}

// Writer writes files under Root, creating parent directories.
type Writer struct {
	// Root resolves relative paths; empty means the working directory.
	Root string
	// NoOverwrite refuses to replace existing files.
	NoOverwrite bool
}

// Resolve returns the path a file would be written to.
func (w *Writer) Resolve(path string) string {
	if filepath.IsAbs(path) || w.Root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(w.Root, path)
}

// Check reports the overwrite conflicts of files without writing anything.
func (w *Writer) Check(files ...File) error {
	if !w.NoOverwrite {
		return nil
	}
	var errs []error
	for _, f := range files {
		path := w.Resolve(f.Path)
		if _, err := os.Stat(path); err == nil {
			errs = append(errs, &IOError{Op: "write", Path: path, Err: ErrExists})
		} else if !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &IOError{Op: "stat", Path: path, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Write checks every file first, then writes them in order.
func (w *Writer) Write(files ...File) ([]string, error) {
	if err := w.Check(files...); err != nil {
		return nil, err
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		path := w.Resolve(f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return written, &IOError{Op: "write", Path: path, Err: err}
		}
		written = append(written, path)
	}
	return written, nil
}
