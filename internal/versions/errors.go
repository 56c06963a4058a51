package versions

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the registry does not know a package.
var ErrNotFound = errors.New("package not found")

// PinError reports a package whose "latest" version could not be resolved.
type PinError struct {
	Package string
	Err     error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("pinning %q: %v", e.Package, e.Err)
}

func (e *PinError) Unwrap() error { return e.Err }

// IsPinError checks if an error is a PinError.
func IsPinError(err error) bool {
	var pe *PinError
	return errors.As(err, &pe)
}
