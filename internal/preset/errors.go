package preset

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a preset id absent from its dialect's store.
type NotFoundError struct {
	Dialect string
	ID      string
	// Referrer is the preset whose extends named ID, empty for a direct
	// selection.
	Referrer string
}

func (e *NotFoundError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("%s preset %q not found (extended by %q)", e.Dialect, e.ID, e.Referrer)
	}
	return fmt.Sprintf("%s preset %q not found", e.Dialect, e.ID)
}

// CycleError reports a cycle in the extends graph. Chain starts and ends with
// the same id.
type CycleError struct {
	Dialect string
	Chain   []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected in %s presets: %s", e.Dialect, strings.Join(e.Chain, " -> "))
}

// IsNotFoundError reports whether err wraps a NotFoundError.
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCycleError reports whether err wraps a CycleError.
func IsCycleError(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
