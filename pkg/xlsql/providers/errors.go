package providers

import (
	"errors"
	"fmt"
)

// ErrForeignHandle indicates a value that is not a row handle issued by this
// registry.
var ErrForeignHandle = errors.New("not a row handle from this registry")

// ErrStaleHandle indicates a row handle whose cursor has moved on or closed.
var ErrStaleHandle = errors.New("row handle is no longer current")

// ErrColumnOutOfRange indicates a column index past the end of the row.
var ErrColumnOutOfRange = errors.New("column out of range")

// ErrBadLocator indicates a column locator that is neither an index nor
// column letters.
var ErrBadLocator = errors.New("invalid column locator")

// LookupError represents a failed row accessor call.
type LookupError struct {
	Locator string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Locator == "" {
		return fmt.Sprintf("xl_at: %v", e.Err)
	}
	return fmt.Sprintf("xl_at %s: %v", e.Locator, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError creates a new LookupError.
func NewLookupError(locator string, err error) *LookupError {
	return &LookupError{
		Locator: locator,
		Err:     err,
	}
}
