package csvio

import (
	"errors"
	"fmt"
)

// ErrColumnCount is wrapped by row errors for rows without 3 or 4 fields.
var ErrColumnCount = errors.New("row must have 3 or 4 fields")

// RowError reports a malformed input row.
type RowError struct {
	Line int
	Err  error
}

// Error returns the line number and the underlying error.
func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}
