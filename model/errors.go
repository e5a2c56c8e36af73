package model

import (
	"errors"
	"fmt"
)

// ErrPageOutOfRange is returned when a page number does not exist
var ErrPageOutOfRange = errors.New("page number out of range")

// ExtractionError reports a failure of the glyph source behind a document.
// It is never retried; callers decide whether to try the whole operation
// again.
type ExtractionError struct {
	Page int // 1-indexed page being read, 0 if not page specific
	Err  error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("glyph extraction failed on page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("glyph extraction failed: %v", e.Err)
}

// Unwrap returns the underlying source error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}
