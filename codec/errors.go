// Package codec converts between the sparse in-memory sheet grid and
// the run-length-compressed table XML used by the OpenDocument
// spreadsheet format. The encoder and decoder are single-pass,
// forward-only streaming algorithms; neither buffers a whole document.
package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode failure taxonomy. All of them are
// fatal: a corrupt row or column counter invalidates every later
// position computation, so the first error aborts the decode with no
// partial-sheet recovery.
var (
	// ErrUnknownValueType is returned when a content cell declares a
	// value type the decoder does not recognize.
	ErrUnknownValueType = errors.New("unknown value type")

	// ErrMissingValue is returned when a content cell declares a value
	// type but omits the attribute that carries the value.
	ErrMissingValue = errors.New("missing value attribute")

	// ErrMalformedStream is returned on unexpected tag nesting, a
	// missing close tag, or a truncated stream.
	ErrMalformedStream = errors.New("malformed table stream")
)

// CellError reports a cell-level decode failure together with the
// grid position at which it occurred.
type CellError struct {
	Row, Col int
	Detail   string
	Err      error
}

// Error implements the error interface.
func (e *CellError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cell (%d,%d): %v: %s", e.Row, e.Col, e.Err, e.Detail)
	}
	return fmt.Sprintf("cell (%d,%d): %v", e.Row, e.Col, e.Err)
}

// Unwrap returns the underlying error.
func (e *CellError) Unwrap() error {
	return e.Err
}
