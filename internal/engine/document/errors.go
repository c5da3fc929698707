package document

import (
	"errors"
	"fmt"
)

// Errors returned (or carried by panics) from document operations.
var (
	// ErrLoad indicates the source file could not be read.
	ErrLoad = errors.New("load failed")

	// ErrSave indicates the document could not be written.
	ErrSave = errors.New("save failed")

	// ErrNoPath indicates a save was requested for a document without a path.
	ErrNoPath = errors.New("document has no path")

	// ErrRowOutOfRange indicates a row index outside the document.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrEmbeddedNewline indicates line content containing a line feed.
	ErrEmbeddedNewline = errors.New("line content contains a line feed")
)

// OperationError represents a failed file operation on a document.
type OperationError struct {
	Op   string // Operation name (e.g., "load", "save", "stat")
	Path string // File path the operation targeted
	Err  error  // Underlying error
}

// newOperationError wraps cause with both the kind sentinel and the
// original error so errors.Is matches either.
func newOperationError(op, path string, kind, cause error) *OperationError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &OperationError{Op: op, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RowError describes a misuse of a row index or line content. It is the
// value passed to panic by row-level operations.
type RowError struct {
	Op    string // Operation name (e.g., "split", "merge")
	Row   int    // Requested row
	Lines int    // Line count at the time of the call
	Err   error  // ErrRowOutOfRange or ErrEmbeddedNewline
}

func (e *RowError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("document: %s row %d (%d lines): %v", e.Op, e.Row, e.Lines, e.Err)
}

func (e *RowError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
