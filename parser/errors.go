package parser

import (
	"errors"
	"fmt"

	"github.com/algorithmx/gdsii-toolbox-146-sub004/scanner"
)

var (
	// ErrClosed is returned by operations on a closed library.
	ErrClosed = errors.New("library closed")
	// ErrNotScanned is returned when element access precedes Scan.
	ErrNotScanned = errors.New("library not scanned")
)

// InputError rejects a call before any parsing happens: nil/empty
// buffers and out-of-range indices.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "invalid input: " + e.Reason }

// LimitError reports a decoded quantity exceeding a configured limit.
// Overflow fails the current parse step instead of silently truncating,
// so malformed input is never masked.
type LimitError struct {
	What string
	Max  int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s exceeds limit %d", e.What, e.Max)
}

func indexErr(what string, i, n int) error {
	return &InputError{Reason: fmt.Sprintf("%s index %d out of range [0,%d)", what, i, n)}
}

func formatErr(pos int64, reason string) error {
	return &scanner.FormatError{Offset: pos, Reason: reason}
}
