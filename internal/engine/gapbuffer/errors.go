package gapbuffer

import (
	"errors"
	"fmt"
)

// Errors carried by the panics raised on precondition violations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range with end < start or end > Len.
	ErrRangeInvalid = errors.New("invalid range")
)

// RangeError describes an out-of-bounds edit. It is the value passed to
// panic when Insert, Remove or Truncate receive offsets that do not fit
// the buffer.
type RangeError struct {
	Op    string     // Operation name (e.g., "insert", "remove")
	Start ByteOffset // Requested start offset
	End   ByteOffset // Requested end offset (equal to Start for point operations)
	Len   int        // Logical length at the time of the call
	Err   error      // ErrOffsetOutOfRange or ErrRangeInvalid
}

func (e *RangeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Start == e.End {
		return fmt.Sprintf("gapbuffer: %s at %d (len %d): %v", e.Op, int(e.Start), e.Len, e.Err)
	}
	return fmt.Sprintf("gapbuffer: %s [%d, %d) (len %d): %v", e.Op, int(e.Start), int(e.End), e.Len, e.Err)
}

func (e *RangeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
