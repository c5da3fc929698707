package gapbuffer

import "fmt"

// ByteOffset is a byte position in a buffer's logical content.
type ByteOffset int

// CharIndex is a position counted in Unicode scalar values.
// Invalid UTF-8 bytes count as one character each.
type CharIndex int

// String returns a human-readable representation of the offset.
func (o ByteOffset) String() string {
	return fmt.Sprintf("byte %d", int(o))
}

// String returns a human-readable representation of the index.
func (c CharIndex) String() string {
	return fmt.Sprintf("char %d", int(c))
}
