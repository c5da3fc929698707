// Package gapbuffer provides a mutable byte sequence with a movable gap,
// optimized for clustered edits around a moving cursor.
//
// The backing slice is partitioned into three regions:
//
//	[ head | gap | tail ]
//
// Inserts are copied into the gap and deletes widen it, so a run of edits
// at or near the same position costs amortized O(1). Editing at a distant
// position first relocates the gap with a single copy, which is O(n) in the
// distance moved.
//
// Basic usage:
//
//	buf := gapbuffer.New("Hello World")
//
//	buf.InsertString(5, ",")     // "Hello, World"
//	buf.Remove(0, 7)             // "World"
//	buf.InsertChar(5, '!')       // "World!"
//
//	visible := buf.Render(0, 3)  // "Wor"
//
// Position Types:
//
// Two distinct position types keep byte and character arithmetic apart:
//
//   - ByteOffset: a byte position in the logical content. All editing
//     operations take ByteOffsets.
//   - CharIndex: a position counted in Unicode scalar values, the unit a
//     cursor column is measured in.
//
// Use ByteOffsetOf and CharIndexOf to convert between them. Mixing the two
// without a conversion does not compile.
//
// Failure Modes:
//
// Insert and Remove treat out-of-range offsets as programmer errors and
// panic with a *RangeError. Render and the conversion helpers clamp instead,
// since display code routinely probes past the end of a line.
//
// A GapBuffer is not safe for concurrent use.
package gapbuffer
