package gapbuffer

import (
	"io"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// View is the read-only subset of GapBuffer methods.
// Document hands out Views when callers should not mutate a line.
type View interface {
	Len() int
	CharLen() int
	DisplayWidth() int
	Render(start, end ByteOffset) string
	RenderChars(start, end CharIndex) string
	ByteOffsetOf(ci CharIndex) ByteOffset
	CharIndexOf(off ByteOffset) CharIndex
	RuneAt(off ByteOffset) (rune, int)
	Bytes() []byte
	String() string
	io.WriterTo
}

// GapBuffer is a byte buffer with a movable gap.
//
// buf[:gapStart] is the head, buf[gapEnd:] is the tail and the bytes in
// between are unused capacity. Logical content is head followed by tail.
type GapBuffer struct {
	buf      []byte
	gapStart int
	gapEnd   int
	chunk    int
}

var _ View = (*GapBuffer)(nil)

// New creates a buffer holding seed. The backing slice is exactly
// len(seed) bytes, so the first insert grows it.
func New(seed string, opts ...Option) *GapBuffer {
	b := newBuffer(opts)
	if seed != "" {
		b.buf = []byte(seed)
		b.gapStart = len(b.buf)
		b.gapEnd = len(b.buf)
	}
	return b
}

// NewFromBytes creates a buffer holding a copy of p.
func NewFromBytes(p []byte, opts ...Option) *GapBuffer {
	b := newBuffer(opts)
	if len(p) > 0 {
		b.buf = make([]byte, len(p))
		copy(b.buf, p)
		b.gapStart = len(p)
		b.gapEnd = len(p)
	}
	return b
}

func newBuffer(opts []Option) *GapBuffer {
	b := &GapBuffer{chunk: DefaultChunkSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the logical content length in bytes.
func (b *GapBuffer) Len() int {
	return len(b.buf) - b.GapLen()
}

// Cap returns the size of the backing slice.
func (b *GapBuffer) Cap() int {
	return len(b.buf)
}

// GapLen returns the number of unused bytes in the gap.
func (b *GapBuffer) GapLen() int {
	return b.gapEnd - b.gapStart
}

// IsEmpty returns true if the buffer holds no content.
func (b *GapBuffer) IsEmpty() bool {
	return b.Len() == 0
}

// Write Operations

// Insert inserts p at the given byte offset.
// It panics with a *RangeError if off is outside [0, Len].
func (b *GapBuffer) Insert(off ByteOffset, p []byte) {
	b.checkOffset("insert", off)
	if len(p) == 0 {
		return
	}

	if b.GapLen() < len(p) {
		b.grow(len(p) - b.GapLen())
	}
	b.moveGap(int(off))

	copy(b.buf[b.gapStart:], p)
	b.gapStart += len(p)
}

// InsertString inserts s at the given byte offset.
func (b *GapBuffer) InsertString(off ByteOffset, s string) {
	b.checkOffset("insert", off)
	if s == "" {
		return
	}

	if b.GapLen() < len(s) {
		b.grow(len(s) - b.GapLen())
	}
	b.moveGap(int(off))

	copy(b.buf[b.gapStart:], s)
	b.gapStart += len(s)
}

// InsertChar inserts the UTF-8 encoding of r at the given byte offset and
// returns the number of bytes written. Invalid runes are written as U+FFFD.
func (b *GapBuffer) InsertChar(off ByteOffset, r rune) int {
	var enc [utf8.UTFMax]byte
	n := utf8.EncodeRune(enc[:], r)
	b.Insert(off, enc[:n])
	return n
}

// Remove deletes the bytes in [start, end).
// It panics with a *RangeError unless 0 <= start <= end <= Len.
func (b *GapBuffer) Remove(start, end ByteOffset) {
	if start < 0 || start > end || int(end) > b.Len() {
		panic(&RangeError{Op: "remove", Start: start, End: end, Len: b.Len(), Err: ErrRangeInvalid})
	}
	if start == end {
		return
	}

	// With the gap parked at start, the removed bytes lead the tail.
	b.moveGap(int(start))
	b.gapEnd += int(end - start)
}

// RemoveByte removes exactly one byte at off.
// Callers must only pass offsets on a codepoint boundary; use RemoveRune
// to delete a whole character.
func (b *GapBuffer) RemoveByte(off ByteOffset) {
	b.Remove(off, off+1)
}

// RemoveRune removes the UTF-8 sequence starting at off and returns its
// width in bytes. An invalid byte is removed on its own.
func (b *GapBuffer) RemoveRune(off ByteOffset) int {
	if off < 0 || int(off) >= b.Len() {
		panic(&RangeError{Op: "remove", Start: off, End: off + 1, Len: b.Len(), Err: ErrRangeInvalid})
	}
	_, size := b.RuneAt(off)
	b.Remove(off, off+ByteOffset(size))
	return size
}

// Truncate discards all content from off to the end.
func (b *GapBuffer) Truncate(off ByteOffset) {
	b.checkOffset("truncate", off)
	b.moveGap(int(off))
	b.gapEnd = len(b.buf)
}

// Reset discards all content but keeps the backing slice.
func (b *GapBuffer) Reset() {
	b.gapStart = 0
	b.gapEnd = len(b.buf)
}

// Read Operations

// Render returns the content in [start, end) as a string.
// The range is clamped to the content: end is capped at Len and start at
// end, so Render never panics. Invalid UTF-8 is replaced by U+FFFD.
func (b *GapBuffer) Render(start, end ByteOffset) string {
	s, e := b.clamp(int(start), int(end))
	if s == e {
		return ""
	}
	return lossyString(b.appendRange(make([]byte, 0, e-s), s, e))
}

// RenderChars is Render with the range given in characters.
func (b *GapBuffer) RenderChars(start, end CharIndex) string {
	if end <= start {
		return ""
	}
	from := b.ByteOffsetOf(start)
	to := b.ByteOffsetOf(end)
	return b.Render(from, to)
}

// String returns the full content, equivalent to Render(0, Len()).
func (b *GapBuffer) String() string {
	return b.Render(0, ByteOffset(b.Len()))
}

// Bytes returns a copy of the raw content. Unlike String it performs no
// UTF-8 replacement, so it is what persistence should use.
func (b *GapBuffer) Bytes() []byte {
	return b.appendRange(make([]byte, 0, b.Len()), 0, b.Len())
}

// BytesRange returns a copy of the raw bytes in [start, end), clamped
// the same way as Render.
func (b *GapBuffer) BytesRange(start, end ByteOffset) []byte {
	s, e := b.clamp(int(start), int(end))
	return b.appendRange(make([]byte, 0, e-s), s, e)
}

// WriteTo writes the raw content to w without joining head and tail.
func (b *GapBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf[:b.gapStart])
	total := int64(n)
	if err != nil {
		return total, err
	}
	n, err = w.Write(b.buf[b.gapEnd:])
	total += int64(n)
	return total, err
}

// ByteAt returns the byte at the given offset.
func (b *GapBuffer) ByteAt(off ByteOffset) (byte, bool) {
	if off < 0 || int(off) >= b.Len() {
		return 0, false
	}
	return b.at(int(off)), true
}

// RuneAt decodes the rune starting at off.
// Returns utf8.RuneError and size 0 if off is out of range, and
// utf8.RuneError with size 1 for an invalid byte.
func (b *GapBuffer) RuneAt(off ByteOffset) (rune, int) {
	n := b.Len()
	if off < 0 || int(off) >= n {
		return utf8.RuneError, 0
	}

	// Get up to 4 bytes (max UTF-8 rune length); the rune may straddle the gap.
	var tmp [utf8.UTFMax]byte
	k := 0
	for i := int(off); i < n && k < utf8.UTFMax; i++ {
		tmp[k] = b.at(i)
		k++
	}
	return utf8.DecodeRune(tmp[:k])
}

// CharLen returns the number of Unicode scalar values in the content.
func (b *GapBuffer) CharLen() int {
	head := b.buf[:b.gapStart]
	tail := b.buf[b.gapEnd:]
	if len(head) == 0 {
		return utf8.RuneCount(tail)
	}
	if len(tail) == 0 {
		return utf8.RuneCount(head)
	}
	if endsMidRune(head) {
		return utf8.RuneCount(b.Bytes())
	}
	return utf8.RuneCount(head) + utf8.RuneCount(tail)
}

// DisplayWidth returns the number of monospace cells the content occupies.
func (b *GapBuffer) DisplayWidth() int {
	return uniseg.StringWidth(b.String())
}

// GraphemeLen returns the number of user-perceived characters.
func (b *GapBuffer) GraphemeLen() int {
	return uniseg.GraphemeClusterCount(b.String())
}

// Coordinate Conversion

// ByteOffsetOf converts a character index to a byte offset.
// Indexes past the end map to Len; negative indexes map to 0.
func (b *GapBuffer) ByteOffsetOf(ci CharIndex) ByteOffset {
	n := b.Len()
	off := 0
	for i := CharIndex(0); i < ci && off < n; i++ {
		_, size := b.RuneAt(ByteOffset(off))
		off += size
	}
	return ByteOffset(off)
}

// CharIndexOf converts a byte offset to a character index.
// An offset inside a multi-byte sequence maps to the index after it.
func (b *GapBuffer) CharIndexOf(off ByteOffset) CharIndex {
	limit := int(off)
	if limit > b.Len() {
		limit = b.Len()
	}
	var ci CharIndex
	for pos := 0; pos < limit; ci++ {
		_, size := b.RuneAt(ByteOffset(pos))
		pos += size
	}
	return ci
}

// Internal helpers

func (b *GapBuffer) checkOffset(op string, off ByteOffset) {
	if off < 0 || int(off) > b.Len() {
		panic(&RangeError{Op: op, Start: off, End: off, Len: b.Len(), Err: ErrOffsetOutOfRange})
	}
}

// at returns the logical byte at i. i must be in [0, Len).
func (b *GapBuffer) at(i int) byte {
	if i < b.gapStart {
		return b.buf[i]
	}
	return b.buf[i+b.GapLen()]
}

func (b *GapBuffer) clamp(start, end int) (int, int) {
	if end > b.Len() {
		end = b.Len()
	}
	if end < 0 {
		end = 0
	}
	if start > end {
		start = end
	}
	if start < 0 {
		start = 0
	}
	return start, end
}

// appendRange appends the logical bytes in [start, end) to dst.
func (b *GapBuffer) appendRange(dst []byte, start, end int) []byte {
	if start < b.gapStart {
		headEnd := min(end, b.gapStart)
		dst = append(dst, b.buf[start:headEnd]...)
		start = headEnd
	}
	if start < end {
		gap := b.GapLen()
		dst = append(dst, b.buf[start+gap:end+gap]...)
	}
	return dst
}

// grow enlarges the gap by at least needed bytes, rounded up to the chunk
// size. The head stays in place and the tail moves to the new end.
func (b *GapBuffer) grow(needed int) {
	extra := (needed + b.chunk - 1) / b.chunk * b.chunk

	next := make([]byte, len(b.buf)+extra)
	copy(next, b.buf[:b.gapStart])
	tailLen := len(b.buf) - b.gapEnd
	copy(next[len(next)-tailLen:], b.buf[b.gapEnd:])

	b.buf = next
	b.gapEnd = len(next) - tailLen
}

// moveGap relocates the gap so that it starts at logical offset pos.
// Bytes between the old and new positions move with one copy.
func (b *GapBuffer) moveGap(pos int) {
	switch {
	case pos < b.gapStart:
		n := b.gapStart - pos
		copy(b.buf[b.gapEnd-n:b.gapEnd], b.buf[pos:b.gapStart])
		b.gapStart = pos
		b.gapEnd -= n
	case pos > b.gapStart:
		n := pos - b.gapStart
		copy(b.buf[b.gapStart:b.gapStart+n], b.buf[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

// endsMidRune reports whether p ends with an incomplete UTF-8 sequence.
func endsMidRune(p []byte) bool {
	i := len(p) - 1
	for ; i > 0 && len(p)-i < utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			break
		}
	}
	return !utf8.FullRune(p[i:])
}

// lossyString converts p to a string, replacing each invalid byte with
// U+FFFD so the result has exactly utf8.RuneCount(p) runes.
func lossyString(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	return string([]rune(string(p)))
}
