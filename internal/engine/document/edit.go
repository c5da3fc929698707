package document

import (
	"github.com/dshills/gaptext/internal/engine/gapbuffer"
)

// Point is a cursor position: a row and a column counted in characters.
type Point struct {
	Row int
	Col gapbuffer.CharIndex
}

// Edit Routing
//
// These translate cursor-level keystrokes into line operations. Columns
// past the end of a line clamp to it; rows outside the document panic
// with a *RowError.

// InsertChar inserts r before the cursor and returns the cursor after it.
// A '\n' splits the line as Newline does.
func (d *Document) InsertChar(p Point, r rune) Point {
	if r == '\n' {
		return d.Newline(p)
	}
	line, col := d.cursorLine("insert", p)
	line.InsertChar(line.ByteOffsetOf(col), r)
	return Point{Row: p.Row, Col: col + 1}
}

// Newline splits the line at the cursor and returns the start of the new line.
func (d *Document) Newline(p Point) Point {
	line, col := d.cursorLine("split", p)
	d.SplitLine(p.Row, line.ByteOffsetOf(col))
	return Point{Row: p.Row + 1}
}

// Backspace deletes the character before the cursor. At column 0 the line
// is joined onto the previous one; at the start of the document nothing
// happens.
func (d *Document) Backspace(p Point) Point {
	line, col := d.cursorLine("backspace", p)
	if col == 0 {
		joinAt, ok := d.MergeWithPrevious(p.Row)
		if !ok {
			return p
		}
		prev := d.lines[p.Row-1]
		return Point{Row: p.Row - 1, Col: prev.CharIndexOf(joinAt)}
	}

	line.RemoveRune(line.ByteOffsetOf(col - 1))
	return Point{Row: p.Row, Col: col - 1}
}

// DeleteForward deletes the character under the cursor. At the end of a
// line the next line is joined onto it; at the end of the document
// nothing happens.
func (d *Document) DeleteForward(p Point) Point {
	line, col := d.cursorLine("delete", p)
	off := line.ByteOffsetOf(col)
	if int(off) >= line.Len() {
		d.MergeWithNext(p.Row)
		return Point{Row: p.Row, Col: col}
	}

	line.RemoveRune(off)
	return Point{Row: p.Row, Col: col}
}

// cursorLine returns the line under p and p's column clamped to it.
func (d *Document) cursorLine(op string, p Point) (*gapbuffer.GapBuffer, gapbuffer.CharIndex) {
	d.checkRow(op, p.Row)
	line := d.lines[p.Row]
	col := max(p.Col, 0)
	if n := gapbuffer.CharIndex(line.CharLen()); col > n {
		col = n
	}
	return line, col
}
