package document

import (
	"testing"
)

func TestEdit_EnterAndBackspace(t *testing.T) {
	// "abcde" with the cursor after 'c': Enter, Enter, Backspace, Backspace.
	doc := FromString("abcde")
	p := Point{Row: 0, Col: 3}

	p = doc.Newline(p)
	if p != (Point{Row: 1, Col: 0}) {
		t.Errorf("expected cursor 1:0, got %+v", p)
	}
	p = doc.Newline(p)
	want := []string{"abc", "", "de"}
	if got := lines(doc); !equalLines(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	p = doc.Backspace(p)
	if p != (Point{Row: 1, Col: 0}) {
		t.Errorf("expected cursor 1:0, got %+v", p)
	}
	want = []string{"abc", "de"}
	if got := lines(doc); !equalLines(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	p = doc.Backspace(p)
	if p != (Point{Row: 0, Col: 3}) {
		t.Errorf("expected cursor 0:3, got %+v", p)
	}
	if doc.Text() != "abcde" {
		t.Errorf("expected %q, got %q", "abcde", doc.Text())
	}
}

func TestEdit_InsertThenRemove(t *testing.T) {
	doc := FromString("")
	p := doc.InsertChar(Point{}, 'x')
	if p != (Point{Row: 0, Col: 1}) {
		t.Errorf("expected cursor 0:1, got %+v", p)
	}
	if doc.Text() != "x" {
		t.Errorf("expected %q, got %q", "x", doc.Text())
	}

	p = doc.Backspace(p)
	if p != (Point{}) {
		t.Errorf("expected cursor 0:0, got %+v", p)
	}
	line, _ := doc.Line(0)
	if line.Len() != 0 || line.String() != "" {
		t.Errorf("expected empty line, got %q", line.String())
	}
}

func TestEdit_Multibyte(t *testing.T) {
	doc := FromString("日本")
	p := doc.InsertChar(Point{Row: 0, Col: 1}, 'é')
	if p != (Point{Row: 0, Col: 2}) {
		t.Errorf("expected cursor 0:2, got %+v", p)
	}
	if doc.Text() != "日é本" {
		t.Errorf("expected %q, got %q", "日é本", doc.Text())
	}

	p = doc.Backspace(p)
	p = doc.Backspace(p)
	if p != (Point{}) || doc.Text() != "本" {
		t.Errorf("expected %q at 0:0, got %q at %+v", "本", doc.Text(), p)
	}

	doc.DeleteForward(p)
	if doc.Text() != "" {
		t.Errorf("expected empty document, got %q", doc.Text())
	}
}

func TestEdit_InsertNewlineRune(t *testing.T) {
	doc := FromString("ab")
	p := doc.InsertChar(Point{Row: 0, Col: 1}, '\n')
	if p != (Point{Row: 1, Col: 0}) {
		t.Errorf("expected cursor 1:0, got %+v", p)
	}
	want := []string{"a", "b"}
	if got := lines(doc); !equalLines(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEdit_DeleteForward(t *testing.T) {
	doc := FromString("ab\ncd")

	p := doc.DeleteForward(Point{Row: 0, Col: 0})
	if p != (Point{Row: 0, Col: 0}) || doc.Text() != "b\ncd" {
		t.Errorf("expected %q at 0:0, got %q at %+v", "b\ncd", doc.Text(), p)
	}

	p = doc.DeleteForward(Point{Row: 0, Col: 1})
	if p != (Point{Row: 0, Col: 1}) || doc.Text() != "bcd" {
		t.Errorf("expected %q at 0:1, got %q at %+v", "bcd", doc.Text(), p)
	}

	p = doc.DeleteForward(Point{Row: 0, Col: 3})
	if p != (Point{Row: 0, Col: 3}) || doc.Text() != "bcd" {
		t.Errorf("delete at end of document should be a no-op, got %q at %+v", doc.Text(), p)
	}
}

func TestEdit_ColumnClamps(t *testing.T) {
	doc := FromString("ab\ncd")

	p := doc.InsertChar(Point{Row: 0, Col: 10}, '!')
	if p != (Point{Row: 0, Col: 3}) || doc.Text() != "ab!\ncd" {
		t.Errorf("expected %q at 0:3, got %q at %+v", "ab!\ncd", doc.Text(), p)
	}

	p = doc.Backspace(Point{Row: 1, Col: -4})
	if p != (Point{Row: 0, Col: 3}) || doc.Text() != "ab!cd" {
		t.Errorf("expected %q at 0:3, got %q at %+v", "ab!cd", doc.Text(), p)
	}

	p = doc.Backspace(Point{Row: 0, Col: 0})
	if p != (Point{}) || doc.Text() != "ab!cd" {
		t.Errorf("backspace at start of document should be a no-op, got %q at %+v", doc.Text(), p)
	}
}

func TestEdit_RowPanics(t *testing.T) {
	doc := FromString("ab")
	expectRowPanic(t, ErrRowOutOfRange, func() { doc.InsertChar(Point{Row: 1}, 'x') })
	expectRowPanic(t, ErrRowOutOfRange, func() { doc.Newline(Point{Row: -1}) })
	expectRowPanic(t, ErrRowOutOfRange, func() { doc.Backspace(Point{Row: 3}) })
	expectRowPanic(t, ErrRowOutOfRange, func() { doc.DeleteForward(Point{Row: 1}) })
}
