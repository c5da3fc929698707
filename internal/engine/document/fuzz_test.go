package document

import (
	"testing"
)

// FuzzSaveRoundTrip verifies that loading then saving reproduces the bytes.
func FuzzSaveRoundTrip(f *testing.F) {
	f.Add("", false)
	f.Add("abc\n", false)
	f.Add("a\r\nb\r\n", true)
	f.Add("a\r\nb\nc\r", true)
	f.Add("\xff\n\xe6\x97", false)

	f.Fuzz(func(t *testing.T, content string, normalize bool) {
		policy := LineEndingsPreserve
		if normalize {
			policy = LineEndingsNormalizeCRLF
		}

		memfs := NewMemFS()
		memfs.AddFile("/f", content)
		doc, err := Load("/f", WithFileSystem(memfs), WithLineEndingPolicy(policy), WithChunkSize(3))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if doc.LineCount() < 1 {
			t.Fatal("document must have at least one line")
		}
		if err := doc.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if got, _ := memfs.Content("/f"); got != content {
			t.Errorf("expected %q, got %q", content, got)
		}
	})
}

// FuzzEditRouting types and deletes at arbitrary points and checks the
// document stays consistent with a plain string model.
func FuzzEditRouting(f *testing.F) {
	f.Add("abc\nde", []byte{0, 1, 2, 3})
	f.Add("", []byte{10, 0, 0, 255})
	f.Add("日本\n\nx", []byte{7, 3, 9, 1, 4})

	f.Fuzz(func(t *testing.T, text string, ops []byte) {
		doc := FromString(text)
		p := Point{}
		for _, op := range ops {
			switch op % 4 {
			case 0:
				p = doc.InsertChar(p, 'a'+rune(op%26))
			case 1:
				p = doc.Newline(p)
			case 2:
				p = doc.Backspace(p)
			case 3:
				p = doc.DeleteForward(p)
			}

			if p.Row < 0 || p.Row >= doc.LineCount() {
				t.Fatalf("cursor row %d outside %d lines", p.Row, doc.LineCount())
			}
			line, _ := doc.Line(p.Row)
			if p.Col < 0 || int(p.Col) > line.CharLen() {
				t.Fatalf("cursor col %d outside line of %d chars", p.Col, line.CharLen())
			}
		}

		reloaded := FromString(doc.Text())
		if reloaded.LineCount() != doc.LineCount() {
			t.Errorf("expected %d lines after reparse, got %d", doc.LineCount(), reloaded.LineCount())
		}
	})
}
