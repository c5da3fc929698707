package document

import "testing"

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LineEnding
	}{
		{"empty", "", LineEndingNone},
		{"single line", "abc", LineEndingNone},
		{"lf", "a\nb\n", LineEndingLF},
		{"crlf", "a\r\nb\r\n", LineEndingCRLF},
		{"crlf no trailing", "a\r\nb", LineEndingCRLF},
		{"cr", "a\rb\r", LineEndingCR},
		{"lf and crlf", "a\r\nb\n", LineEndingMixed},
		{"one stray cr", "a\nb\rc\nd\n", LineEndingMixed},
		{"cr then crlf", "a\rb\r\n", LineEndingMixed},
		{"lone lf", "\n", LineEndingLF},
		{"lone crlf", "\r\n", LineEndingCRLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLineEnding([]byte(tt.content)); got != tt.want {
				t.Errorf("DetectLineEnding(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestParseLineEndingPolicy(t *testing.T) {
	tests := []struct {
		in     string
		want   LineEndingPolicy
		wantOK bool
	}{
		{"", LineEndingsPreserve, true},
		{"preserve", LineEndingsPreserve, true},
		{"normalize-crlf", LineEndingsNormalizeCRLF, true},
		{"crlf", LineEndingsPreserve, false},
		{"PRESERVE", LineEndingsPreserve, false},
	}

	for _, tt := range tests {
		got, ok := ParseLineEndingPolicy(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLineEndingPolicy(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeCRLF_FallsBack(t *testing.T) {
	// Only uniformly CRLF sources are normalized; others keep their \r.
	tests := []struct {
		content   string
		wantFirst string
	}{
		{"a\r\nb\n", "a\r"},
		{"a\rb", "a\rb"},
		{"a\nb", "a"},
	}

	for _, tt := range tests {
		doc := FromString(tt.content, WithLineEndingPolicy(LineEndingsNormalizeCRLF))
		line, _ := doc.Line(0)
		if got := line.String(); got != tt.wantFirst {
			t.Errorf("%q: first line = %q, want %q", tt.content, got, tt.wantFirst)
		}
		if got := doc.Text(); got != tt.content {
			t.Errorf("%q: Text() = %q", tt.content, got)
		}
	}
}
