package document

// LineEnding describes the line terminators found in a document's source.
type LineEnding string

const (
	// LineEndingNone means the source had no line terminators.
	LineEndingNone LineEnding = "none"

	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingCR is old Mac-style line ending (\r).
	LineEndingCR LineEnding = "cr"

	// LineEndingMixed indicates more than one style is present.
	LineEndingMixed LineEnding = "mixed"
)

// LineEndingPolicy controls how carriage returns are treated on load and save.
type LineEndingPolicy string

const (
	// LineEndingsPreserve splits strictly on \n and keeps any \r as line
	// content. Save reproduces the source bytes for every input.
	LineEndingsPreserve LineEndingPolicy = "preserve"

	// LineEndingsNormalizeCRLF strips the \r of each \r\n when the source
	// is uniformly CRLF and writes \r\n back on save. Sources with any
	// other style fall back to LineEndingsPreserve.
	LineEndingsNormalizeCRLF LineEndingPolicy = "normalize-crlf"
)

// ParseLineEndingPolicy parses a policy name. The second result is false
// for unknown names.
func ParseLineEndingPolicy(s string) (LineEndingPolicy, bool) {
	switch LineEndingPolicy(s) {
	case LineEndingsPreserve, "":
		return LineEndingsPreserve, true
	case LineEndingsNormalizeCRLF:
		return LineEndingsNormalizeCRLF, true
	default:
		return LineEndingsPreserve, false
	}
}

// DetectLineEnding classifies the line terminators in content.
// Any mixture of styles, however small, is reported as LineEndingMixed.
func DetectLineEnding(content []byte) LineEnding {
	var lf, crlf, cr int

	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			if i+1 < len(content) && content[i+1] == '\n' {
				crlf++
				i++ // Skip the \n
			} else {
				cr++
			}
		} else if content[i] == '\n' {
			lf++
		}
	}

	styles := 0
	for _, n := range []int{lf, crlf, cr} {
		if n > 0 {
			styles++
		}
	}

	switch {
	case styles == 0:
		return LineEndingNone
	case styles > 1:
		return LineEndingMixed
	case crlf > 0:
		return LineEndingCRLF
	case cr > 0:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
