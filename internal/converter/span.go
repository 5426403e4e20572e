package converter

import "regexp"

// spanKind distinguishes protected inline code from transformable text.
type spanKind int

const (
	spanText spanKind = iota
	spanCode
)

// span is a maximal substring of a line that is either an inline-code run
// (backtick-delimited, kept verbatim) or plain text (transformed).
type span struct {
	kind spanKind
	text string
}

// inlineCode matches a backtick pair with at least one non-backtick character
// between them. An unmatched trailing backtick deliberately does not match,
// so it stays a literal character in a text span.
var inlineCode = regexp.MustCompile("`[^`]+`")

// splitSpans breaks a line into alternating text and inline-code spans.
// Concatenating the spans in order reconstructs the line exactly.
func splitSpans(line string) []span {
	matches := inlineCode.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return []span{{kind: spanText, text: line}}
	}

	spans := make([]span, 0, 2*len(matches)+1)
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			spans = append(spans, span{kind: spanText, text: line[prev:m[0]]})
		}
		spans = append(spans, span{kind: spanCode, text: line[m[0]:m[1]]})
		prev = m[1]
	}
	if prev < len(line) {
		spans = append(spans, span{kind: spanText, text: line[prev:]})
	}

	return spans
}
