// Package converter rewrites quotation marks between straight (ASCII) and
// curly (typographic) forms in Markdown text. Fenced code blocks, inline code
// spans, and YAML front matter pass through byte-identical, so code samples
// and metadata are never corrupted.
//
// The conversion is a pure function over the input text: no I/O, no shared
// state, safe to call concurrently, and total — there is no input it can
// fail on.
package converter

import (
	"fmt"
	"strings"
)

// Direction selects which way quotes are rewritten.
type Direction string

const (
	// DirectionCurl converts straight quotes to curly quotes.
	DirectionCurl Direction = "curl"
	// DirectionStraighten converts curly quotes to straight quotes.
	DirectionStraighten Direction = "straighten"
)

// ParseDirection parses a user-supplied direction string. An empty string
// defaults to DirectionCurl.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DirectionCurl):
		return DirectionCurl, nil
	case string(DirectionStraighten):
		return DirectionStraighten, nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be %q or %q", s, DirectionCurl, DirectionStraighten)
	}
}

// Curl converts straight quotes to curly quotes in prose, protecting code
// blocks, inline code, and front matter.
func Curl(text string) string {
	return Convert(text, DirectionCurl)
}

// Straighten converts curly quotes to straight quotes in prose, protecting
// code blocks, inline code, and front matter.
func Straighten(text string) string {
	return Convert(text, DirectionStraighten)
}

// Convert applies the quote conversion in the given direction. Line count and
// order are always preserved; only prose spans change.
func Convert(text string, dir Direction) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))

	var c classifier
	for i, line := range lines {
		if c.classify(i, line) == TagProse {
			out[i] = convertLine(line, dir)
		} else {
			out[i] = line
		}
	}

	return strings.Join(out, "\n")
}

// convertLine transforms a single prose-tagged line, leaving inline code
// spans verbatim.
func convertLine(line string, dir Direction) string {
	spans := splitSpans(line)

	var b strings.Builder
	b.Grow(len(line) + 8)
	for _, sp := range spans {
		switch {
		case sp.kind == spanCode:
			b.WriteString(sp.text)
		case dir == DirectionStraighten:
			b.WriteString(straightenText(sp.text))
		default:
			b.WriteString(curlText(sp.text))
		}
	}

	return b.String()
}
