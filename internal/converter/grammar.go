package converter

import (
	"regexp"
	"strings"
)

// The four typographic quote characters this package cares about.
const (
	leftDouble  = "“" // “
	rightDouble = "”" // ”
	leftSingle  = "‘" // ‘
	rightSingle = "’" // ’
)

// wordChar matches Unicode letters, digits, and underscore. RE2's \w is
// ASCII-only, which would miss contractions in accented words.
const wordChar = `[\p{L}\p{N}_]`

var (
	// "text" with no double quote inside. A lone unmatched " never pairs
	// and stays straight.
	doublePair = regexp.MustCompile(`"([^"]*)"`)

	// Mid-word apostrophe: don't, James's.
	midWordApostrophe = regexp.MustCompile(`(` + wordChar + `)'(` + wordChar + `)`)

	// Paired single quotes around one word character: rock 'n' roll.
	pairedSingle = regexp.MustCompile(`(^|\s)'(` + wordChar + `)'(\s|$)`)

	// Word-initial elision: 'twas, 'tis, 'em.
	leadingElision = regexp.MustCompile(`(^|\s)'(` + wordChar + `)`)
)

// curlText applies the straight-to-curly rewrites to a single prose span.
// Rule order is a hard constraint: pairedSingle must run before
// leadingElision, which would otherwise consume only the opening quote of a
// 'n'-style idiom and leave the closing quote unconvertible.
func curlText(s string) string {
	s = doublePair.ReplaceAllString(s, leftDouble+"${1}"+rightDouble)
	s = midWordApostrophe.ReplaceAllString(s, "${1}"+rightSingle+"${2}")
	s = pairedSingle.ReplaceAllString(s, "${1}"+rightSingle+"${2}"+rightSingle+"${3}")
	s = leadingElision.ReplaceAllString(s, "${1}"+rightSingle+"${2}")
	return s
}

// straightener maps every curly variant back to its straight form. This
// direction is lossy about which curly variant was used.
var straightener = strings.NewReplacer(
	leftDouble, `"`,
	rightDouble, `"`,
	leftSingle, `'`,
	rightSingle, `'`,
)

// straightenText replaces all curly quotes in a prose span with straight
// equivalents. No context sensitivity is needed in this direction.
func straightenText(s string) string {
	return straightener.Replace(s)
}
