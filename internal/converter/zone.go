package converter

import "strings"

const (
	frontMatterDelim = "---"
	fenceMarker      = "```"
)

// zone identifies which protection region the classifier is currently inside.
type zone int

const (
	zoneProse zone = iota
	zoneFrontMatter
	zoneCodeBlock
)

// LineTag is the classification of a single document line.
type LineTag int

const (
	// TagProse marks a line eligible for span-level quote conversion.
	TagProse LineTag = iota
	// TagFrontMatter marks a YAML front matter delimiter line.
	TagFrontMatter
	// TagFence marks a ``` fence marker line. Fence lines are always
	// protected verbatim, including any info string after the backticks.
	TagFence
	// TagProtectedBody marks a line inside a code block or front matter.
	TagProtectedBody
)

// classifier tracks zone state across a single forward pass over a document.
// The zero value starts in prose, which is correct for line 0.
type classifier struct {
	zone        zone
	markerCount int
}

// classify tags one line and advances the zone state. idx is the zero-based
// line index; front matter is only recognised when it opens at line 0. A
// standalone --- later in the document has no special meaning.
//
// An unclosed fence protects every remaining line to end of document: content
// after an unterminated fence cannot be reliably treated as prose.
func (c *classifier) classify(idx int, line string) LineTag {
	if idx == 0 && line == frontMatterDelim {
		c.zone = zoneFrontMatter
		c.markerCount = 1
		return TagFrontMatter
	}

	if c.zone == zoneFrontMatter && line == frontMatterDelim {
		c.markerCount++
		if c.markerCount == 2 {
			// The closing marker itself stays protected.
			c.zone = zoneProse
		}
		return TagFrontMatter
	}

	if strings.HasPrefix(line, fenceMarker) {
		if c.zone == zoneCodeBlock {
			c.zone = zoneProse
		} else {
			c.zone = zoneCodeBlock
		}
		return TagFence
	}

	if c.zone == zoneCodeBlock || c.zone == zoneFrontMatter {
		return TagProtectedBody
	}

	return TagProse
}
