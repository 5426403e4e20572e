package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurl_Prose(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"double quotes", `He said "hello"`, "He said “hello”"},
		{"multiple double quotes", `"one" and "two"`, "“one” and “two”"},
		{"empty quotes", `""`, "“”"},
		{"contraction", "don't", "don’t"},
		{"multiple contractions", "it's won't isn't", "it’s won’t isn’t"},
		{"possessive", "James's book", "James’s book"},
		{"word-initial elision", "'twas the night", "’twas the night"},
		{"elision mid-sentence", "give 'em hell", "give ’em hell"},
		{"paired single idiom", "rock 'n' roll", "rock ’n’ roll"},
		{"mixed quotes and apostrophes", `"Don't stop," she said.`, "“Don’t stop,” she said."},
		{"lone double quote stays straight", `a " alone`, `a " alone`},
		{"empty string", "", ""},
		{"no quotes", "Plain text without any quotes", "Plain text without any quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Curl(tt.input))
		})
	}
}

func TestCurl_ProtectedRegions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"fenced code block", "```\nconst x = \"hello\";\n```"},
		{"fence with language", "```javascript\nconst x = \"hello\";\nconsole.log(\"don't\");\n```"},
		{"inline code", "Use `\"quotes\"` here"},
		{"inline code with apostrophe", "Use `don't` here"},
		{"multiple inline code spans", "Compare `\"a\"` with `\"b\"` in code"},
		{"nested backticks in code block", "```\nconst s = `template \"literal\"`;\n```"},
		{"already curly", "Already “curly” quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, Curl(tt.input))
		})
	}
}

func TestCurl_FrontMatter(t *testing.T) {
	input := "---\ntitle: \"My Article\"\n---\n\nHe said \"hello\"."
	result := Curl(input)

	// Front matter stays verbatim, prose after it converts.
	assert.Contains(t, result, "title: \"My Article\"")
	assert.Contains(t, result, "He said “hello”.")
}

func TestCurl_FrontMatterOnlyAtLineZero(t *testing.T) {
	// A later standalone --- is a thematic break, not front matter.
	input := "Some \"prose\"\n---\nmore \"prose\""
	result := Curl(input)

	assert.Equal(t, "Some “prose”\n---\nmore “prose”", result)
}

func TestCurl_UnclosedFence(t *testing.T) {
	// Everything after an unterminated fence stays protected.
	input := "Before \"x\"\n```\n\"in code\"\nno closing \"here\""
	result := Curl(input)

	assert.Contains(t, result, "Before “x”")
	assert.Contains(t, result, "\"in code\"")
	assert.Contains(t, result, "no closing \"here\"")
}

func TestCurl_MixedProseAndCodeOnSameLine(t *testing.T) {
	result := Curl("The \"output\" is `\"raw\"` here")
	assert.Equal(t, "The “output” is `\"raw\"` here", result)

	result = Curl("It's using `it's` syntax")
	assert.Equal(t, "It’s using `it's` syntax", result)
}

func TestCurl_ProseAroundCodeBlock(t *testing.T) {
	input := "He said \"hi\"\n\n```\n\"code\"\n```\n\nShe said \"bye\""
	result := Curl(input)

	assert.Contains(t, result, "He said “hi”")
	assert.Contains(t, result, "\"code\"")
	assert.Contains(t, result, "She said “bye”")
}

func TestCurl_Idempotent(t *testing.T) {
	inputs := []string{
		`He said "hello" and don't stop 'n' go`,
		"---\na: \"b\"\n---\n'twas \"the\" night",
		"prose `code \"x\"` more \"prose\"",
		"",
	}

	for _, input := range inputs {
		once := Curl(input)
		assert.Equal(t, once, Curl(once), "curl must be idempotent for %q", input)
	}
}

func TestStraighten(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"all four curly forms", "curly “quotes” and ‘ones’", `curly "quotes" and 'ones'`},
		{"apostrophe", "don’t", "don't"},
		{"already straight", `plain "text"`, `plain "text"`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Straighten(tt.input))
		})
	}
}

func TestStraighten_ProtectsCode(t *testing.T) {
	input := "```\ncurly “in code”\n```\nprose “out”"
	result := Straighten(input)

	assert.Contains(t, result, "curly “in code”")
	assert.Contains(t, result, `prose "out"`)
}

func TestConvert_PreservesLineStructure(t *testing.T) {
	input := "a \"b\"\n\n```\nc\n```\n---\nd 'n' e\n"
	result := Convert(input, DirectionCurl)

	require.Equal(t, len(strings.Split(input, "\n")), len(strings.Split(result, "\n")))
	assert.True(t, strings.HasSuffix(result, "\n"))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("curl")
	require.NoError(t, err)
	assert.Equal(t, DirectionCurl, d)

	d, err = ParseDirection(" Straighten ")
	require.NoError(t, err)
	assert.Equal(t, DirectionStraighten, d)

	// Empty defaults to curl.
	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, DirectionCurl, d)

	_, err = ParseDirection("sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid direction")
}
