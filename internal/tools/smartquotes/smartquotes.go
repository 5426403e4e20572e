package smartquotes

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mdquotes/internal/converter"
	"github.com/sammcj/mdquotes/internal/registry"
	"github.com/sirupsen/logrus"
)

// SmartQuotesTool converts quotes between straight and curly forms in
// Markdown, protecting code blocks, inline code, and front matter.
type SmartQuotesTool struct{}

const (
	// DefaultMaxTextLength is the default maximum length for text input
	DefaultMaxTextLength = 40000
	// MaxLengthEnvVar is the environment variable for configuring max text length
	MaxLengthEnvVar = "MDQUOTES_MAX_LENGTH"
)

// getMaxTextLength returns the configured maximum text length
func getMaxTextLength() int {
	if envValue := os.Getenv(MaxLengthEnvVar); envValue != "" {
		if value, err := strconv.Atoi(envValue); err == nil && value > 0 {
			return value
		}
	}
	return DefaultMaxTextLength
}

// init registers the smart_quotes tool
func init() {
	registry.Register(&SmartQuotesTool{})
}

// Definition returns the tool's definition for MCP registration
func (s *SmartQuotesTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"smart_quotes",
		mcp.WithDescription(`Convert quotation marks between straight and curly (typographic) forms in Markdown, leaving code blocks, inline code, and YAML front matter untouched.

Default behaviour: Updates files in place. Provide a file_path to convert a file.
Inline mode: Provide text parameter instead to get converted text returned directly.`),
		mcp.WithString("file_path",
			mcp.Description("Fully qualified absolute path to the file to update in place"),
		),
		mcp.WithString("text",
			mcp.MaxLength(getMaxTextLength()),
			mcp.Description("Text to convert and return inline (if not using file_path)"),
		),
		mcp.WithString("direction",
			mcp.Description("Conversion direction: 'curl' for straight to curly (default), 'straighten' for curly to straight"),
			mcp.Enum("curl", "straighten"),
		),
		mcp.WithBoolean("check",
			mcp.Description("Report whether conversion is needed without modifying anything (default: false)"),
		),
	)
}

// Execute executes the smart_quotes tool
func (s *SmartQuotesTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]interface{}) (*mcp.CallToolResult, error) {
	request, err := s.parseRequest(args)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if request.Text != "" {
		return s.executeInlineMode(request, logger)
	}
	return s.executeUpdateFileMode(request, logger)
}

// executeInlineMode handles inline text conversion
func (s *SmartQuotesTool) executeInlineMode(request *ConvertRequest, logger *logrus.Logger) (*mcp.CallToolResult, error) {
	convertedText := converter.Convert(request.Text, request.Direction)
	changedLines := countChangedLines(request.Text, convertedText)

	logger.WithFields(logrus.Fields{
		"mode":          "inline",
		"direction":     request.Direction,
		"text_length":   len(request.Text),
		"changed_lines": changedLines,
		"check":         request.Check,
	}).Debug("Quote conversion executed")

	if request.Check {
		if changedLines > 0 {
			return mcp.NewToolResultText(fmt.Sprintf("Text needs conversion: %d line(s) would change.", changedLines)), nil
		}
		return mcp.NewToolResultText("Text is already converted, no changes needed."), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully converted quotes (direction: %s).\n\nOriginal text length: %d characters\nLines changed: %d\n\nConverted text:\n%s",
		request.Direction, len(request.Text), changedLines, convertedText)), nil
}

// executeUpdateFileMode handles file update operations
func (s *SmartQuotesTool) executeUpdateFileMode(request *ConvertRequest, logger *logrus.Logger) (*mcp.CallToolResult, error) {
	originalContent, err := os.ReadFile(request.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", request.FilePath, err)
	}

	originalText := string(originalContent)

	maxLength := getMaxTextLength()
	if len(originalText) > maxLength {
		return nil, fmt.Errorf("file content exceeds maximum length of %d characters (got %d)", maxLength, len(originalText))
	}

	convertedText := converter.Convert(originalText, request.Direction)
	changedLines := countChangedLines(originalText, convertedText)

	if request.Check {
		logger.WithFields(logrus.Fields{
			"mode":          "check",
			"direction":     request.Direction,
			"file_path":     request.FilePath,
			"changed_lines": changedLines,
		}).Info("File checked for quote conversion")

		if changedLines > 0 {
			return mcp.NewToolResultText(fmt.Sprintf("%s: needs conversion (%d line(s) would change)", request.FilePath, changedLines)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s: ok", request.FilePath)), nil
	}

	// Only write the file if there are changes
	if changedLines > 0 {
		if err := os.WriteFile(request.FilePath, []byte(convertedText), 0600); err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", request.FilePath, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"mode":          "update_file",
		"direction":     request.Direction,
		"file_path":     request.FilePath,
		"file_size":     len(originalContent),
		"changed_lines": changedLines,
	}).Info("File processed for quote conversion")

	if changedLines > 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Successfully updated file %s\n\nFile size: %d bytes\nLines changed: %d\nDirection: %s\n\nThe file has been updated in place.",
			request.FilePath, len(originalContent), changedLines, request.Direction)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("No changes needed for file %s\n\nFile size: %d bytes\nLines changed: 0\nDirection: %s\n\nThe file already uses the requested quote style.",
		request.FilePath, len(originalContent), request.Direction)), nil
}

// parseRequest parses and validates the request parameters
func (s *SmartQuotesTool) parseRequest(args map[string]interface{}) (*ConvertRequest, error) {
	request := &ConvertRequest{}

	if text, ok := args["text"].(string); ok {
		request.Text = text
	}

	if filePath, ok := args["file_path"].(string); ok {
		request.FilePath = filePath
	}

	directionArg, _ := args["direction"].(string)
	direction, err := converter.ParseDirection(directionArg)
	if err != nil {
		return nil, err
	}
	request.Direction = direction

	if check, ok := args["check"].(bool); ok {
		request.Check = check
	}

	if request.Text != "" && request.FilePath != "" {
		return nil, fmt.Errorf("cannot provide both 'text' and 'file_path' parameters - use one or the other")
	}

	if request.Text == "" && request.FilePath == "" {
		return nil, fmt.Errorf("either 'text' or 'file_path' parameter must be provided")
	}

	if request.Text != "" {
		if strings.TrimSpace(request.Text) == "" {
			return nil, fmt.Errorf("text parameter cannot be empty")
		}
		maxLength := getMaxTextLength()
		if len(request.Text) > maxLength {
			return nil, fmt.Errorf("text exceeds maximum length of %d characters (got %d)", maxLength, len(request.Text))
		}
	} else {
		if strings.TrimSpace(request.FilePath) == "" {
			return nil, fmt.Errorf("file_path parameter cannot be empty")
		}
		if !strings.HasPrefix(request.FilePath, "/") {
			return nil, fmt.Errorf("file_path must be a fully qualified absolute path, got: %s", request.FilePath)
		}
	}

	return request, nil
}

// countChangedLines counts lines that differ between original and converted
// text. The converter preserves line count and order, so a positional
// comparison is exact.
func countChangedLines(original, converted string) int {
	if original == converted {
		return 0
	}

	originalLines := strings.Split(original, "\n")
	convertedLines := strings.Split(converted, "\n")

	changes := 0
	for i := range originalLines {
		if i >= len(convertedLines) {
			break
		}
		if originalLines[i] != convertedLines[i] {
			changes++
		}
	}

	return changes
}
