package smartquotes

import "github.com/sammcj/mdquotes/internal/converter"

// ConvertRequest represents the request parameters for quote conversion
type ConvertRequest struct {
	Text      string              `json:"text,omitempty"`      // For inline mode
	FilePath  string              `json:"file_path,omitempty"` // For update_file mode (default)
	Direction converter.Direction `json:"direction,omitempty"` // "curl" (default) or "straighten"
	Check     bool                `json:"check,omitempty"`     // Report without writing
}
