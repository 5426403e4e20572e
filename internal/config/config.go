// Package config loads the mdquotes configuration file, which controls
// which files directory walks pick up and which paths they skip.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds user-tunable settings for batch (directory) conversion.
type Config struct {
	// Extensions lists the file extensions treated as Markdown.
	Extensions []string `yaml:"extensions"`
	// Exclude lists glob patterns for paths to skip during directory walks.
	Exclude []string `yaml:"exclude"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Extensions: []string{".md", ".markdown", ".mdx"},
		Exclude: []string{
			"node_modules/**",
			"vendor/**",
			".git/**",
		},
	}
}

// DefaultPath returns the default config file location (~/.mdquotes/config.yaml).
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".mdquotes", "config.yaml")
}

// Load reads the config file at path, falling back to DefaultPath when path
// is empty. A missing file is not an error - defaults apply. Fields omitted
// from the file keep their default values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// MatchesExtension reports whether path has one of the configured Markdown
// extensions.
func (c *Config) MatchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// Excluded reports whether the given path matches any exclude pattern.
func (c *Config) Excluded(path string) bool {
	fileName := filepath.Base(path)
	for _, pattern := range c.Exclude {
		if matchesPattern(path, fileName, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a file path matches a given exclude pattern.
func matchesPattern(path, fileName, pattern string) bool {
	// Exact name matches (like LICENSE)
	if !strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		return fileName == pattern
	}

	// Directory patterns like "node_modules/**" or "**/.git/**"
	if strings.HasSuffix(pattern, "/**") {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimPrefix(dirPattern, "**/")
		return strings.Contains(path, "/"+dirPattern+"/") ||
			strings.HasPrefix(path, dirPattern+"/") ||
			strings.HasPrefix(path, "./"+dirPattern+"/")
	}

	// Patterns starting with **/ (like "**/*.draft.md")
	if strings.HasPrefix(pattern, "**/") {
		simplePattern := strings.TrimPrefix(pattern, "**/")
		if matched, _ := filepath.Match(simplePattern, fileName); matched {
			return true
		}
		if matched, _ := filepath.Match(simplePattern, path); matched {
			return true
		}
		return false
	}

	// Regular glob patterns
	if matched, _ := filepath.Match(pattern, fileName); matched {
		return true
	}
	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}

	return false
}
