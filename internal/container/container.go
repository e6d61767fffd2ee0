// Package container turns raw document text into a generic key-value tree.
// It knows about the transport syntaxes (JSON, YAML, Markdown with
// frontmatter) but nothing about agent dialects; dialect interpretation
// happens downstream on the tree it produces.
package container

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the container format of a document
type Format int

const (
	// FormatUnknown represents an unknown or unsupported container format
	FormatUnknown Format = iota
	// FormatJSON represents a JSON (.json) document
	FormatJSON
	// FormatYAML represents a YAML (.yaml, .yml) document
	FormatYAML
	// FormatMarkdown represents a Markdown (.md, .markdown) document with
	// optional YAML frontmatter
	FormatMarkdown
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name to a Format. It accepts the common aliases
// "yml" and "md".
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "markdown", "md":
		return FormatMarkdown, true
	default:
		return FormatUnknown, false
	}
}

// Formats lists every registered container format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseError reports malformed container syntax. It is fatal: no partial
// tree is ever returned alongside it.
type ParseError struct {
	Format Format
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Format, e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader parses raw content into a generic key-value tree.
// Implementations are stateless and safe for concurrent use.
type Reader interface {
	// Read parses content and returns the resulting tree.
	Read(content []byte) (map[string]any, error)
}

// NewReader creates a reader for the specified format.
// Returns an error if the format is unknown or unsupported.
func NewReader(format Format) (Reader, error) {
	switch format {
	case FormatJSON:
		return &JSONReader{}, nil
	case FormatYAML:
		return &YAMLReader{}, nil
	case FormatMarkdown:
		return NewMarkdownReader(), nil
	default:
		return nil, fmt.Errorf("unsupported container format: %v", format)
	}
}

// DetectFormat detects the container format from the filename extension,
// falling back to content sniffing when the extension is unrecognized and
// content is supplied: a successful JSON parse wins, then a successful YAML
// parse, else FormatUnknown.
func DetectFormat(filename string, content []byte) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	}

	if len(content) == 0 {
		return FormatUnknown
	}

	trimmed := strings.TrimSpace(string(content))
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return FormatJSON
	}
	if err := yaml.Unmarshal([]byte(trimmed), &v); err == nil {
		return FormatYAML
	}

	return FormatUnknown
}
