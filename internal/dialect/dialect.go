// Package dialect implements the three agent-description dialects: Claude,
// Roo, and Custom. Each dialect has a parser that turns a generic container
// tree into the IR and a serializer that produces a dialect-shaped tree from
// the IR. Parsers and serializers are stateless and safe to share across
// goroutines.
package dialect

import (
	"fmt"
	"strings"

	"github.com/harrison/agentbridge/internal/ir"
)

// Dialect identifies an agent-description schema
type Dialect int

const (
	// DialectUnknown represents an unknown or unsupported dialect
	DialectUnknown Dialect = iota
	// DialectClaude represents the Anthropic Claude agent schema
	DialectClaude
	// DialectRoo represents the Roo Code agent schema
	DialectRoo
	// DialectCustom represents the application-specific custom schema
	DialectCustom
)

// String returns the string representation of the Dialect
func (d Dialect) String() string {
	switch d {
	case DialectClaude:
		return "claude"
	case DialectRoo:
		return "roo"
	case DialectCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseDialect maps a dialect name to a Dialect.
func ParseDialect(name string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "claude":
		return DialectClaude, true
	case "roo":
		return DialectRoo, true
	case "custom":
		return DialectCustom, true
	default:
		return DialectUnknown, false
	}
}

// Dialects lists every registered dialect.
func Dialects() []Dialect {
	return []Dialect{DialectClaude, DialectRoo, DialectCustom}
}

// Parser turns a generic container tree into the IR.
type Parser interface {
	// Parse validates tree against the dialect schema and builds the IR.
	// Schema violations are reported as a *ValidationError carrying every
	// violated rule.
	Parse(tree map[string]any) (*ir.AgentDocument, error)

	// Validate returns the complete list of violated schema rules.
	// An empty list means the tree is valid for this dialect.
	Validate(tree map[string]any) []string

	// Description returns a human-readable description of the dialect.
	Description() string
}

// Serializer produces a dialect-shaped tree from the IR.
type Serializer interface {
	// Serialize converts doc to the dialect's tree shape. It fails with a
	// *ValidationError when doc itself is invalid; an invalid document is
	// never emitted silently.
	Serialize(doc *ir.AgentDocument) (map[string]any, error)

	// Description returns a human-readable description of the dialect.
	Description() string
}

// NewParser creates a parser for the specified dialect.
func NewParser(d Dialect) (Parser, error) {
	switch d {
	case DialectClaude:
		return &ClaudeParser{}, nil
	case DialectRoo:
		return &RooParser{}, nil
	case DialectCustom:
		return &CustomParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %v", d)
	}
}

// NewSerializer creates a serializer for the specified dialect.
func NewSerializer(d Dialect) (Serializer, error) {
	switch d {
	case DialectClaude:
		return &ClaudeSerializer{}, nil
	case DialectRoo:
		return &RooSerializer{}, nil
	case DialectCustom:
		return &CustomSerializer{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %v", d)
	}
}

// ValidationError reports a structurally parsed but schema-invalid document.
// Errors carries every violated rule, never just the first.
type ValidationError struct {
	Dialect Dialect
	Errors  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %s", e.Dialect, strings.Join(e.Errors, ", "))
}

// Detect classifies content into a dialect using a fixed-order heuristic:
// any content containing "mode:" or "icon:" is Roo, else "config_schema"
// means Custom, else Claude. The check is a case-insensitive raw substring
// match over the whole document, so marker text inside a prompt body also
// triggers it; the Roo markers always win the tie-break.
func Detect(content string) Dialect {
	lowered := strings.ToLower(content)
	if strings.Contains(lowered, "mode:") || strings.Contains(lowered, "icon:") {
		return DialectRoo
	}
	if strings.Contains(lowered, "config_schema") {
		return DialectCustom
	}
	return DialectClaude
}
