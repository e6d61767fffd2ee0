package converter

import (
	"fmt"
	"strings"

	"github.com/harrison/agentbridge/internal/dialect"
)

// UnsupportedFormatError reports an unregistered dialect or container name,
// or an identity-conversion request. Identity conversions are rejected:
// the pipeline always maps between two different dialects.
type UnsupportedFormatError struct {
	// Format is the offending format name; empty for identity rejections.
	Format string
	// Role says where the format appeared: "source" or "target".
	Role string
	// Supported lists the registered format names.
	Supported []string
	// Identity is set when source and target named the same format.
	Identity bool
}

func (e *UnsupportedFormatError) Error() string {
	if e.Identity {
		return "source and target formats are the same"
	}
	role := e.Role
	if role == "" {
		role = "requested"
	}
	if len(e.Supported) > 0 {
		return fmt.Sprintf("unsupported %s format: %s (supported: %s)",
			role, e.Format, strings.Join(e.Supported, ", "))
	}
	return fmt.Sprintf("unsupported %s format: %s", role, e.Format)
}

// SourceValidationError reports that the source tree failed its dialect's
// schema validation. Errors carries the complete list of violated rules.
type SourceValidationError struct {
	Dialect dialect.Dialect
	Errors  []string
}

func (e *SourceValidationError) Error() string {
	return fmt.Sprintf("invalid %s source data: %s", e.Dialect, strings.Join(e.Errors, ", "))
}

// IOError reports a failure at the external collaborator boundary (file
// reading). Pipeline errors never use this kind.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
