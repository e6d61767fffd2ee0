package ir

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// String coerces a tree value to a string. Non-strings (and nil) yield "".
func String(v any) string {
	s, _ := v.(string)
	return s
}

// StringSlice coerces a tree value to a string slice. It accepts both
// []string and the []any shape produced by the JSON and YAML decoders;
// non-string elements are dropped. Anything else yields an empty slice.
func StringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Mapping reports whether a tree value is mapping-shaped and returns it as
// map[string]any.
func Mapping(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Truthy mirrors the presence rules used by the dialect validators: empty
// strings, empty sequences, empty mappings, nil, and false do not count as
// a supplied value.
func Truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case string:
		return vv != ""
	case bool:
		return vv
	case []any:
		return len(vv) > 0
	case []string:
		return len(vv) > 0
	case map[string]any:
		return len(vv) > 0
	case int:
		return vv != 0
	case int64:
		return vv != 0
	case float64:
		return vv != 0
	default:
		return true
	}
}

// CloneValue returns a deep copy of a JSON-like value. Mappings and
// sequences are copied recursively; scalars are returned as-is. Parsers use
// it at ingress so a document never aliases the caller's tree.
func CloneValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return CloneTree(vv)
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	default:
		return v
	}
}

// CloneTree returns a deep copy of a generic tree.
func CloneTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = CloneValue(v)
	}
	return out
}

// NormalizeValue canonicalizes a value that may arrive either as an
// already-parsed structure or as serialized text. Strings are decoded as
// JSON first, then YAML; if neither yields a structured value the string is
// kept as-is. Everything downstream of the parsers sees a single canonical
// JSON-like tree representation.
func NormalizeValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return v
	}

	var fromJSON any
	if err := json.Unmarshal([]byte(trimmed), &fromJSON); err == nil {
		switch fromJSON.(type) {
		case map[string]any, []any:
			return fromJSON
		}
		return v
	}

	// Only attempt YAML when the text plausibly encodes a structure;
	// yaml.Unmarshal accepts nearly any plain string.
	if strings.ContainsAny(trimmed, ":-[{") {
		var fromYAML any
		if err := yaml.Unmarshal([]byte(trimmed), &fromYAML); err == nil {
			switch fromYAML.(type) {
			case map[string]any, []any:
				return fromYAML
			}
		}
	}

	return v
}
