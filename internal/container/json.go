package container

import (
	"encoding/json"
)

// JSONReader parses strict-tree JSON documents.
type JSONReader struct{}

// Read parses content as JSON. The top-level value must be an object.
// Absent "tools" and "skills" keys are initialized to empty sequences so
// downstream validators can distinguish "present but empty" from malformed
// input the same way for every container.
func (r *JSONReader) Read(content []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, &ParseError{Format: FormatJSON, Msg: "malformed JSON", Err: err}
	}

	tree, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Format: FormatJSON, Msg: "content must be an object"}
	}

	ensureListDefaults(tree)
	return tree, nil
}

// ensureListDefaults fills the tools/skills keys with empty sequences when
// absent. Dialect validators treat "present but empty" differently from
// "absent" for these fields.
func ensureListDefaults(tree map[string]any) {
	if _, ok := tree["tools"]; !ok {
		tree["tools"] = []any{}
	}
	if _, ok := tree["skills"]; !ok {
		tree["skills"] = []any{}
	}
}
