package container

import (
	"gopkg.in/yaml.v3"
)

// YAMLReader parses human-friendly indented YAML documents.
type YAMLReader struct{}

// Read parses content as YAML. The top-level value must be a mapping.
// Absent "tools" and "skills" keys are initialized to empty sequences,
// matching the JSON reader.
func (r *YAMLReader) Read(content []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, &ParseError{Format: FormatYAML, Msg: "malformed YAML", Err: err}
	}

	tree, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Format: FormatYAML, Msg: "content must be a mapping"}
	}

	ensureListDefaults(tree)
	return tree, nil
}
