// Package schema checks the JSON Schema payloads agent documents may carry
// in their config_schema field. It sits outside the conversion pipeline:
// callers (the validate CLI surface) invoke it explicitly, and a failing
// schema never blocks a conversion.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Check compiles tree as a JSON Schema and reports why it does not compile.
// A nil tree is accepted; documents without a config_schema are fine.
func Check(tree map[string]any) error {
	if tree == nil {
		return nil
	}
	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(tree)); err != nil {
		return fmt.Errorf("config_schema does not compile: %w", err)
	}
	return nil
}

// ValidateConfig validates a config value against a compiled config_schema
// and returns every violation. The error return reports compile or
// evaluation failures, not document violations.
func ValidateConfig(schemaTree map[string]any, value any) ([]string, error) {
	if schemaTree == nil {
		return nil, nil
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaTree))
	if err != nil {
		return nil, fmt.Errorf("config_schema does not compile: %w", err)
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
