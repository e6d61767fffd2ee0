package dialect

import (
	"github.com/harrison/agentbridge/internal/ir"
)

// claudeFields is the recognized key set for the Claude dialect; every other
// top-level key is preserved verbatim as a custom field.
var claudeFields = map[string]bool{
	"name":          true,
	"description":   true,
	"version":       true,
	"capabilities":  true,
	"tools":         true,
	"system_prompt": true,
	"config_schema": true,
	"metadata":      true,
	"config":        true,
}

// ClaudeParser parses Claude-dialect trees into the IR.
type ClaudeParser struct{}

// Parse implements Parser.
func (p *ClaudeParser) Parse(tree map[string]any) (*ir.AgentDocument, error) {
	if errs := p.Validate(tree); len(errs) > 0 {
		return nil, &ValidationError{Dialect: DialectClaude, Errors: errs}
	}

	doc := ir.New()
	doc.Name = ir.String(tree["name"])
	doc.Description = ir.String(tree["description"])
	if v := ir.String(tree["version"]); v != "" {
		doc.Version = v
	}
	doc.Capabilities = ir.StringSlice(tree["capabilities"])
	doc.Tools = ir.StringSlice(tree["tools"])
	doc.SystemPrompt = ir.String(tree["system_prompt"])

	// Nested values are deep-copied so the document never shares maps or
	// sequences with the caller's tree.
	if m, ok := ir.Mapping(ir.NormalizeValue(tree["config_schema"])); ok {
		doc.ConfigSchema = ir.CloneTree(m)
	}
	if m, ok := ir.Mapping(tree["metadata"]); ok {
		doc.Metadata = ir.CloneTree(m)
	}
	if v, ok := tree["config"]; ok {
		doc.ConfigValue = ir.CloneValue(ir.NormalizeValue(v))
	}

	for key, value := range tree {
		if !claudeFields[key] {
			doc.SetCustomField(key, ir.CloneValue(value))
		}
	}

	return doc, nil
}

// Validate implements Parser.
func (p *ClaudeParser) Validate(tree map[string]any) []string {
	var errs []string

	errs = append(errs, checkRequired(tree, "name")...)
	errs = append(errs, checkRequired(tree, "description")...)
	errs = append(errs, checkAgentContent(tree)...)

	errs = append(errs, checkStringList(tree, "capabilities")...)
	errs = append(errs, checkStringList(tree, "tools")...)
	errs = append(errs, checkMapping(tree, "metadata")...)
	errs = append(errs, checkMapping(tree, "config_schema")...)
	errs = append(errs, checkString(tree, "version")...)

	return errs
}

// Description implements Parser.
func (p *ClaudeParser) Description() string {
	return "Anthropic Claude agent format with name, description, capabilities, tools, and system_prompt fields"
}

// ClaudeSerializer produces Claude-dialect trees from the IR.
type ClaudeSerializer struct{}

// Serialize implements Serializer.
func (s *ClaudeSerializer) Serialize(doc *ir.AgentDocument) (map[string]any, error) {
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Dialect: DialectClaude, Errors: errs}
	}

	tree := map[string]any{
		"name":        doc.Name,
		"description": doc.Description,
		"version":     doc.Version,
	}

	if len(doc.Capabilities) > 0 {
		tree["capabilities"] = doc.Capabilities
	}
	if len(doc.Tools) > 0 {
		tree["tools"] = doc.Tools
	}
	if doc.SystemPrompt != "" {
		tree["system_prompt"] = doc.SystemPrompt
	}
	if doc.ConfigSchema != nil {
		tree["config_schema"] = doc.ConfigSchema
	}
	if doc.ConfigValue != nil {
		tree["config"] = doc.ConfigValue
	}
	if len(doc.Metadata) > 0 {
		tree["metadata"] = doc.Metadata
	}

	mergeCustomFields(tree, doc)
	return tree, nil
}

// Description implements Serializer.
func (s *ClaudeSerializer) Description() string {
	return "Anthropic Claude agent format with name, description, capabilities, tools, and system_prompt fields"
}
