package dialect

import (
	"fmt"

	"github.com/harrison/agentbridge/internal/ir"
)

var customFields = map[string]bool{
	"name":          true,
	"description":   true,
	"version":       true,
	"category":      true,
	"capabilities":  true,
	"tools":         true,
	"system_prompt": true,
	"config_schema": true,
	"config":        true,
	"metadata":      true,
	"icon":          true,
	"author":        true,
	"tags":          true,
}

// CustomParser parses trees in the application-specific custom dialect.
// It is the strictest of the three: capabilities, tools, and system_prompt
// are required in addition to name and description, and every declared field
// must match its type.
type CustomParser struct{}

// Parse implements Parser.
func (p *CustomParser) Parse(tree map[string]any) (*ir.AgentDocument, error) {
	if errs := p.Validate(tree); len(errs) > 0 {
		return nil, &ValidationError{Dialect: DialectCustom, Errors: errs}
	}

	doc := ir.New()
	doc.Name = ir.String(tree["name"])
	doc.Description = ir.String(tree["description"])
	if v := ir.String(tree["version"]); v != "" {
		doc.Version = v
	}
	doc.Category = ir.String(tree["category"])
	doc.Capabilities = ir.StringSlice(tree["capabilities"])
	doc.Tools = ir.StringSlice(tree["tools"])
	doc.SystemPrompt = ir.String(tree["system_prompt"])
	doc.Icon = ir.String(tree["icon"])
	doc.Author = ir.CloneValue(tree["author"])
	doc.Tags = ir.StringSlice(tree["tags"])

	if m, ok := ir.Mapping(ir.NormalizeValue(tree["config_schema"])); ok {
		doc.ConfigSchema = ir.CloneTree(m)
	}
	if v, ok := tree["config"]; ok {
		doc.ConfigValue = ir.CloneValue(ir.NormalizeValue(v))
	}
	if m, ok := ir.Mapping(tree["metadata"]); ok {
		doc.Metadata = ir.CloneTree(m)
	}

	for key, value := range tree {
		if !customFields[key] {
			doc.SetCustomField(key, ir.CloneValue(value))
		}
	}

	return doc, nil
}

// Validate implements Parser.
func (p *CustomParser) Validate(tree map[string]any) []string {
	var errs []string

	for _, field := range []string{"name", "description", "capabilities", "tools", "system_prompt"} {
		errs = append(errs, checkRequired(tree, field)...)
	}

	errs = append(errs, checkStringList(tree, "capabilities")...)
	errs = append(errs, checkStringList(tree, "tools")...)
	errs = append(errs, checkStringList(tree, "tags")...)
	errs = append(errs, checkMapping(tree, "metadata")...)
	errs = append(errs, checkMapping(tree, "config_schema")...)
	errs = append(errs, checkMapping(tree, "config")...)
	errs = append(errs, checkString(tree, "version")...)
	errs = append(errs, checkString(tree, "category")...)
	errs = append(errs, checkString(tree, "icon")...)
	errs = append(errs, checkString(tree, "author")...)

	return errs
}

// Description implements Parser.
func (p *CustomParser) Description() string {
	return "Application-specific custom agent format with comprehensive field support and validation"
}

// CustomSerializer produces custom-dialect trees from the IR. The dialect
// mandates capabilities, tools, and system_prompt, so the serializer emits
// empty sequences for the first two and synthesizes a prompt from the name
// and description when the IR has none.
type CustomSerializer struct{}

// Serialize implements Serializer.
func (s *CustomSerializer) Serialize(doc *ir.AgentDocument) (map[string]any, error) {
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Dialect: DialectCustom, Errors: errs}
	}

	tree := map[string]any{
		"name":        doc.Name,
		"description": doc.Description,
		"version":     doc.Version,
	}

	if doc.Capabilities != nil {
		tree["capabilities"] = doc.Capabilities
	} else {
		tree["capabilities"] = []string{}
	}
	if doc.Tools != nil {
		tree["tools"] = doc.Tools
	} else {
		tree["tools"] = []string{}
	}
	if doc.SystemPrompt != "" {
		tree["system_prompt"] = doc.SystemPrompt
	} else {
		tree["system_prompt"] = SynthesizeSystemPrompt(doc)
	}

	if doc.Category != "" {
		tree["category"] = doc.Category
	}
	if doc.ConfigSchema != nil {
		tree["config_schema"] = doc.ConfigSchema
	}
	if doc.ConfigValue != nil {
		tree["config"] = doc.ConfigValue
	}
	if doc.Author != nil {
		tree["author"] = doc.Author
	}
	if len(doc.Tags) > 0 {
		tree["tags"] = doc.Tags
	}
	if doc.Icon != "" {
		tree["icon"] = doc.Icon
	}
	if len(doc.Metadata) > 0 {
		tree["metadata"] = doc.Metadata
	}

	overlayCustomFields(tree, doc)
	return tree, nil
}

// Description implements Serializer.
func (s *CustomSerializer) Description() string {
	return "Application-specific custom agent format with comprehensive field support and validation"
}

// SynthesizeSystemPrompt builds the fallback prompt used when a document
// headed for the custom dialect has no system prompt of its own.
func SynthesizeSystemPrompt(doc *ir.AgentDocument) string {
	return fmt.Sprintf("You are %s, an AI assistant. %s", doc.Name, doc.Description)
}
