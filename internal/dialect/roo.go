package dialect

import (
	"strings"
	"unicode"

	"github.com/harrison/agentbridge/internal/ir"
)

var rooFields = map[string]bool{
	"mode":          true,
	"name":          true,
	"description":   true,
	"category":      true,
	"capabilities":  true,
	"tools":         true,
	"system_prompt": true,
	"icon":          true,
	"tags":          true,
	"version":       true,
	"metadata":      true,
	"config":        true,
}

// RooParser parses Roo-dialect trees into the IR.
//
// Roo identifies an agent by its "mode" slug. The IR wants a display name,
// so when no explicit name exists one is derived from the mode; the original
// mode string is always kept under the "original_mode" metadata key so a
// later serialization can recover it.
type RooParser struct{}

// Parse implements Parser.
func (p *RooParser) Parse(tree map[string]any) (*ir.AgentDocument, error) {
	if errs := p.Validate(tree); len(errs) > 0 {
		return nil, &ValidationError{Dialect: DialectRoo, Errors: errs}
	}

	doc := ir.New()

	if name := ir.String(tree["name"]); name != "" {
		doc.Name = name
	} else if mode := ir.String(tree["mode"]); mode != "" {
		doc.Name = nameFromMode(mode)
	}

	doc.Description = ir.String(tree["description"])
	doc.Category = ir.String(tree["category"])
	doc.Capabilities = ir.StringSlice(tree["capabilities"])
	doc.Tools = ir.StringSlice(tree["tools"])
	doc.SystemPrompt = ir.String(tree["system_prompt"])
	doc.Icon = ir.String(tree["icon"])
	doc.Tags = ir.StringSlice(tree["tags"])

	if v := ir.String(tree["version"]); v != "" {
		doc.Version = v
	}
	if m, ok := ir.Mapping(tree["metadata"]); ok {
		doc.Metadata = ir.CloneTree(m)
	}
	if v, ok := tree["config"]; ok {
		doc.ConfigValue = ir.CloneValue(ir.NormalizeValue(v))
	}

	for key, value := range tree {
		if !rooFields[key] {
			doc.SetCustomField(key, ir.CloneValue(value))
		}
	}

	if mode, ok := tree["mode"]; ok {
		doc.SetMetadata("original_mode", mode)
	}

	return doc, nil
}

// Validate implements Parser.
func (p *RooParser) Validate(tree map[string]any) []string {
	var errs []string

	_, hasMode := tree["mode"]
	_, hasName := tree["name"]
	if !hasMode && !hasName {
		errs = append(errs, "Must have either 'mode' or 'name' field")
	}
	if v, ok := tree["mode"]; ok && !ir.Truthy(v) {
		errs = append(errs, "Field 'mode' cannot be empty")
	}
	if v, ok := tree["name"]; ok && !ir.Truthy(v) {
		errs = append(errs, "Field 'name' cannot be empty")
	}

	errs = append(errs, checkRequired(tree, "description")...)
	errs = append(errs, checkAgentContent(tree)...)

	errs = append(errs, checkStringList(tree, "capabilities")...)
	errs = append(errs, checkStringList(tree, "tools")...)
	errs = append(errs, checkStringList(tree, "tags")...)
	errs = append(errs, checkMapping(tree, "metadata")...)
	errs = append(errs, checkString(tree, "version")...)
	errs = append(errs, checkString(tree, "category")...)
	errs = append(errs, checkString(tree, "icon")...)

	return errs
}

// Description implements Parser.
func (p *RooParser) Description() string {
	return "Roo Code agent format with mode, name, description, category, capabilities, tools, icon, and tags fields"
}

// nameFromMode derives a display name from a mode slug:
// "code-analyzer" becomes "Code Analyzer".
func nameFromMode(mode string) string {
	words := strings.Split(strings.ReplaceAll(mode, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// RooSerializer produces Roo-dialect trees from the IR.
//
// Roo mandates mode, category, icon, and tags on every document, so the
// serializer bakes in fixed fallbacks for them. These are distinct from the
// converter's field-mapping defaults: only the converter layer surfaces
// warnings to the caller.
type RooSerializer struct{}

// Serialize implements Serializer.
func (s *RooSerializer) Serialize(doc *ir.AgentDocument) (map[string]any, error) {
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Dialect: DialectRoo, Errors: errs}
	}

	tree := map[string]any{
		"mode":        strings.ReplaceAll(strings.ToLower(doc.Name), " ", "-"),
		"name":        doc.Name,
		"description": doc.Description,
		"version":     doc.Version,
	}

	tree["category"] = defaultString(doc.Category, "general")
	tree["icon"] = defaultString(doc.Icon, "fa-robot")
	if doc.Tags != nil {
		tree["tags"] = doc.Tags
	} else {
		tree["tags"] = []string{}
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
	if doc.ConfigValue != nil {
		tree["config"] = doc.ConfigValue
	}
	if len(doc.Metadata) > 0 {
		tree["metadata"] = doc.Metadata
	}

	overlayCustomFields(tree, doc)
	return tree, nil
}

// Description implements Serializer.
func (s *RooSerializer) Description() string {
	return "Roo Code agent format with mode, name, description, category, capabilities, tools, icon, and tags fields"
}

func defaultString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
