// Package ir defines the intermediate representation shared by every agent
// dialect. Parsers produce an AgentDocument, the converter adjusts it, and
// serializers consume it. The IR itself knows nothing about any dialect.
package ir

import (
	"fmt"
)

// DefaultVersion is used whenever a document does not declare its own version.
const DefaultVersion = "1.0.0"

// AgentDocument is the neutral model every dialect maps through.
//
// CustomFields holds every key a dialect parser did not recognize. It is the
// extension-preservation mechanism: values are carried verbatim so that a
// round trip through the IR keeps them JSON-equal.
type AgentDocument struct {
	ID           string
	Name         string
	Description  string
	Version      string
	Category     string
	Capabilities []string
	Tools        []string
	SystemPrompt string
	ConfigValue  any
	ConfigSchema map[string]any
	Metadata     map[string]any
	Icon         string
	Author       any
	Tags         []string
	CustomFields map[string]any
}

// New returns an empty document with defaults applied.
func New() *AgentDocument {
	return &AgentDocument{
		Version:      DefaultVersion,
		Capabilities: []string{},
		Tools:        []string{},
		Tags:         []string{},
		Metadata:     map[string]any{},
		CustomFields: map[string]any{},
	}
}

// Validate checks the document invariants and returns every violated rule.
// The document is valid when the returned slice is empty.
func (d *AgentDocument) Validate() []string {
	var errs []string

	if d.Name == "" {
		errs = append(errs, "Missing required field: 'name'")
	}
	if d.Description == "" {
		errs = append(errs, "Missing required field: 'description'")
	}

	// A document with nothing but a name and description is not an agent.
	if d.SystemPrompt == "" && len(d.Capabilities) == 0 && len(d.Tools) == 0 {
		errs = append(errs, "Agent must have at least one of: system_prompt, capabilities, tools")
	}

	return errs
}

// ToTree converts the document to a generic tree. Optional scalar fields
// that are unset are omitted; sequence and mapping fields are always present.
func (d *AgentDocument) ToTree() map[string]any {
	tree := map[string]any{
		"version":       d.Version,
		"capabilities":  d.Capabilities,
		"tools":         d.Tools,
		"tags":          d.Tags,
		"metadata":      d.Metadata,
		"custom_fields": d.CustomFields,
	}

	if d.ID != "" {
		tree["id"] = d.ID
	}
	if d.Name != "" {
		tree["name"] = d.Name
	}
	if d.Description != "" {
		tree["description"] = d.Description
	}
	if d.Category != "" {
		tree["category"] = d.Category
	}
	if d.SystemPrompt != "" {
		tree["system_prompt"] = d.SystemPrompt
	}
	if d.Icon != "" {
		tree["icon"] = d.Icon
	}
	if d.Author != nil {
		tree["author"] = d.Author
	}
	if d.ConfigValue != nil {
		tree["config_json"] = d.ConfigValue
	}
	if d.ConfigSchema != nil {
		tree["config_schema"] = d.ConfigSchema
	}

	return tree
}

// FromTree reconstructs a document from a generic tree. Missing fields fall
// back to their defaults: version "1.0.0", empty sequences, empty mappings.
func FromTree(tree map[string]any) *AgentDocument {
	d := New()

	d.ID = String(tree["id"])
	d.Name = String(tree["name"])
	d.Description = String(tree["description"])
	if v := String(tree["version"]); v != "" {
		d.Version = v
	}
	d.Category = String(tree["category"])
	d.SystemPrompt = String(tree["system_prompt"])
	d.Icon = String(tree["icon"])
	d.Author = tree["author"]

	d.Capabilities = StringSlice(tree["capabilities"])
	d.Tools = StringSlice(tree["tools"])
	d.Tags = StringSlice(tree["tags"])

	d.ConfigValue = tree["config_json"]
	if m, ok := Mapping(tree["config_schema"]); ok {
		d.ConfigSchema = m
	}
	if m, ok := Mapping(tree["metadata"]); ok {
		d.Metadata = m
	}
	if m, ok := Mapping(tree["custom_fields"]); ok {
		d.CustomFields = m
	}

	return d
}

// MergeCapabilities appends capabilities that are not already present,
// keeping the existing order stable.
func (d *AgentDocument) MergeCapabilities(additional []string) {
	d.Capabilities = mergeStrings(d.Capabilities, additional)
}

// MergeTools appends tools that are not already present, keeping the
// existing order stable.
func (d *AgentDocument) MergeTools(additional []string) {
	d.Tools = mergeStrings(d.Tools, additional)
}

// AddTag appends a tag unless it already exists.
func (d *AgentDocument) AddTag(tag string) {
	for _, t := range d.Tags {
		if t == tag {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

// SetMetadata stores a metadata value under key.
func (d *AgentDocument) SetMetadata(key string, value any) {
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	d.Metadata[key] = value
}

// SetCustomField stores an unrecognized field under key.
func (d *AgentDocument) SetCustomField(key string, value any) {
	if d.CustomFields == nil {
		d.CustomFields = map[string]any{}
	}
	d.CustomFields[key] = value
}

func (d *AgentDocument) String() string {
	return fmt.Sprintf("AgentDocument(name=%q, category=%q, capabilities=%d)",
		d.Name, d.Category, len(d.Capabilities))
}

func mergeStrings(existing, additional []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range additional {
		if !seen[s] {
			existing = append(existing, s)
			seen[s] = true
		}
	}
	return existing
}
