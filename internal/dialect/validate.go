package dialect

import (
	"fmt"

	"github.com/harrison/agentbridge/internal/ir"
)

// Shared field rules used by the dialect validators. Each helper appends the
// complete set of violations for its field; none of them stop at the first
// problem.

// checkRequired reports a missing or empty required field.
func checkRequired(tree map[string]any, field string) []string {
	v, ok := tree[field]
	if !ok {
		return []string{fmt.Sprintf("Missing required field: '%s'", field)}
	}
	if !ir.Truthy(v) {
		return []string{fmt.Sprintf("Field '%s' cannot be empty", field)}
	}
	return nil
}

// checkAgentContent reports the missing-content rule: a document needs at
// least one of system_prompt, capabilities, or tools with a non-empty value.
func checkAgentContent(tree map[string]any) []string {
	for _, field := range []string{"system_prompt", "capabilities", "tools"} {
		if v, ok := tree[field]; ok && ir.Truthy(v) {
			return nil
		}
	}
	return []string{"Must have at least one of: system_prompt, capabilities, tools"}
}

// checkStringList reports type violations for a sequence-of-strings field.
// Every offending element is reported with its index. Absent or empty
// values are skipped; required-ness is checked separately.
func checkStringList(tree map[string]any, field string) []string {
	v, ok := tree[field]
	if !ok || !ir.Truthy(v) {
		return nil
	}

	var items []any
	switch vv := v.(type) {
	case []any:
		items = vv
	case []string:
		return nil
	default:
		return []string{fmt.Sprintf("'%s' must be a list", field)}
	}

	var errs []string
	for i, item := range items {
		if _, ok := item.(string); !ok {
			errs = append(errs, fmt.Sprintf("%s[%d] must be a string", field, i))
		}
	}
	return errs
}

// checkMapping reports a type violation for a mapping-shaped field.
func checkMapping(tree map[string]any, field string) []string {
	v, ok := tree[field]
	if !ok || !ir.Truthy(v) {
		return nil
	}
	if _, ok := ir.Mapping(v); !ok {
		return []string{fmt.Sprintf("'%s' must be a dictionary", field)}
	}
	return nil
}

// checkString reports a type violation for a scalar string field.
func checkString(tree map[string]any, field string) []string {
	v, ok := tree[field]
	if !ok || !ir.Truthy(v) {
		return nil
	}
	if _, ok := v.(string); !ok {
		return []string{fmt.Sprintf("'%s' must be a string", field)}
	}
	return nil
}

// mergeCustomFields copies the document's custom fields into tree without
// overwriting core fields: on a key collision the just-emitted core value
// wins, never the custom one. Only the Claude serializer merges this way.
func mergeCustomFields(tree map[string]any, doc *ir.AgentDocument) {
	for key, value := range doc.CustomFields {
		if _, exists := tree[key]; !exists {
			tree[key] = value
		}
	}
}

// overlayCustomFields copies the document's custom fields into tree,
// overwriting core fields on a key collision: the custom value wins. The Roo
// and Custom serializers overlay this way.
func overlayCustomFields(tree map[string]any, doc *ir.AgentDocument) {
	for key, value := range doc.CustomFields {
		tree[key] = value
	}
}
