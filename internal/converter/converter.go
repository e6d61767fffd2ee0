// Package converter wires the container readers, dialect parsers, and
// dialect serializers into the conversion pipeline. It owns the
// field-mapping policy applied between parse and serialize: defaults
// synthesized here are reported to the caller as warnings, while the
// serializers' own mandatory-field fallbacks stay silent.
//
// Conversions between a dialect and itself are rejected; the pipeline is
// strictly a bridge between two different dialects.
package converter

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/agentbridge/internal/container"
	"github.com/harrison/agentbridge/internal/dialect"
	"github.com/harrison/agentbridge/internal/ir"
)

// Kind tags a FormatDescriptor as an agent dialect or a raw file container.
type Kind string

const (
	// KindAgent marks an agent-description dialect
	KindAgent Kind = "agent"
	// KindFile marks a raw container format
	KindFile Kind = "file"
)

// FormatDescriptor describes a registered format for discovery callers.
type FormatDescriptor struct {
	Name        string `json:"name"`
	HumanName   string `json:"human_name"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// Converter converts agent definitions between dialects. The registries are
// built once by New and never mutated afterwards; every parser, serializer,
// and reader held in them is stateless, so a single Converter is safe for
// concurrent use without locking.
type Converter struct {
	parsers     map[dialect.Dialect]dialect.Parser
	serializers map[dialect.Dialect]dialect.Serializer
	readers     map[container.Format]container.Reader
}

// New builds a Converter with every known dialect and container registered.
func New() *Converter {
	c := &Converter{
		parsers:     make(map[dialect.Dialect]dialect.Parser),
		serializers: make(map[dialect.Dialect]dialect.Serializer),
		readers:     make(map[container.Format]container.Reader),
	}

	for _, d := range dialect.Dialects() {
		p, err := dialect.NewParser(d)
		if err != nil {
			panic(fmt.Sprintf("converter: no parser for dialect %v", d))
		}
		s, err := dialect.NewSerializer(d)
		if err != nil {
			panic(fmt.Sprintf("converter: no serializer for dialect %v", d))
		}
		c.parsers[d] = p
		c.serializers[d] = s
	}

	for _, f := range container.Formats() {
		r, err := container.NewReader(f)
		if err != nil {
			panic(fmt.Sprintf("converter: no reader for container %v", f))
		}
		c.readers[f] = r
	}

	return c
}

// Parser returns the parser registered for the named dialect.
func (c *Converter) Parser(name string) (dialect.Parser, error) {
	d, ok := dialect.ParseDialect(name)
	if !ok {
		return nil, &UnsupportedFormatError{Format: name, Role: "source", Supported: c.dialectNames()}
	}
	return c.parsers[d], nil
}

// Serializer returns the serializer registered for the named dialect.
func (c *Converter) Serializer(name string) (dialect.Serializer, error) {
	d, ok := dialect.ParseDialect(name)
	if !ok {
		return nil, &UnsupportedFormatError{Format: name, Role: "target", Supported: c.dialectNames()}
	}
	return c.serializers[d], nil
}

// DetectDialect classifies content into one of the registered dialects.
func (c *Converter) DetectDialect(content string) dialect.Dialect {
	return dialect.Detect(content)
}

// DetectContainerFormat returns the name of the container format detected
// from the filename extension and, failing that, the content; "unknown"
// when neither matches.
func (c *Converter) DetectContainerFormat(filename string, content []byte) string {
	return container.DetectFormat(filename, content).String()
}

// Convert converts a source tree between two dialects. It returns the
// target tree together with one warning per default the field-mapping step
// synthesized. On failure no partial tree is returned.
func (c *Converter) Convert(source map[string]any, from, to dialect.Dialect) (map[string]any, []string, error) {
	parser, ok := c.parsers[from]
	if !ok {
		return nil, nil, &UnsupportedFormatError{Format: from.String(), Role: "source", Supported: c.dialectNames()}
	}
	serializer, ok := c.serializers[to]
	if !ok {
		return nil, nil, &UnsupportedFormatError{Format: to.String(), Role: "target", Supported: c.dialectNames()}
	}
	if from == to {
		return nil, nil, &UnsupportedFormatError{Identity: true}
	}

	if errs := parser.Validate(source); len(errs) > 0 {
		return nil, nil, &SourceValidationError{Dialect: from, Errors: errs}
	}

	doc, err := parser.Parse(source)
	if err != nil {
		return nil, nil, err
	}

	warnings := applyFieldDefaults(doc, to)

	target, err := serializer.Serialize(doc)
	if err != nil {
		return nil, nil, err
	}

	return target, warnings, nil
}

// ConvertContent converts raw document content. When sourceFormat names a
// container format the matching reader runs first and the effective source
// dialect is detected from the content (reported as a warning); when it
// names a dialect the content is decoded as JSON with a YAML fallback.
func (c *Converter) ConvertContent(content []byte, sourceFormat, targetFormat string) (map[string]any, []string, error) {
	target, ok := dialect.ParseDialect(targetFormat)
	if !ok {
		return nil, nil, &UnsupportedFormatError{Format: targetFormat, Role: "target", Supported: c.dialectNames()}
	}

	if cf, ok := container.ParseFormat(sourceFormat); ok {
		reader := c.readers[cf]
		tree, err := reader.Read(content)
		if err != nil {
			return nil, nil, err
		}

		detected := dialect.Detect(string(content))
		warnings := []string{fmt.Sprintf("Detected agent format: %s", detected)}

		targetTree, convWarnings, err := c.Convert(tree, detected, target)
		if err != nil {
			return nil, nil, err
		}
		return targetTree, append(warnings, convWarnings...), nil
	}

	source, ok := dialect.ParseDialect(sourceFormat)
	if !ok {
		return nil, nil, &UnsupportedFormatError{Format: sourceFormat, Role: "source", Supported: c.sourceNames()}
	}

	tree, err := decodeTree(content)
	if err != nil {
		return nil, nil, err
	}
	return c.Convert(tree, source, target)
}

// ConvertFile reads a document from disk and converts it. Read failures
// surface as *IOError; everything else matches ConvertContent.
func (c *Converter) ConvertFile(path, sourceFormat, targetFormat string) (map[string]any, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &IOError{Path: path, Err: err}
	}
	return c.ConvertContent(content, sourceFormat, targetFormat)
}

// ValidateConversion checks whether a conversion between the named formats
// is supported. It inspects only the registries, never document content.
func (c *Converter) ValidateConversion(sourceFormat, targetFormat string) (bool, []string) {
	var errs []string

	source := strings.ToLower(strings.TrimSpace(sourceFormat))
	target := strings.ToLower(strings.TrimSpace(targetFormat))

	_, isDialect := dialect.ParseDialect(source)
	_, isContainer := container.ParseFormat(source)
	if !isDialect && !isContainer {
		errs = append(errs, fmt.Sprintf("Unsupported source format: %s", sourceFormat))
	}

	if _, ok := dialect.ParseDialect(target); !ok {
		errs = append(errs, fmt.Sprintf("Unsupported target format: %s", targetFormat))
	}

	if source == target {
		errs = append(errs, "Source and target formats are the same")
	}

	return len(errs) == 0, errs
}

// ListSupportedFormats returns a descriptor for every registered dialect
// and container format, keyed by format name.
func (c *Converter) ListSupportedFormats() map[string]FormatDescriptor {
	formats := make(map[string]FormatDescriptor)

	for d, p := range c.parsers {
		name := d.String()
		formats[name] = FormatDescriptor{
			Name:        name,
			HumanName:   titleCase(name),
			Description: p.Description(),
			Kind:        KindAgent,
		}
	}

	for f := range c.readers {
		name := f.String()
		formats[name] = FormatDescriptor{
			Name:        name,
			HumanName:   strings.ToUpper(name),
			Description: fmt.Sprintf("%s file format", strings.ToUpper(name)),
			Kind:        KindFile,
		}
	}

	return formats
}

// applyFieldDefaults fills target-dialect fields the IR lacks and returns
// one warning per synthesized value. This layer is deliberately separate
// from the serializer fallbacks: only defaults applied here are observable
// to the caller.
func applyFieldDefaults(doc *ir.AgentDocument, target dialect.Dialect) []string {
	warnings := []string{}

	if target == dialect.DialectRoo {
		if doc.Icon == "" {
			doc.Icon = "fa-robot"
			warnings = append(warnings, "Field 'icon' was added with default value 'fa-robot'")
		}
		if doc.Category == "" {
			doc.Category = "general"
			warnings = append(warnings, "Field 'category' was added with default value 'general'")
		}
		if len(doc.Tags) == 0 {
			doc.Tags = []string{}
			warnings = append(warnings, "Field 'tags' was initialized as empty array")
		}
	}

	if target == dialect.DialectCustom {
		if len(doc.Capabilities) == 0 {
			doc.Capabilities = []string{}
			warnings = append(warnings, "Field 'capabilities' was initialized as empty array")
		}
		if len(doc.Tools) == 0 {
			doc.Tools = []string{}
			warnings = append(warnings, "Field 'tools' was initialized as empty array")
		}
		if doc.SystemPrompt == "" {
			doc.SystemPrompt = dialect.SynthesizeSystemPrompt(doc)
			warnings = append(warnings, "Field 'system_prompt' was generated from name and description")
		}
	}

	return warnings
}

// decodeTree decodes content as JSON, falling back to YAML. Used for
// dialect-named sources where no container reader is involved.
func decodeTree(content []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(content, &v); err == nil {
		if tree, ok := v.(map[string]any); ok {
			return tree, nil
		}
		return nil, &container.ParseError{Format: container.FormatJSON, Msg: "content must be an object"}
	}

	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, &container.ParseError{Format: container.FormatYAML, Msg: "malformed YAML", Err: err}
	}
	tree, ok := v.(map[string]any)
	if !ok {
		return nil, &container.ParseError{Format: container.FormatYAML, Msg: "content must be a mapping"}
	}
	return tree, nil
}

func (c *Converter) dialectNames() []string {
	names := make([]string, 0, len(c.parsers))
	for d := range c.parsers {
		names = append(names, d.String())
	}
	sort.Strings(names)
	return names
}

func (c *Converter) sourceNames() []string {
	names := c.dialectNames()
	for f := range c.readers {
		names = append(names, f.String())
	}
	sort.Strings(names)
	return names
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
