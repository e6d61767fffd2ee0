package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/agentbridge/internal/dialect"
)

func claudeSource() map[string]any {
	return map[string]any{
		"name":          "Code Analyzer",
		"description":   "Analyzes code structure",
		"capabilities":  []any{"code-analysis"},
		"tools":         []any{"file-read"},
		"system_prompt": "You are a code analyzer.",
	}
}

func TestConvertClaudeToRoo(t *testing.T) {
	c := New()

	target, warnings, err := c.Convert(claudeSource(), dialect.DialectClaude, dialect.DialectRoo)
	require.NoError(t, err)

	assert.Equal(t, "code-analyzer", target["mode"])
	assert.Equal(t, "Code Analyzer", target["name"])
	assert.Equal(t, "general", target["category"])
	assert.Equal(t, "fa-robot", target["icon"])
	assert.Equal(t, []string{}, target["tags"])

	// One warning per synthesized default, in application order.
	assert.Equal(t, []string{
		"Field 'icon' was added with default value 'fa-robot'",
		"Field 'category' was added with default value 'general'",
		"Field 'tags' was initialized as empty array",
	}, warnings)
}

func TestConvertRooToClaude(t *testing.T) {
	c := New()
	source := map[string]any{
		"mode":          "code-analyzer",
		"description":   "Analyzes code structure",
		"system_prompt": "You are a code analyzer.",
		"icon":          "fa-search",
		"category":      "analysis",
	}

	target, warnings, err := c.Convert(source, dialect.DialectRoo, dialect.DialectClaude)
	require.NoError(t, err)

	// Claude output carries no roo-only keys; the mode survives as metadata.
	assert.Equal(t, "Code Analyzer", target["name"])
	_, hasMode := target["mode"]
	assert.False(t, hasMode)
	meta, ok := target["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "code-analyzer", meta["original_mode"])

	assert.Empty(t, warnings)
}

func TestConvertClaudeToCustom(t *testing.T) {
	c := New()
	source := map[string]any{
		"name":        "Helper",
		"description": "Helps out",
		"tools":       []any{"file-read"},
	}

	target, warnings, err := c.Convert(source, dialect.DialectClaude, dialect.DialectCustom)
	require.NoError(t, err)

	assert.Equal(t, []string{}, target["capabilities"])
	assert.Equal(t, []string{"file-read"}, target["tools"])
	assert.Equal(t, "You are Helper, an AI assistant. Helps out", target["system_prompt"])

	assert.Equal(t, []string{
		"Field 'capabilities' was initialized as empty array",
		"Field 'system_prompt' was generated from name and description",
	}, warnings)
}

func TestConvertRejectsIdentity(t *testing.T) {
	c := New()

	_, _, err := c.Convert(claudeSource(), dialect.DialectClaude, dialect.DialectClaude)

	var ufe *UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.True(t, ufe.Identity)
}

func TestConvertInvalidSource(t *testing.T) {
	c := New()
	source := map[string]any{
		"name":         "",
		"capabilities": "not-a-list",
	}

	_, _, err := c.Convert(source, dialect.DialectClaude, dialect.DialectRoo)

	var sve *SourceValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, dialect.DialectClaude, sve.Dialect)
	assert.Equal(t, []string{
		"Field 'name' cannot be empty",
		"Missing required field: 'description'",
		"'capabilities' must be a list",
	}, sve.Errors)
}

func TestConvertPreservesCustomFields(t *testing.T) {
	c := New()
	source := claudeSource()
	source["extra_flag"] = true
	source["nested"] = map[string]any{"deep": []any{"values"}}

	target, _, err := c.Convert(source, dialect.DialectClaude, dialect.DialectRoo)
	require.NoError(t, err)

	assert.Equal(t, true, target["extra_flag"])
	assert.Equal(t, map[string]any{"deep": []any{"values"}}, target["nested"])
}

func TestConvertLeavesSourceUntouched(t *testing.T) {
	c := New()
	source := map[string]any{
		"mode":          "code-analyzer",
		"description":   "Analyzes code",
		"system_prompt": "You analyze.",
		"metadata":      map[string]any{"owner": "qa"},
	}
	snapshot := map[string]any{
		"mode":          "code-analyzer",
		"description":   "Analyzes code",
		"system_prompt": "You analyze.",
		"metadata":      map[string]any{"owner": "qa"},
	}

	_, _, err := c.Convert(source, dialect.DialectRoo, dialect.DialectClaude)
	require.NoError(t, err)

	// The caller's tree is untouched; original_mode lands only on the
	// converted side.
	require.Equal(t, snapshot, source)
}

func TestConvertTargetIndependentOfSource(t *testing.T) {
	c := New()
	source := claudeSource()
	source["config"] = map[string]any{"max_tokens": 100}
	source["nested"] = map[string]any{"deep": []any{"values"}}

	target, _, err := c.Convert(source, dialect.DialectClaude, dialect.DialectRoo)
	require.NoError(t, err)

	target["config"].(map[string]any)["max_tokens"] = 1
	target["nested"].(map[string]any)["deep"] = nil

	assert.Equal(t, map[string]any{"max_tokens": 100}, source["config"])
	assert.Equal(t, map[string]any{"deep": []any{"values"}}, source["nested"])
}

func TestConvertCustomFieldOverridesSerializerDefault(t *testing.T) {
	c := New()
	source := claudeSource()
	// icon is not a claude field, so it travels as a custom field and
	// overwrites the roo serializer's fa-robot fallback.
	source["icon"] = "fa-search"

	target, _, err := c.Convert(source, dialect.DialectClaude, dialect.DialectRoo)
	require.NoError(t, err)

	assert.Equal(t, "fa-search", target["icon"])
}

func TestConvertContentContainerSource(t *testing.T) {
	c := New()
	content := []byte("mode: code-analyzer\ndescription: Analyzes code\nsystem_prompt: You analyze.\n")

	target, warnings, err := c.ConvertContent(content, "yaml", "claude")
	require.NoError(t, err)

	assert.Equal(t, "Code Analyzer", target["name"])
	require.NotEmpty(t, warnings)
	assert.Equal(t, "Detected agent format: roo", warnings[0])
}

func TestConvertContentDialectSource(t *testing.T) {
	c := New()
	content := []byte(`{"name": "Helper", "description": "Helps", "system_prompt": "Be helpful."}`)

	target, warnings, err := c.ConvertContent(content, "claude", "roo")
	require.NoError(t, err)

	assert.Equal(t, "helper", target["mode"])
	// No detection step on the dialect path, only mapping warnings.
	assert.Len(t, warnings, 3)
}

func TestConvertContentYAMLFallback(t *testing.T) {
	c := New()
	content := []byte("name: Helper\ndescription: Helps\nsystem_prompt: Be helpful.\n")

	target, _, err := c.ConvertContent(content, "claude", "roo")
	require.NoError(t, err)
	assert.Equal(t, "Helper", target["name"])
}

func TestConvertContentUnknownFormats(t *testing.T) {
	c := New()
	content := []byte(`{"name": "x"}`)

	t.Run("unknown target", func(t *testing.T) {
		_, _, err := c.ConvertContent(content, "claude", "gpt")

		var ufe *UnsupportedFormatError
		require.ErrorAs(t, err, &ufe)
		assert.Equal(t, "gpt", ufe.Format)
		assert.Equal(t, "target", ufe.Role)
		assert.Equal(t, []string{"claude", "custom", "roo"}, ufe.Supported)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, _, err := c.ConvertContent(content, "gpt", "claude")

		var ufe *UnsupportedFormatError
		require.ErrorAs(t, err, &ufe)
		assert.Equal(t, "source", ufe.Role)
		assert.Equal(t, []string{"claude", "custom", "json", "markdown", "roo", "yaml"}, ufe.Supported)
	})
}

func TestConvertFile(t *testing.T) {
	c := New()

	t.Run("reads and converts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agent.json")
		content := `{"name": "Helper", "description": "Helps", "system_prompt": "Be helpful."}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		target, _, err := c.ConvertFile(path, "claude", "roo")
		require.NoError(t, err)
		assert.Equal(t, "helper", target["mode"])
	})

	t.Run("missing file surfaces as IOError", func(t *testing.T) {
		_, _, err := c.ConvertFile("/nonexistent/agent.json", "claude", "roo")

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "/nonexistent/agent.json", ioErr.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestValidateConversion(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		target  string
		valid   bool
		wantErr []string
	}{
		{name: "claude to roo", source: "claude", target: "roo", valid: true},
		{name: "roo to custom", source: "roo", target: "custom", valid: true},
		{name: "container source", source: "yaml", target: "claude", valid: true},
		{name: "case and whitespace tolerant", source: " Claude ", target: "ROO", valid: true},
		{
			name:    "unknown source",
			source:  "gpt",
			target:  "claude",
			valid:   false,
			wantErr: []string{"Unsupported source format: gpt"},
		},
		{
			name:    "unknown target",
			source:  "claude",
			target:  "json",
			valid:   false,
			wantErr: []string{"Unsupported target format: json"},
		},
		{
			name:    "identity",
			source:  "claude",
			target:  "claude",
			valid:   false,
			wantErr: []string{"Source and target formats are the same"},
		},
		{
			name:   "everything wrong at once",
			source: "gpt",
			target: "gpt",
			valid:  false,
			wantErr: []string{
				"Unsupported source format: gpt",
				"Unsupported target format: gpt",
				"Source and target formats are the same",
			},
		},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := c.ValidateConversion(tt.source, tt.target)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.wantErr, errs)
		})
	}
}

func TestListSupportedFormats(t *testing.T) {
	c := New()
	formats := c.ListSupportedFormats()

	require.Len(t, formats, 6)

	claude := formats["claude"]
	assert.Equal(t, "Claude", claude.HumanName)
	assert.Equal(t, KindAgent, claude.Kind)
	assert.NotEmpty(t, claude.Description)

	yaml := formats["yaml"]
	assert.Equal(t, "YAML", yaml.HumanName)
	assert.Equal(t, KindFile, yaml.Kind)
	assert.Equal(t, "YAML file format", yaml.Description)
}

func TestParserAndSerializerAccessors(t *testing.T) {
	c := New()

	p, err := c.Parser("roo")
	require.NoError(t, err)
	require.NotNil(t, p)

	s, err := c.Serializer("custom")
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = c.Parser("gpt")
	var ufe *UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
}
