package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Dialect
	}{
		{
			name:    "mode marker means roo",
			content: "mode: code-analyzer\ndescription: x",
			want:    DialectRoo,
		},
		{
			name:    "icon marker means roo",
			content: `{"icon": "fa-robot"}`,
			want:    DialectRoo,
		},
		{
			name:    "config_schema means custom",
			content: `{"name": "x", "config_schema": {}}`,
			want:    DialectCustom,
		},
		{
			name:    "plain document defaults to claude",
			content: `{"name": "x", "description": "y"}`,
			want:    DialectClaude,
		},
		{
			name:    "roo markers win the tie-break over config_schema",
			content: "mode: foo\nconfig_schema: {}",
			want:    DialectRoo,
		},
		{
			name:    "marker inside prompt text still matches",
			content: `{"system_prompt": "always render the icon: first"}`,
			want:    DialectRoo,
		},
		{
			name:    "markers match case-insensitively",
			content: "Mode: code-analyzer",
			want:    DialectRoo,
		},
		{
			name:    "config_schema matches case-insensitively",
			content: `{"name": "x", "Config_Schema": {}}`,
			want:    DialectCustom,
		},
		{
			name:    "empty content defaults to claude",
			content: "",
			want:    DialectClaude,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.content))
		})
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Dialect
		wantOK bool
	}{
		{name: "claude", input: "claude", want: DialectClaude, wantOK: true},
		{name: "roo", input: "roo", want: DialectRoo, wantOK: true},
		{name: "custom", input: "custom", want: DialectCustom, wantOK: true},
		{name: "case insensitive", input: "Claude", want: DialectClaude, wantOK: true},
		{name: "container name is not a dialect", input: "json", want: DialectUnknown, wantOK: false},
		{name: "empty", input: "", want: DialectUnknown, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDialect(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNewParserAndSerializer(t *testing.T) {
	for _, d := range Dialects() {
		p, err := NewParser(d)
		require.NoError(t, err)
		require.NotNil(t, p)

		s, err := NewSerializer(d)
		require.NoError(t, err)
		require.NotNil(t, s)
	}

	_, err := NewParser(DialectUnknown)
	require.Error(t, err)
	_, err = NewSerializer(DialectUnknown)
	require.Error(t, err)
}
