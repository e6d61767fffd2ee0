package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root := NewRootCommand()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)

	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func writeAgentFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertCommand(t *testing.T) {
	path := writeAgentFile(t, "agent.json",
		`{"name": "Code Analyzer", "description": "Analyzes code", "system_prompt": "You analyze."}`)

	stdout, stderr, err := executeCommand(t, "convert", path, "--to", "roo")
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &tree))
	assert.Equal(t, "code-analyzer", tree["mode"])

	// Detection and synthesized defaults land on stderr as warnings.
	assert.Contains(t, stderr, "Detected agent format: claude")
	assert.Contains(t, stderr, "Field 'icon' was added with default value 'fa-robot'")
}

func TestConvertCommandWritesOutputFile(t *testing.T) {
	path := writeAgentFile(t, "agent.yaml",
		"name: Helper\ndescription: Helps\nsystem_prompt: Be helpful.\n")
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	stdout, _, err := executeCommand(t, "convert", path,
		"--to", "custom", "--output", outPath, "--output-format", "yaml")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "name: Helper")
}

func TestConvertCommandRecordsHistory(t *testing.T) {
	path := writeAgentFile(t, "agent.json",
		`{"name": "Helper", "description": "Helps", "system_prompt": "Be helpful."}`)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	_, _, err := executeCommand(t, "convert", path, "--to", "roo", "--history", dbPath)
	require.NoError(t, err)

	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr)
}

func TestConvertCommandRejectsUnknownTarget(t *testing.T) {
	path := writeAgentFile(t, "agent.json", `{"name": "X"}`)

	_, _, err := executeCommand(t, "convert", path, "--to", "gpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported target format: gpt")
}

func TestDetectCommand(t *testing.T) {
	path := writeAgentFile(t, "agent.yaml",
		"mode: code-analyzer\ndescription: Analyzes code\n")

	stdout, _, err := executeCommand(t, "detect", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "container: yaml")
	assert.Contains(t, stdout, "dialect:   roo")
}

func TestFormatsCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "formats")
	require.NoError(t, err)

	for _, name := range []string{"claude", "roo", "custom", "json", "yaml", "markdown"} {
		assert.Contains(t, stdout, name)
	}
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		path := writeAgentFile(t, "agent.json",
			`{"name": "Helper", "description": "Helps", "system_prompt": "Be helpful."}`)

		stdout, _, err := executeCommand(t, "validate", path, "--as", "claude")
		require.NoError(t, err)
		assert.Contains(t, stdout, "valid claude document")
	})

	t.Run("invalid document lists every problem", func(t *testing.T) {
		path := writeAgentFile(t, "agent.json", `{"description": "Helps"}`)

		stdout, _, err := executeCommand(t, "validate", path, "--as", "claude")
		require.Error(t, err)
		assert.Contains(t, stdout, "Missing required field: 'name'")
		assert.Contains(t, err.Error(), "not a valid claude document")
	})
}

func TestEncodeTree(t *testing.T) {
	tree := map[string]any{"name": "X"}

	jsonOut, err := encodeTree(tree, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "X"}`, string(jsonOut))

	yamlOut, err := encodeTree(tree, "yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: X\n", string(yamlOut))

	_, err = encodeTree(tree, "toml")
	require.Error(t, err)
}

func TestWriteOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, writeOutputFile(path, []byte(`{"a": 1}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(data))
}
