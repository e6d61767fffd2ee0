package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// encodeTree serializes a converted tree in the requested encoding.
func encodeTree(tree map[string]any, outputFormat string) ([]byte, error) {
	switch outputFormat {
	case "json", "":
		return json.MarshalIndent(tree, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("unsupported output encoding: %s (use json or yaml)", outputFormat)
	}
}

// writeOutputFile writes the converted document to path. A sibling .lock
// file guards against two agentbridge processes targeting the same output,
// and the write itself goes through a temp file plus rename so readers
// never see a partial document.
func writeOutputFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock on %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
