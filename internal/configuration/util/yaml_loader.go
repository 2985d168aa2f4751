package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var yamlExtensions = []string{".yml", ".yaml"}

// LoadAndExpandYaml reads baseDir/filename.yml (or .yaml) and expands
// environment references in it.
func LoadAndExpandYaml(baseDir, filename string) (string, error) {
	var raw []byte
	for _, ext := range yamlExtensions {
		b, err := os.ReadFile(filepath.Join(baseDir, filename+ext))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		raw = b
		break
	}
	if raw == nil {
		return "", fmt.Errorf("%s.yml not found in %s", filename, baseDir)
	}

	return ExpandEnvStrict(string(raw))
}
