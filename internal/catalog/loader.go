package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadFile parses a single YAML catalog file and validates it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- catalog paths come from operator config, not remote input.
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", filepath.Base(path), err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadDir registers every *.yaml / *.yml catalog found directly in dir.
// Invalid files are logged and skipped; a missing directory is not an error.
func (r *Registry) LoadDir(dir string, logger *zap.SugaredLogger) int {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		c, err := LoadFile(file)
		if err != nil {
			if logger != nil {
				logger.Warnw("skipping catalog file", "file", file, "error", err)
			}
			continue
		}
		if err := r.Register(c); err != nil {
			if logger != nil {
				logger.Warnw("skipping catalog file", "file", file, "error", err)
			}
			continue
		}
		loaded++
	}
	return loaded
}
