// Package docgen loads the documentation-generator options handed to the
// docgen plugin verbatim.
package docgen

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned in strict mode when no options file exists.
var ErrNotFound = errors.New("documentation options not found")

// Candidates are the options files tried in order, relative to the project root.
var Candidates = []string{"docs/config.yaml", "docs/config.yml", "docs/config.json"}

// Load reads the first existing candidate as a mapping. Unless strict is
// set, a missing or unreadable file yields an empty mapping.
func Load(fsys fs.FS, strict bool, logger *zap.Logger) (map[string]any, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, path, err := read(fsys)
	switch {
	case err == nil:
		logger.Debug("documentation options loaded", zap.String("file", path), zap.Int("keys", len(opts)))
		return opts, nil
	case strict:
		return nil, err
	case errors.Is(err, ErrNotFound):
		logger.Debug("no documentation options, using defaults")
	default:
		logger.Warn("ignoring unreadable documentation options", zap.String("file", path), zap.Error(err))
	}
	return map[string]any{}, nil
}

func read(fsys fs.FS) (map[string]any, string, error) {
	for _, path := range Candidates {
		data, err := fs.ReadFile(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("read %s: %w", path, err)
		}

		opts := map[string]any{}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return nil, path, fmt.Errorf("parse %s: %w", path, err)
		}
		for key, value := range opts {
			opts[key] = normalize(value)
		}
		return opts, path, nil
	}
	return nil, "", ErrNotFound
}

// normalize rewrites the map[any]any values yaml.v3 produces for mappings
// with non-string keys into map[string]any so the options encode as JSON.
func normalize(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case map[string]any:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	default:
		return value
	}
}
