package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadOption configures how suite and value files are read.
type LoadOption func(*loadOptions)

type loadOptions struct {
	expand func(string) string
}

// WithExpansion runs the raw file content through expand before it
// is parsed, for example to substitute ${NAME} references.
func WithExpansion(expand func(string) string) LoadOption {
	return func(o *loadOptions) {
		if expand != nil {
			o.expand = expand
		}
	}
}

func newLoadOptions(opts []LoadOption) *loadOptions {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadFile reads a suite from a .json, .yaml, .yml or .toml file
// and validates it against Schema.
func LoadFile(path string, opts ...LoadOption) (Suite, error) {
	data, err := readJSON(path, newLoadOptions(opts))
	if err != nil {
		return Suite{}, err
	}

	if err := ValidateDocument(data); err != nil {
		return Suite{}, fmt.Errorf("invalid suite %s: %w", path, err)
	}

	var s Suite
	if err := json.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf(
			"failed to decode suite %s: %w", path, err,
		)
	}
	s.Source = path
	if s.Assertions == nil {
		s.Assertions = []Definition{}
	}
	return s, nil
}

// LoadDir loads every suite file in dir, sorted by file name. It
// does not recurse into subdirectories.
func LoadDir(dir string, opts ...LoadOption) ([]Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read directory %s: %w", dir, err,
		)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	suites := make([]Suite, 0, len(names))
	for _, name := range names {
		s, err := LoadFile(filepath.Join(dir, name), opts...)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// LoadPaths loads suites from a mix of files and directories.
func LoadPaths(paths []string, opts ...LoadOption) ([]Suite, error) {
	var suites []Suite
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			loaded, err := LoadDir(p, opts...)
			if err != nil {
				return nil, err
			}
			suites = append(suites, loaded...)
			continue
		}
		s, err := LoadFile(p, opts...)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// LoadValues reads a value document in any suite file format. Maps
// decode to map[string]any, lists to []any and numbers to float64.
func LoadValues(path string, opts ...LoadOption) (any, error) {
	data, err := readJSON(path, newLoadOptions(opts))
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf(
			"failed to decode values %s: %w", path, err,
		)
	}
	return doc, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// readJSON reads path and re-encodes its content as JSON so every
// format goes through the same schema and decoder.
func readJSON(path string, o *loadOptions) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return toJSON(data, filepath.Ext(path), path, o)
}

// ParseValues decodes a value document held in memory. format is a
// file extension with or without the leading dot: json, yaml, yml
// or toml.
func ParseValues(data []byte, format string, opts ...LoadOption) (any, error) {
	ext := "." + strings.TrimPrefix(format, ".")
	out, err := toJSON(data, ext, "document", newLoadOptions(opts))
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(out, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode values: %w", err)
	}
	return doc, nil
}

func toJSON(data []byte, ext, name string, o *loadOptions) ([]byte, error) {
	if o.expand != nil {
		data = []byte(o.expand(string(data)))
	}

	var doc any
	switch ext = strings.ToLower(ext); ext {
	case ".json":
		return data, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf(
				"failed to parse YAML %s: %w", name, err,
			)
		}
	case ".toml":
		var table map[string]any
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf(
				"failed to parse TOML %s: %w", name, err,
			)
		}
		doc = table
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}

	out, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", name, err)
	}
	return out, nil
}

// stringKeys converts the map[any]any values YAML produces for
// non-string keys into map[string]any.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = stringKeys(val)
		}
		return out
	}
	return v
}
