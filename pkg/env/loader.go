// Package env loads variables from .env files and expands ${NAME}
// references in suite and value documents.
package env

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

// Loader defines the interface for environment variable management.
type Loader interface {
	// Load reads environment variables from a .env file.
	Load(filepath string) error
	// Get retrieves an environment variable value.
	Get(key string) string
	// Lookup retrieves a variable and reports whether it is set.
	Lookup(key string) (string, bool)
	// GetRequired retrieves a required environment variable or returns error.
	GetRequired(key string) (string, error)
	// GetWithDefault retrieves an environment variable with a default fallback.
	GetWithDefault(key, defaultValue string) string
	// Expand replaces ${NAME} and ${NAME:-default} references in s.
	Expand(s string) string
	// Set sets an environment variable.
	Set(key, value string) error
	// All returns all loaded environment variables.
	All() map[string]string
}

// DefaultLoader implements Loader with .env file support. Variables
// from the process environment take precedence over loaded ones.
type DefaultLoader struct {
	mu     sync.RWMutex
	vars   map[string]string
	loaded bool
}

// NewLoader creates an empty DefaultLoader.
func NewLoader() *DefaultLoader {
	return &DefaultLoader{vars: make(map[string]string)}
}

// Load reads KEY=VALUE lines from filepath. Blank lines, comments
// and lines without '=' are skipped; an "export " prefix and
// surrounding quotes are removed.
func (l *DefaultLoader) Load(filepath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", filepath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove surrounding quotes
		value = strings.Trim(value, `"'`)
		l.vars[key] = value
	}

	l.loaded = true
	return scanner.Err()
}

// Get returns the value of key, or "" when it is unset.
func (l *DefaultLoader) Get(key string) string {
	v, _ := l.Lookup(key)
	return v
}

// Lookup returns the value of key and whether it is set. A non-empty
// process environment variable wins over the loaded files.
func (l *DefaultLoader) Lookup(key string) (string, bool) {
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.vars[key]
	return v, ok
}

// GetRequired returns the value of key, or an error when it is unset
// or empty.
func (l *DefaultLoader) GetRequired(key string) (string, error) {
	v := l.Get(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}

// GetWithDefault returns the value of key, or defaultValue when it
// is unset or empty.
func (l *DefaultLoader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

var reference = regexp.MustCompile(
	`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`,
)

// Expand substitutes ${NAME} with the variable's value. A reference
// with a ":-default" part falls back to the default when the
// variable is unset or empty; one without it is left untouched when
// the variable is unset. Bare $NAME forms are not expanded, so
// regular expressions in documents keep their anchors.
func (l *DefaultLoader) Expand(s string) string {
	return reference.ReplaceAllStringFunc(s, func(ref string) string {
		m := reference.FindStringSubmatch(ref)
		name, hasDefault := m[1], strings.Contains(ref, ":-")
		v, ok := l.Lookup(name)
		switch {
		case ok && v != "":
			return v
		case hasDefault:
			return m[2]
		case ok:
			return v
		}
		return ref
	})
}

// Set stores key in the loader and the process environment.
func (l *DefaultLoader) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vars[key] = value
	return os.Setenv(key, value)
}

// All returns a copy of the variables loaded from files or Set.
func (l *DefaultLoader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		result[k] = v
	}
	return result
}
