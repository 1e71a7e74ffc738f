package suite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSuite = `
version: "1"
name: users
description: user document checks
assertions:
  - type: equals
    target: user.name
    value: Ada
  - type: "contains:adm"
    target: user.role
  - type: any
    target: user.age
    any:
      - type: is_nil
      - type: is_greater_than
        value: 17
`

const jsonSuite = `{
  "name": "counts",
  "assertions": [
    {"type": "equals", "target": "count", "value": 3, "delta": 0.5},
    {"type": "is_true", "target": "active", "not": true}
  ]
}`

const tomlSuite = `
name = "flags"

[[assertions]]
type = "is_true"
target = "enabled"

[[assertions]]
type = "all"
target = "tags"

  [[assertions.all]]
  type = "is_of_size"
  value = 2

  [[assertions.all]]
  type = "contains"
  value = "beta"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFile_YAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "users.yaml", yamlSuite)

	s, err := LoadFile(p)

	require.NoError(t, err)
	assert.Equal(t, "users", s.Name)
	assert.Equal(t, "1", s.Version)
	assert.Equal(t, p, s.Source)
	require.Len(t, s.Assertions, 3)
	assert.Equal(t, "Ada", s.Assertions[0].Value)
	assert.Equal(t, "contains:adm", s.Assertions[1].Type)
	require.Len(t, s.Assertions[2].Any, 2)
	assert.Equal(t, float64(17), s.Assertions[2].Any[1].Value)
}

func TestLoadFile_JSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "counts.json", jsonSuite)

	s, err := LoadFile(p)

	require.NoError(t, err)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, 0.5, s.Assertions[0].Delta)
	assert.True(t, s.Assertions[1].Not)
}

func TestLoadFile_TOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "flags.toml", tomlSuite)

	s, err := LoadFile(p)

	require.NoError(t, err)
	assert.Equal(t, "flags", s.Name)
	require.Len(t, s.Assertions, 2)
	require.Len(t, s.Assertions[1].All, 2)
	assert.Equal(t, float64(2), s.Assertions[1].All[0].Value)
}

func TestLoadFile_RunsAgainstValues(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yml", yamlSuite)
	valuesPath := writeFile(t, dir, "values.json",
		`{"user": {"name": "Ada", "role": "admin", "age": 36}}`)

	s, err := LoadFile(suitePath)
	require.NoError(t, err)
	doc, err := LoadValues(valuesPath)
	require.NoError(t, err)

	run := NewEngine().Run(s, doc)

	assert.True(t, run.Passed(), "%+v", run.Results)
	assert.Equal(t, 3, run.Summary.Total)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "unsupported extension",
			file:    "suite.txt",
			content: "name: x",
			want:    "unsupported file format: .txt",
		},
		{
			name:    "malformed yaml",
			file:    "bad.yaml",
			content: "name: [unclosed",
			want:    "failed to parse YAML",
		},
		{
			name:    "malformed toml",
			file:    "bad.toml",
			content: "name = ",
			want:    "failed to parse TOML",
		},
		{
			name:    "missing name",
			file:    "noname.json",
			content: `{"assertions": []}`,
			want:    "does not match schema",
		},
		{
			name:    "unknown field",
			file:    "extra.json",
			content: `{"name": "x", "assertions": [{"type": "is_true", "expected": 1}]}`,
			want:    "does not match schema",
		},
		{
			name:    "negative delta",
			file:    "delta.yaml",
			content: "name: x\nassertions:\n  - type: equals\n    delta: -1\n",
			want:    "does not match schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, dir, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", jsonSuite)
	writeFile(t, dir, "a.yaml", yamlSuite)
	writeFile(t, dir, "notes.md", "# not a suite")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested"), "c.toml", tomlSuite)

	suites, err := LoadDir(dir)

	require.NoError(t, err)
	require.Len(t, suites, 2)
	assert.Equal(t, "users", suites[0].Name)
	assert.Equal(t, "counts", suites[1].Name)
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "suites")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "a.json", jsonSuite)
	single := writeFile(t, dir, "flags.toml", tomlSuite)

	suites, err := LoadPaths([]string{sub, single})

	require.NoError(t, err)
	require.Len(t, suites, 2)
	assert.Equal(t, "counts", suites[0].Name)
	assert.Equal(t, "flags", suites[1].Name)

	_, err = LoadPaths([]string{filepath.Join(dir, "nope")})
	assert.Error(t, err)
}

func TestLoadValues_Formats(t *testing.T) {
	dir := t.TempDir()
	want := map[string]any{
		"name":  "Ada",
		"langs": []any{"go", "sql"},
		"age":   float64(36),
	}

	files := map[string]string{
		"values.json": `{"name": "Ada", "langs": ["go", "sql"], "age": 36}`,
		"values.yaml": "name: Ada\nlangs: [go, sql]\nage: 36\n",
		"values.toml": "name = \"Ada\"\nlangs = [\"go\", \"sql\"]\nage = 36\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			doc, err := LoadValues(writeFile(t, dir, name, content))
			require.NoError(t, err)
			assert.Equal(t, want, doc)
		})
	}
}

func TestLoadValues_YAMLNonStringKeys(t *testing.T) {
	p := writeFile(t, t.TempDir(), "codes.yaml", "codes:\n  200: ok\n  404: missing\n")

	doc, err := LoadValues(p)

	require.NoError(t, err)
	v, ok := Resolve(doc, "codes.404")
	require.True(t, ok)
	assert.Equal(t, "missing", v)
}

func TestLoadFile_WithExpansion(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "expanded.yaml", `
name: ${SUITE}
assertions:
  - type: equals
    target: host
    value: ${HOST}
`)
	expand := strings.NewReplacer("${SUITE}", "hosts", "${HOST}", "db.local").Replace

	s, err := LoadFile(p, WithExpansion(expand))

	require.NoError(t, err)
	assert.Equal(t, "hosts", s.Name)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, "db.local", s.Assertions[0].Value)

	values := writeFile(t, dir, "values.json", `{"host": "${HOST}"}`)
	doc, err := LoadValues(values, WithExpansion(expand))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"host": "db.local"}, doc)
}

func TestLoadPaths_WithExpansionAppliesToDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"name": "${NAME}", "assertions": []}`)
	expand := strings.NewReplacer("${NAME}", "expanded").Replace

	suites, err := LoadPaths([]string{dir}, WithExpansion(expand), WithExpansion(nil))

	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, "expanded", suites[0].Name)
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{"json", `{"ok": true}`},
		{".yaml", "ok: true\n"},
		{"yml", "ok: true\n"},
		{"toml", "ok = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			doc, err := ParseValues([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"ok": true}, doc)
		})
	}
}

func TestParseValues_Errors(t *testing.T) {
	_, err := ParseValues([]byte("a: b"), "ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format: .ini")

	_, err = ParseValues([]byte("{"), "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode values")
}
