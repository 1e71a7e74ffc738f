package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingSuite = `
name: users
assertions:
  - type: equals
    target: user.name
    value: Ada
  - type: is_greater_than
    target: user.age
    value: 18
`

const failingSuite = `{
  "name": "roles",
  "assertions": [
    {"type": "equals", "target": "user.role", "value": "foo"}
  ]
}`

const values = `
[user]
name = "Ada"
age = 36
role = "bar"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestExecute_RunPassing(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yaml", passingSuite)
	valuesPath := writeFile(t, dir, "values.toml", values)

	var stdout, stderr bytes.Buffer
	code := execute([]string{"run", "--values", valuesPath, suitePath}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "=== users ===")
	assert.Contains(t, stdout.String(), "2 assertion(s), 2 passed, 0 failed")
}

func TestExecute_RunFailing(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "roles.json", failingSuite)
	valuesPath := writeFile(t, dir, "values.toml", values)

	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"run", "--values", valuesPath, "--format", "markdown", suitePath,
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(),
		"Failed asserting that 'bar' is equal to <string:foo>.\n"+
			"--- Expected\n+++ Actual\n@@ @@\n-'foo'\n+'bar'")
	assert.NotContains(t, stderr.String(), "assertions failed")
}

func TestExecute_UnknownCommandFails(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := execute([]string{"bogus"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestRunSuites_DirectoryWithMasterSummary(t *testing.T) {
	dir := t.TempDir()
	suites := filepath.Join(dir, "suites")
	require.NoError(t, os.Mkdir(suites, 0o755))
	writeFile(t, suites, "a_users.yaml", passingSuite)
	writeFile(t, suites, "b_roles.json", failingSuite)
	valuesPath := writeFile(t, dir, "values.toml", values)
	outDir := filepath.Join(dir, "out")
	historyPath := filepath.Join(dir, "history.jsonl")
	logPath := filepath.Join(dir, "run.log")

	var stdout, stderr bytes.Buffer
	err := runSuites(context.Background(), runParams{
		paths:       []string{suites},
		valuesPath:  valuesPath,
		format:      "json",
		pretty:      false,
		logFile:     logPath,
		verbose:     true,
		outputDir:   outDir,
		historyPath: historyPath,
		parallel:    2,
		stdout:      &stdout,
		stderr:      &stderr,
	})

	require.ErrorIs(t, err, errAssertionsFailed)

	var decoded struct {
		TotalSuites  int `json:"total_suites"`
		FailedSuites int `json:"failed_suites"`
		Runs         []struct {
			Name string `json:"name"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.TotalSuites)
	assert.Equal(t, 1, decoded.FailedSuites)
	require.Len(t, decoded.Runs, 2)
	assert.Equal(t, "users", decoded.Runs[0].Name)

	_, err = os.Stat(filepath.Join(outDir, "latest_summary.json"))
	assert.NoError(t, err)

	history, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(history), "\n"))

	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logs), `"message":"suite finished"`)
	assert.Contains(t, string(logs), `"message":"assertion failed"`)
	assert.Contains(t, string(logs), `"message":"metrics collected"`)
	assert.Contains(t, string(logs), `"suite_failures":1`)
	assert.Contains(t, stderr.String(), "run complete")
}

func TestRunSuites_Errors(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yaml", passingSuite)
	emptyDir := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(emptyDir, 0o755))

	tests := []struct {
		name string
		p    runParams
		want string
	}{
		{
			name: "unknown format",
			p:    runParams{paths: []string{suitePath}, format: "pdf"},
			want: "unknown report format: pdf",
		},
		{
			name: "missing suite",
			p:    runParams{paths: []string{filepath.Join(dir, "nope.yaml")}, format: "text"},
			want: "failed to stat",
		},
		{
			name: "no suites",
			p:    runParams{paths: []string{emptyDir}, format: "text"},
			want: "no suite files found",
		},
		{
			name: "missing values",
			p: runParams{
				paths:      []string{suitePath},
				valuesPath: filepath.Join(dir, "nope.json"),
				format:     "text",
			},
			want: "failed to read",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			tt.p.stdout, tt.p.stderr = &stdout, &stderr

			err := runSuites(context.Background(), tt.p)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "users.yaml", passingSuite)

	var stdout bytes.Buffer
	require.NoError(t, runValidate([]string{good}, &stdout))
	assert.Contains(t, stdout.String(), "ok  "+good+" (2 assertions)")
}

func TestRunValidate_RejectsUnbuildableAssertion(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml",
		"name: bad\nassertions:\n  - type: is_of_size\n    value: -2\n")

	var stdout bytes.Buffer
	err := runValidate([]string{bad}, &stdout)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion 0: assertion is_of_size")
}

func TestRunValidate_RejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"name": "x", "assertions": [{"value": 1}]}`)

	err := runValidate([]string{bad}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestExecute_Schema(t *testing.T) {
	var stdout bytes.Buffer

	code := execute([]string{"schema"}, &stdout, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	assert.True(t, json.Valid(stdout.Bytes()))
}

func TestExecute_Types(t *testing.T) {
	var stdout bytes.Buffer

	code := execute([]string{"types"}, &stdout, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Contains(t, lines, "equals")
	assert.Contains(t, lines, "all")
	assert.Contains(t, lines, "matches")
}

func TestRunServe_EvaluatesUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yaml", passingSuite)
	valuesPath := writeFile(t, dir, "values.toml", values)
	logPath := filepath.Join(dir, "serve.log")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var stderr bytes.Buffer
	err := runServe(ctx, serveParams{
		paths:      []string{suitePath},
		valuesPath: valuesPath,
		addr:       "127.0.0.1:0",
		interval:   50 * time.Millisecond,
		logFile:    logPath,
		stderr:     &stderr,
	})

	require.NoError(t, err)
	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, strings.Count(string(logs), `"message":"suite finished"`), 2)
}

func TestRunServe_InvalidInterval(t *testing.T) {
	err := runServe(context.Background(), serveParams{
		paths:  []string{"x"},
		stderr: &bytes.Buffer{},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid interval")
}

func TestExecute_RunExpandsEnvFile(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "roles.yaml", `
name: roles
assertions:
  - type: equals
    target: user.role
    value: ${EXPECTED_ROLE}
`)
	valuesPath := writeFile(t, dir, "values.toml", values)
	envPath := writeFile(t, dir, ".env", "EXPECTED_ROLE=bar\n")

	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"run", "--values", valuesPath, "--env-file", envPath, suitePath,
	}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "1 assertion(s), 1 passed, 0 failed")
}

func TestExecute_ValidateMissingEnvFile(t *testing.T) {
	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yaml", passingSuite)

	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"validate", "--env-file", filepath.Join(dir, "missing.env"), suitePath,
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "open env file")
}

func TestExecute_RunFetchesRemoteValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/toml")
		w.Write([]byte(values))
	}))
	defer srv.Close()

	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yaml", passingSuite)

	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"run", "--values", srv.URL + "/values", "--values-token", "s3cret", suitePath,
	}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "2 assertion(s), 2 passed, 0 failed")
}

func TestExecute_RunRemoteValuesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dir := t.TempDir()
	suitePath := writeFile(t, dir, "users.yaml", passingSuite)

	var stdout, stderr bytes.Buffer
	code := execute([]string{"run", "--values", srv.URL, suitePath}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to fetch values")
	assert.Contains(t, stderr.String(), "HTTP 410")
}
