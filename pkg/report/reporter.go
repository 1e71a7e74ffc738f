// Package report renders suite runs as text, JSON, Markdown or
// HTML.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"digital.vasic.assert/pkg/suite"
)

// Reporter defines the interface for rendering suite runs.
type Reporter interface {
	// GenerateReport renders a single suite run.
	GenerateReport(run *suite.SuiteResult) ([]byte, error)

	// GenerateMasterSummary renders every run of an invocation
	// followed by the totals.
	GenerateMasterSummary(runs []*suite.SuiteResult) ([]byte, error)

	// WriteReport writes the report of a single run to w.
	WriteReport(w io.Writer, run *suite.SuiteResult) error
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "json", "markdown", "html"}

// New returns the reporter for the named format. pretty only
// affects JSON output.
func New(format string, pretty bool) (Reporter, error) {
	switch format {
	case "text", "":
		return NewTextReporter(), nil
	case "json":
		return NewJSONReporter(pretty), nil
	case "markdown", "md":
		return NewMarkdownReporter(), nil
	case "html":
		return NewHTMLReporter(), nil
	}
	return nil, fmt.Errorf("unknown report format: %s", format)
}

// Replaced in tests to exercise marshal failures.
var (
	jsonMarshal       = json.Marshal
	jsonMarshalIndent = json.MarshalIndent
)

const (
	statusPassed = "passed"
	statusFailed = "failed"
)

func status(run *suite.SuiteResult) string {
	if run.Passed() {
		return statusPassed
	}
	return statusFailed
}

func targetLabel(target string) string {
	if target == "" {
		return "(document)"
	}
	return target
}

func writeBytes(
	w io.Writer,
	generate func(*suite.SuiteResult) ([]byte, error),
	run *suite.SuiteResult,
) error {
	data, err := generate(run)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
