package report

import (
	"io"

	"digital.vasic.assert/pkg/suite"
)

// JSONReporter renders suite runs as JSON.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single run.
func (r *JSONReporter) GenerateReport(
	run *suite.SuiteResult,
) ([]byte, error) {
	return r.marshal(run)
}

// jsonMasterSummary is the JSON structure for a master summary.
type jsonMasterSummary struct {
	*MasterSummary
	Runs []*suite.SuiteResult `json:"runs"`
}

// GenerateMasterSummary creates a JSON document holding the
// master summary and every run.
func (r *JSONReporter) GenerateMasterSummary(
	runs []*suite.SuiteResult,
) ([]byte, error) {
	if runs == nil {
		runs = []*suite.SuiteResult{}
	}
	return r.marshal(jsonMasterSummary{
		MasterSummary: BuildMasterSummary(runs),
		Runs:          runs,
	})
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	run *suite.SuiteResult,
) error {
	return writeBytes(w, r.GenerateReport, run)
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(v, "", "  ")
	}
	return jsonMarshal(v)
}
