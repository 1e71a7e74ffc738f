package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"digital.vasic.assert/pkg/suite"
)

// HTMLReporter renders suite runs as standalone HTML pages.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single run.
func (r *HTMLReporter) GenerateReport(
	run *suite.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	run *suite.SuiteResult,
) error {
	r.writeHeader(w, "Assertion Report: "+run.Name)
	r.writeRun(w, run, "h1", "h2")
	r.writeFooter(w)
	return nil
}

// GenerateMasterSummary creates an HTML page with the overview of
// all runs followed by each run's assertions.
func (r *HTMLReporter) GenerateMasterSummary(
	runs []*suite.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	summary := BuildMasterSummary(runs)

	r.writeHeader(&buf, "Assertion Suites - Master Summary")
	fmt.Fprintln(&buf, "<h1>Assertion Suites - Master Summary</h1>")
	fmt.Fprintf(&buf, "<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(&buf, "<h2>Overview</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Suite</th><th>Status</th>"+
		"<th>Assertions</th><th>Duration</th></tr>")
	for _, s := range summary.Suites {
		fmt.Fprintf(&buf,
			"<tr><td>%s</td><td class=\"%s\">%s</td>"+
				"<td>%d/%d</td><td>%v</td></tr>\n",
			html.EscapeString(s.Name), statusClass(s.Status == statusPassed),
			strings.ToUpper(s.Status), s.AssertionsPassed,
			s.AssertionsTotal, s.Duration)
	}
	fmt.Fprintln(&buf, "</table>")

	fmt.Fprintln(&buf, "<h2>Statistics</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(&buf, "<tr><td>Total Suites</td><td>%d</td></tr>\n", summary.TotalSuites)
	fmt.Fprintf(&buf, "<tr><td>Passed</td><td>%d</td></tr>\n", summary.PassedSuites)
	fmt.Fprintf(&buf, "<tr><td>Failed</td><td>%d</td></tr>\n", summary.FailedSuites)
	fmt.Fprintf(&buf, "<tr><td>Pass Rate</td><td>%.0f%%</td></tr>\n",
		summary.AveragePassRate*100)
	fmt.Fprintf(&buf, "<tr><td>Total Duration</td><td>%v</td></tr>\n",
		summary.TotalDuration)
	fmt.Fprintln(&buf, "</table>")

	for _, run := range runs {
		r.writeRun(&buf, run, "h2", "h3")
	}

	r.writeFooter(&buf)
	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeRun(
	w io.Writer,
	run *suite.SuiteResult,
	title, section string,
) {
	fmt.Fprintf(w, "<%s>Assertion Report: %s</%s>\n",
		title, html.EscapeString(run.Name), title)
	if run.Source != "" {
		fmt.Fprintf(w, "<p><strong>Source:</strong> <code>%s</code></p>\n",
			html.EscapeString(run.Source))
	}
	fmt.Fprintf(w,
		"<p><strong>Status:</strong> <span class=\"%s\">%s</span> "+
			"(%d/%d passed in %v)</p>\n",
		statusClass(run.Passed()), strings.ToUpper(status(run)),
		run.Summary.Passed, run.Summary.Total, run.Duration)

	if len(run.Results) == 0 {
		return
	}

	fmt.Fprintf(w, "<%s>Assertions</%s>\n", section, section)
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Type</th><th>Target</th>"+
		"<th>Predicate</th><th>Passed</th></tr>")
	for _, res := range run.Results {
		fmt.Fprintf(w,
			"<tr><td>%s</td><td>%s</td><td>%s</td>"+
				"<td class=\"%s\">%s</td></tr>\n",
			html.EscapeString(res.Type),
			html.EscapeString(targetLabel(res.Target)),
			html.EscapeString(res.Predicate),
			statusClass(res.Passed), passLabel(res.Passed))
		if !res.Passed {
			fmt.Fprintf(w,
				"<tr><td colspan=\"4\"><pre>%s</pre></td></tr>\n",
				html.EscapeString(res.Message))
		}
	}
	fmt.Fprintln(w, "</table>")
}

func statusClass(passed bool) string {
	if passed {
		return "status-passed"
	}
	return "status-failed"
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  max-width: 1080px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
}
h1 { border-bottom: 2px solid #3498db; padding-bottom: 10px; }
table { border-collapse: collapse; width: 100%%; margin: 10px 0; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #3498db; color: #fff; }
pre { margin: 0; white-space: pre-wrap; font-size: 0.9em; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer><p>Generated by assertcheck</p></footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
