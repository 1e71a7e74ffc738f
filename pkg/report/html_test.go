package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.assert/pkg/suite"
)

func TestHTMLReporter_GenerateReport(t *testing.T) {
	data, err := NewHTMLReporter().GenerateReport(makeTestRun())
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Assertion Report: users</title>")
	assert.Contains(t, out, "<h1>Assertion Report: users</h1>")
	assert.Contains(t, out, `<span class="status-failed">FAILED</span>`)
	assert.Contains(t, out, "<td>is equal to &lt;string:foo&gt;</td>")
	assert.Contains(t, out, "<pre>Failed asserting that &#39;bar&#39;")
	assert.Contains(t, out, "</html>")
}

func TestHTMLReporter_EscapesNames(t *testing.T) {
	run := &suite.SuiteResult{Name: "<script>"}

	var buf bytes.Buffer
	require.NoError(t, NewHTMLReporter().WriteReport(&buf, run))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestHTMLReporter_GenerateMasterSummary(t *testing.T) {
	data, err := NewHTMLReporter().GenerateMasterSummary(makeTestRuns())
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<h1>Assertion Suites - Master Summary</h1>")
	assert.Contains(t, out, "<td>1/2</td>")
	assert.Contains(t, out, "<tr><td>Total Suites</td><td>2</td></tr>")
	assert.Contains(t, out, "<h2>Assertion Report: flags</h2>")
	assert.Contains(t, out, "<tr><td>Pass Rate</td><td>75%</td></tr>")
}
