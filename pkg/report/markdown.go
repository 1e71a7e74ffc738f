package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.assert/pkg/suite"
)

// MarkdownReporter renders suite runs as Markdown with failure
// messages in fenced blocks.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single run.
func (r *MarkdownReporter) GenerateReport(
	run *suite.SuiteResult,
) ([]byte, error) {
	var sb strings.Builder
	writeMarkdownRun(&sb, run, "#")
	return []byte(sb.String()), nil
}

// GenerateMasterSummary creates the master summary tables followed
// by the report of every run.
func (r *MarkdownReporter) GenerateMasterSummary(
	runs []*suite.SuiteResult,
) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(generateSummaryMarkdown(BuildMasterSummary(runs)))

	for _, run := range runs {
		sb.WriteString("\n")
		writeMarkdownRun(&sb, run, "##")
	}
	return []byte(sb.String()), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	run *suite.SuiteResult,
) error {
	return writeBytes(w, r.GenerateReport, run)
}

func writeMarkdownRun(sb *strings.Builder, run *suite.SuiteResult, h string) {
	fmt.Fprintf(sb, "%s Assertion Report: %s\n\n", h, run.Name)
	if run.Source != "" {
		fmt.Fprintf(sb, "**Source:** `%s`\n\n", run.Source)
	}
	fmt.Fprintf(sb, "**Started:** %s\n\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(sb, "**Status:** %s\n\n", strings.ToUpper(status(run)))

	fmt.Fprintf(sb, "%s# Summary\n\n", h)
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(sb, "| Total | %d |\n", run.Summary.Total)
	fmt.Fprintf(sb, "| Passed | %d |\n", run.Summary.Passed)
	fmt.Fprintf(sb, "| Failed | %d |\n", run.Summary.Failed)
	fmt.Fprintf(sb, "| Pass Rate | %.0f%% |\n", run.Summary.PassRate*100)
	fmt.Fprintf(sb, "| Duration | %v |\n", run.Duration)

	if len(run.Results) == 0 {
		return
	}

	fmt.Fprintf(sb, "\n%s# Assertions\n\n", h)
	sb.WriteString("| # | Type | Target | Status |\n")
	sb.WriteString("|---|------|--------|--------|\n")
	for i, res := range run.Results {
		fmt.Fprintf(sb, "| %d | %s | %s | %s |\n",
			i+1, escapeCell(res.Type), escapeCell(targetLabel(res.Target)),
			passLabel(res.Passed))
	}

	if run.Summary.Failed == 0 {
		return
	}

	fmt.Fprintf(sb, "\n%s# Failures\n", h)
	for i, res := range run.Results {
		if res.Passed {
			continue
		}
		fmt.Fprintf(sb, "\n%s## %d. %s `%s`\n\n",
			h, i+1, res.Type, targetLabel(res.Target))
		fence := fenceFor(res.Message)
		fmt.Fprintf(sb, "%s\n%s\n%s\n", fence, res.Message, fence)
	}
}

func passLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}

// fenceFor returns a backtick fence longer than any backtick run in
// s.
func fenceFor(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
