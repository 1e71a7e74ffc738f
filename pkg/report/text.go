package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"digital.vasic.assert/pkg/suite"
)

// TextReporter renders suite runs as styled terminal text.
type TextReporter struct {
	styles Styles
}

// NewTextReporter creates a text reporter using DefaultStyles.
func NewTextReporter() *TextReporter {
	return &TextReporter{styles: DefaultStyles()}
}

// GenerateReport renders a single run.
func (r *TextReporter) GenerateReport(
	run *suite.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes one line per assertion, the failure message
// indented below each failed one, and a summary line.
func (r *TextReporter) WriteReport(
	w io.Writer,
	run *suite.SuiteResult,
) error {
	s := r.styles

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", run.Name)))
	if run.Source != "" {
		fmt.Fprintln(w, s.SubHeader.Render("    "+run.Source))
	}

	if len(run.Results) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No assertions."))
	}
	for _, res := range run.Results {
		fmt.Fprintf(w, "  %s %s %s\n",
			s.Status(res.Passed), res.Type,
			s.Muted.Render(targetLabel(res.Target)))
		if res.Passed {
			continue
		}
		// Rendered per line: lipgloss pads multi-line blocks to a
		// common width.
		for _, line := range strings.Split(res.Message, "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintln(w, "       "+s.Message.Render(line))
		}
	}

	_, err := fmt.Fprintf(w, "%s %d assertion(s), %d passed, %d failed (%.0f%%) in %v\n",
		s.SummaryLabel.Render("Summary:"),
		run.Summary.Total, run.Summary.Passed, run.Summary.Failed,
		run.Summary.PassRate*100, run.Duration)
	return err
}

// GenerateMasterSummary renders every run followed by an overview
// table.
func (r *TextReporter) GenerateMasterSummary(
	runs []*suite.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	s := r.styles

	for _, run := range runs {
		if err := r.WriteReport(&buf, run); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
	}

	summary := BuildMasterSummary(runs)
	rows := make([][]string, 0, len(summary.Suites))
	for _, ss := range summary.Suites {
		rows = append(rows, []string{
			ss.Name,
			strings.ToUpper(ss.Status),
			fmt.Sprintf("%d/%d", ss.AssertionsPassed, ss.AssertionsTotal),
			ss.Duration.String(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		}).
		Headers("SUITE", "STATUS", "ASSERTIONS", "DURATION").
		Rows(rows...)

	fmt.Fprintln(&buf, t.Render())
	fmt.Fprintln(&buf, s.Header.Render(fmt.Sprintf(
		"%d suite(s), %d failed; %d assertion(s), %d failed",
		summary.TotalSuites, summary.FailedSuites,
		summary.TotalAssertions, summary.FailedAssertions)))

	return buf.Bytes(), nil
}
