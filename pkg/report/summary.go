package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digital.vasic.assert/pkg/suite"
)

// MasterSummary represents an aggregated summary of all suite
// runs of an invocation.
type MasterSummary struct {
	ID               string         `json:"id"`
	GeneratedAt      time.Time      `json:"generated_at"`
	Suites           []SuiteSummary `json:"suites"`
	TotalSuites      int            `json:"total_suites"`
	PassedSuites     int            `json:"passed_suites"`
	FailedSuites     int            `json:"failed_suites"`
	TotalAssertions  int            `json:"total_assertions"`
	FailedAssertions int            `json:"failed_assertions"`
	TotalDuration    time.Duration  `json:"total_duration"`
	AveragePassRate  float64        `json:"average_pass_rate"`
}

// SuiteSummary represents a summary of a single run.
type SuiteSummary struct {
	Name             string        `json:"name"`
	Source           string        `json:"source,omitempty"`
	Status           string        `json:"status"`
	Duration         time.Duration `json:"duration"`
	AssertionsPassed int           `json:"assertions_passed"`
	AssertionsTotal  int           `json:"assertions_total"`
}

// BuildMasterSummary creates a master summary from suite runs.
// AveragePassRate is the mean of the per-suite pass rates.
func BuildMasterSummary(runs []*suite.SuiteResult) *MasterSummary {
	now := time.Now()
	summary := &MasterSummary{
		ID:          fmt.Sprintf("summary_%s", now.Format("20060102_150405")),
		GeneratedAt: now,
		Suites:      make([]SuiteSummary, 0, len(runs)),
	}

	var rates float64
	for _, r := range runs {
		summary.Suites = append(summary.Suites, SuiteSummary{
			Name:             r.Name,
			Source:           r.Source,
			Status:           status(r),
			Duration:         r.Duration,
			AssertionsPassed: r.Summary.Passed,
			AssertionsTotal:  r.Summary.Total,
		})
		summary.TotalSuites++
		summary.TotalDuration += r.Duration
		summary.TotalAssertions += r.Summary.Total
		summary.FailedAssertions += r.Summary.Failed
		rates += r.Summary.PassRate

		if r.Passed() {
			summary.PassedSuites++
		} else {
			summary.FailedSuites++
		}
	}

	if summary.TotalSuites > 0 {
		summary.AveragePassRate = rates / float64(summary.TotalSuites)
	}

	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory and points the
// latest_summary links at them.
func SaveMasterSummary(
	summary *MasterSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir, fmt.Sprintf("master_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(
		outputDir, fmt.Sprintf("master_summary_%s.md", ts),
	)
	if err := os.WriteFile(
		mdPath, []byte(generateSummaryMarkdown(summary)), 0o644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// generateSummaryMarkdown creates the overview and statistics
// tables of a master summary.
func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# Assertion Suites - Master Summary\n\n")
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Suite | Status | Duration | Assertions |\n")
	sb.WriteString("|-------|--------|----------|------------|\n")

	for _, s := range summary.Suites {
		fmt.Fprintf(&sb, "| %s | %s | %v | %d/%d |\n",
			escapeCell(s.Name), strings.ToUpper(s.Status),
			s.Duration, s.AssertionsPassed, s.AssertionsTotal)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Suites | %d |\n", summary.TotalSuites)
	fmt.Fprintf(&sb, "| Passed | %d |\n", summary.PassedSuites)
	fmt.Fprintf(&sb, "| Failed | %d |\n", summary.FailedSuites)
	fmt.Fprintf(&sb, "| Assertions | %d |\n", summary.TotalAssertions)
	fmt.Fprintf(&sb, "| Failed Assertions | %d |\n", summary.FailedAssertions)
	fmt.Fprintf(&sb, "| Pass Rate | %.0f%% |\n", summary.AveragePassRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", summary.TotalDuration)

	return sb.String()
}
