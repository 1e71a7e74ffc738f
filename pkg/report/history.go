package report

import (
	"fmt"
	"os"
	"time"

	"digital.vasic.assert/pkg/suite"
)

// HistoricalEntry represents a single suite run in the
// historical log.
type HistoricalEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	Suite            string    `json:"suite"`
	Source           string    `json:"source,omitempty"`
	Status           string    `json:"status"`
	Duration         string    `json:"duration"`
	AssertionsPassed int       `json:"assertions_passed"`
	AssertionsTotal  int       `json:"assertions_total"`
}

// AppendToHistory adds an entry to the historical log stored
// at historyPath. Each entry is a single JSON line.
func AppendToHistory(historyPath string, run *suite.SuiteResult) error {
	entry := HistoricalEntry{
		Timestamp:        run.StartedAt.Add(run.Duration),
		Suite:            run.Name,
		Source:           run.Source,
		Status:           status(run),
		Duration:         run.Duration.String(),
		AssertionsPassed: run.Summary.Passed,
		AssertionsTotal:  run.Summary.Total,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
