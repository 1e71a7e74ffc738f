package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMasterSummary(t *testing.T) {
	summary := BuildMasterSummary(makeTestRuns())

	assert.Contains(t, summary.ID, "summary_")
	assert.False(t, summary.GeneratedAt.IsZero())
	assert.Equal(t, 2, summary.TotalSuites)
	assert.Equal(t, 1, summary.PassedSuites)
	assert.Equal(t, 1, summary.FailedSuites)
	assert.Equal(t, 3, summary.TotalAssertions)
	assert.Equal(t, 1, summary.FailedAssertions)
	assert.Equal(t, 6*time.Millisecond, summary.TotalDuration)
	assert.InDelta(t, 0.75, summary.AveragePassRate, 1e-9)

	require.Len(t, summary.Suites, 2)
	assert.Equal(t, SuiteSummary{
		Name:             "users",
		Source:           "suites/users.yaml",
		Status:           "failed",
		Duration:         5 * time.Millisecond,
		AssertionsPassed: 1,
		AssertionsTotal:  2,
	}, summary.Suites[0])
	assert.Equal(t, "passed", summary.Suites[1].Status)
}

func TestBuildMasterSummary_Empty(t *testing.T) {
	summary := BuildMasterSummary(nil)

	assert.Equal(t, 0, summary.TotalSuites)
	assert.Zero(t, summary.AveragePassRate)
	assert.NotNil(t, summary.Suites)
}

func TestSaveMasterSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	summary := BuildMasterSummary(makeTestRuns())

	require.NoError(t, SaveMasterSummary(summary, dir))

	ts := summary.GeneratedAt.Format("20060102_150405")
	data, err := os.ReadFile(filepath.Join(dir, "master_summary_"+ts+".json"))
	require.NoError(t, err)

	var decoded MasterSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.ID, decoded.ID)
	assert.Equal(t, 2, decoded.TotalSuites)

	md, err := os.ReadFile(filepath.Join(dir, "latest_summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| users | FAILED | 5ms | 1/2 |")
	assert.Contains(t, string(md), "| Pass Rate | 75% |")
}

func TestSaveMasterSummary_ReplacesLatestLinks(t *testing.T) {
	dir := t.TempDir()
	first := BuildMasterSummary(nil)
	first.GeneratedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := BuildMasterSummary(makeTestRuns())
	second.GeneratedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, SaveMasterSummary(first, dir))
	require.NoError(t, SaveMasterSummary(second, dir))

	target, err := os.Readlink(filepath.Join(dir, "latest_summary.json"))
	require.NoError(t, err)
	assert.Equal(t, "master_summary_20260102_000000.json", target)
}
