package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assertpkg "digital.vasic.assert/pkg/assert"
)

func TestDashboardData_UpdateFromEvent(t *testing.T) {
	d := NewDashboardData("run-1")

	d.UpdateFromEvent(passed("equals"))
	d.UpdateFromEvent(failed("equals", "first"))
	d.UpdateFromEvent(failed("contains", "second"))

	snap := d.Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	require.Contains(t, snap.Kinds, "equals")
	assert.Equal(t, 1, snap.Kinds["equals"].Passed)
	assert.Equal(t, 1, snap.Kinds["equals"].Failed)
	assert.Equal(t, "first", snap.Kinds["equals"].LastMessage)

	require.NotNil(t, snap.LastFailure)
	assert.Equal(t, "second", snap.LastFailure.Message)

	assert.Equal(t, 3, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.Passed)
	assert.Equal(t, 2, snap.Summary.Failed)
	assert.InDelta(t, 33.33, snap.Summary.PassRate, 0.01)
	assert.NotEmpty(t, snap.Summary.Elapsed)
}

func TestDashboardData_CaptureKindsAreSeparate(t *testing.T) {
	d := NewDashboardData("run-1")

	d.UpdateFromEvent(assertpkg.Event{Type: assertpkg.EventCapture, Kind: "throws", Passed: true})
	d.UpdateFromEvent(passed("throws"))

	snap := d.Snapshot()
	assert.Contains(t, snap.Kinds, "capture:throws")
	assert.Contains(t, snap.Kinds, "throws")
}

func TestDashboardData_SnapshotIsCopy(t *testing.T) {
	d := NewDashboardData("run-1")
	d.UpdateFromEvent(failed("equals", "x"))

	snap := d.Snapshot()
	snap.Kinds["equals"] = KindState{Kind: "changed"}
	snap.LastFailure.Message = "changed"

	again := d.Snapshot()
	assert.Equal(t, "equals", again.Kinds["equals"].Kind)
	assert.Equal(t, "x", again.LastFailure.Message)
}

func TestDashboardData_Empty(t *testing.T) {
	snap := NewDashboardData("run-1").Snapshot()

	assert.Empty(t, snap.Kinds)
	assert.Nil(t, snap.LastFailure)
	assert.Zero(t, snap.Summary.PassRate)
}

func TestBuildDashboardData(t *testing.T) {
	c := NewEventCollector()
	c.Observe(passed("equals"))
	c.Observe(failed("matches", "no match"))

	snap := BuildDashboardData(c).Snapshot()

	assert.Equal(t, "snapshot", snap.RunID)
	assert.Equal(t, 2, snap.Summary.Total)
	assert.Equal(t, 1, snap.Kinds["matches"].Failed)
}
