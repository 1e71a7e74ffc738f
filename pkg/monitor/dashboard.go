package monitor

import (
	"sync"
	"time"

	"digital.vasic.assert/pkg/assert"
)

// DashboardData tracks per predicate-kind outcomes for live
// display. It is safe for concurrent use.
type DashboardData struct {
	mu          sync.RWMutex
	runID       string
	startTime   time.Time
	kinds       map[string]KindState
	lastFailure *assert.Event
}

// KindState holds the outcome counters of one predicate kind.
type KindState struct {
	Kind        string    `json:"kind"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	LastMessage string    `json:"last_message,omitempty"`
	LastSeen    time.Time `json:"last_seen"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// DashboardSnapshot is a point-in-time copy of DashboardData.
type DashboardSnapshot struct {
	RunID       string               `json:"run_id"`
	StartTime   time.Time            `json:"start_time"`
	Kinds       map[string]KindState `json:"kinds"`
	LastFailure *assert.Event        `json:"last_failure,omitempty"`
	Summary     DashboardSummary     `json:"summary"`
}

// NewDashboardData creates a new dashboard for the given run.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		runID:     runID,
		startTime: time.Now(),
		kinds:     make(map[string]KindState),
	}
}

// UpdateFromEvent updates the counters of the event's kind.
// Capture events are keyed "capture:<kind>" so they do not mix
// with predicate kinds of the same name.
func (d *DashboardData) UpdateFromEvent(event assert.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := event.Kind
	if event.Type == assert.EventCapture {
		key = "capture:" + event.Kind
	}

	state, exists := d.kinds[key]
	if !exists {
		state = KindState{Kind: key}
	}
	state.LastSeen = event.Timestamp

	if event.Passed {
		state.Passed++
	} else {
		state.Failed++
		state.LastMessage = event.Message
		e := event
		d.lastFailure = &e
	}

	d.kinds[key] = state
}

// Snapshot returns a copy of the current dashboard state with a
// freshly computed summary.
func (d *DashboardData) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardSnapshot{
		RunID:     d.runID,
		StartTime: d.startTime,
		Kinds:     make(map[string]KindState, len(d.kinds)),
	}
	for k, v := range d.kinds {
		snap.Kinds[k] = v
		snap.Summary.Passed += v.Passed
		snap.Summary.Failed += v.Failed
	}
	if d.lastFailure != nil {
		e := *d.lastFailure
		snap.LastFailure = &e
	}

	snap.Summary.Total = snap.Summary.Passed + snap.Summary.Failed
	if snap.Summary.Total > 0 {
		snap.Summary.PassRate = float64(snap.Summary.Passed) /
			float64(snap.Summary.Total) * 100
	}
	snap.Summary.Elapsed = time.Since(d.startTime).
		Round(time.Millisecond).String()
	return snap
}

// BuildDashboardData creates a DashboardData from an
// EventCollector by replaying its retained events.
func BuildDashboardData(collector *EventCollector) *DashboardData {
	data := NewDashboardData("snapshot")
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
