package monitor

import (
	"sync"
	"time"

	"digital.vasic.assert/pkg/assert"
)

// DefaultCapacity is the number of events an EventCollector keeps
// unless configured otherwise.
const DefaultCapacity = 1024

// EventCollector records assertion events and fans them out to
// handlers. Plug it into an Asserter with
// assert.WithObserver(collector.Observe).
type EventCollector struct {
	mu       sync.RWMutex
	events   []assert.Event
	capacity int
	handlers []func(assert.Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics over every observed
// event, including events no longer retained.
type CollectorStats struct {
	Total      int           `json:"total"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
	Assertions int           `json:"assertions"`
	Captures   int           `json:"captures"`
	StartTime  time.Time     `json:"start_time"`
	Duration   time.Duration `json:"duration"`
}

// NewEventCollector creates a collector retaining the latest
// capacity events. A capacity below 1 means DefaultCapacity.
func NewEventCollector(capacity ...int) *EventCollector {
	c := DefaultCapacity
	if len(capacity) > 0 && capacity[0] > 0 {
		c = capacity[0]
	}
	return &EventCollector{
		events:   make([]assert.Event, 0, min(c, 64)),
		capacity: c,
		stats:    CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(assert.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Observe records an event and notifies all handlers outside the
// collector's lock.
func (c *EventCollector) Observe(event assert.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	if len(c.events) == c.capacity {
		copy(c.events, c.events[1:])
		c.events = c.events[:len(c.events)-1]
	}
	c.events = append(c.events, event)

	c.stats.Total++
	if event.Passed {
		c.stats.Passed++
	} else {
		c.stats.Failed++
	}
	switch event.Type {
	case assert.EventAssertion:
		c.stats.Assertions++
	case assert.EventCapture:
		c.stats.Captures++
	}
	handlers := make([]func(assert.Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// Events returns a copy of the retained events, oldest first.
func (c *EventCollector) Events() []assert.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]assert.Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics. Handlers stay
// registered.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
