// Package monitor collects assertion events and streams them to
// live dashboards over WebSocket.
package monitor

import "digital.vasic.assert/pkg/assert"

// FrameType identifies the payload of a Frame.
type FrameType string

const (
	// FrameDashboard carries a dashboard snapshot. It is the first
	// frame every client receives.
	FrameDashboard FrameType = "dashboard"
	// FrameEvent carries one assertion event.
	FrameEvent FrameType = "event"
)

// Frame is one message of the live stream.
type Frame struct {
	Type      FrameType          `json:"type"`
	Dashboard *DashboardSnapshot `json:"dashboard,omitempty"`
	Event     *assert.Event      `json:"event,omitempty"`
}
