// Package logic contains the pure input and LED state machines of the demo.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters or a Timer.
package logic

import "time"

// EventType identifies something the controller observed during a tick.
type EventType string

const (
	EventLeftPushed   EventType = "LEFT_PUSHED"
	EventRightPushed  EventType = "RIGHT_PUSHED"
	EventColorChanged EventType = "COLOR_CHANGED"
	EventMarkerMoved  EventType = "MARKER_MOVED"
)

// Event represents a controller event to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	// Color is the active color after the tick.
	Color Color
	// From is the previous color (COLOR_CHANGED only).
	From Color
	// Marker is the marker x position after the tick.
	Marker int
	// Moves is the move counter after the tick.
	Moves int
}

// Input represents a single raw sample of every input line.
type Input struct {
	LeftRaw  bool // raw pin level, before active-low inversion
	RightRaw bool
	X        uint16 // joystick X conversion result
	Y        uint16 // joystick Y conversion result
	Time     time.Time
}

// TriggerEvent is the pair of flags that drives the color FSM and the marker.
// It is computed fresh each tick and never stored.
type TriggerEvent struct {
	Left  bool
	Right bool
}

// Any reports whether either side fired.
func (t TriggerEvent) Any() bool {
	return t.Left || t.Right
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	LeftPushed   int
	RightPushed  int
	ColorChanged int
	MarkerMoved  int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
