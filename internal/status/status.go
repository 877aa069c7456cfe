// Package status provides a thread-safe status tracker for the ledpad daemon.
// It is written by the polling loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/ledpad/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Source      string
}

// State is the controller state published on each tick.
type State struct {
	Color     logic.Color
	Marker    int
	Moves     int
	Left      logic.DebounceState
	Right     logic.DebounceState
	Direction logic.Direction
	Counts    logic.EventCounts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State
	StartTime     time.Time
	Now           time.Time
	Ticks         int64
	ReadErrors    int64
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State: State{
				Color:  logic.Red,
				Marker: logic.MarkerStart,
				Left:   logic.StableReleased,
				Right:  logic.StableReleased,
			},
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update stores the controller state after a tick.
func (t *Tracker) Update(s State) {
	t.mu.Lock()
	t.snap.State = s
	t.snap.Ticks++
	t.mu.Unlock()
}

// RecordReadError counts a failed sampler read.
func (t *Tracker) RecordReadError() {
	t.mu.Lock()
	t.snap.ReadErrors++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
