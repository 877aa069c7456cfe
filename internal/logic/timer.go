package logic

import "time"

// Timer is the countdown capability a Button uses to time its debounce window.
// Expiry is sampled by the caller; a Timer never calls back.
type Timer interface {
	// Start (re)starts the timer from zero.
	Start()
	// Elapsed returns the time since the last Start.
	// Before the first Start it returns 0.
	Elapsed() time.Duration
}

// ClockTimer is a Timer backed by an injected clock.
type ClockTimer struct {
	now     func() time.Time
	started time.Time
	running bool
}

// NewClockTimer creates a timer that reads the current time from now.
func NewClockTimer(now func() time.Time) *ClockTimer {
	return &ClockTimer{now: now}
}

// Start records the current time as the start of the window.
func (t *ClockTimer) Start() {
	t.started = t.now()
	t.running = true
}

// Elapsed returns the time since Start, or 0 if the timer was never started.
func (t *ClockTimer) Elapsed() time.Duration {
	if !t.running {
		return 0
	}
	return t.now().Sub(t.started)
}
