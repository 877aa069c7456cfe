package logic

import "time"

// DebounceState is the state of a single button's debounce machine.
type DebounceState string

const (
	StableReleased   DebounceState = "STABLE_RELEASED"
	PossiblyPressed  DebounceState = "POSSIBLY_PRESSED"
	StablePressed    DebounceState = "STABLE_PRESSED"
	PossiblyReleased DebounceState = "POSSIBLY_RELEASED"
)

// Button turns a bouncing raw level into one push event per
// press-then-release cycle.
type Button struct {
	name      string
	activeLow bool
	window    time.Duration
	timer     Timer

	state DebounceState
	// last confirmed logical level, true = pressed
	stable bool
}

// NewButton creates a button in the STABLE_RELEASED state.
// When activeLow is set, a raw low level means pressed.
func NewButton(name string, window time.Duration, timer Timer, activeLow bool) *Button {
	return &Button{
		name:      name,
		activeLow: activeLow,
		window:    window,
		timer:     timer,
		state:     StableReleased,
	}
}

// Step feeds one raw pin level into the debounce machine.
// It returns true only on the tick where a release is confirmed after a
// confirmed press.
func (b *Button) Step(raw bool) bool {
	pressed := raw != b.activeLow

	switch b.state {
	case StableReleased:
		if pressed {
			b.timer.Start()
			b.state = PossiblyPressed
		}

	case PossiblyPressed:
		if !pressed {
			// Bounce, back to where we were
			b.state = StableReleased
			return false
		}
		if b.expired() {
			b.state = StablePressed
			b.stable = true
		}

	case StablePressed:
		if !pressed {
			b.timer.Start()
			b.state = PossiblyReleased
		}

	case PossiblyReleased:
		if pressed {
			b.state = StablePressed
			return false
		}
		if b.expired() {
			b.state = StableReleased
			b.stable = false
			return true
		}
	}

	return false
}

func (b *Button) expired() bool {
	return b.timer.Elapsed() >= b.window
}

// Name returns the button's name.
func (b *Button) Name() string {
	return b.name
}

// State returns the current debounce state.
func (b *Button) State() DebounceState {
	return b.state
}

// Pressed returns the last confirmed logical level.
func (b *Button) Pressed() bool {
	return b.stable
}
