package logic

// Color is one state of the LED color machine. Each color maps to exactly
// one LED channel.
type Color string

const (
	Red   Color = "RED"
	Green Color = "GREEN"
	Blue  Color = "BLUE"
)

// Colors lists every channel in a fixed order.
var Colors = []Color{Red, Green, Blue}

// next[c] is the state reached from c on a left trigger,
// prev[c] the state reached on a right trigger.
var (
	next = map[Color]Color{Red: Green, Green: Blue, Blue: Red}
	prev = map[Color]Color{Red: Blue, Green: Red, Blue: Green}
)

// Transition describes one color change.
type Transition struct {
	From Color
	To   Color
}

// Toggles returns the two LED channels to toggle: outgoing, then incoming.
func (t Transition) Toggles() []Color {
	return []Color{t.From, t.To}
}

// ColorFSM holds the active color. The zero value is not usable; use
// NewColorFSM.
type ColorFSM struct {
	state Color
}

// NewColorFSM creates a machine in the RED state, matching the LED bank's
// power-on configuration.
func NewColorFSM() *ColorFSM {
	return &ColorFSM{state: Red}
}

// Step applies one tick's triggers. Left wins when both are set.
// Returns nil when no trigger fired.
func (f *ColorFSM) Step(left, right bool) *Transition {
	var to Color
	switch {
	case left:
		to = next[f.state]
	case right:
		to = prev[f.state]
	default:
		return nil
	}

	tr := &Transition{From: f.state, To: to}
	f.state = to
	return tr
}

// State returns the active color.
func (f *ColorFSM) State() Color {
	return f.state
}
