package logic

// Threshold defaults for a 14-bit converter (0..0x3FFF).
const (
	DefaultUpThreshold    = 0x3000
	DefaultDownThreshold  = 0x1000
	DefaultLeftThreshold  = 0x1200
	DefaultRightThreshold = 0x3000
)

// Thresholds are the fixed cutoffs used to classify joystick samples.
type Thresholds struct {
	Up    uint16
	Down  uint16
	Left  uint16
	Right uint16
}

// DefaultThresholds returns the built-in cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Up:    DefaultUpThreshold,
		Down:  DefaultDownThreshold,
		Left:  DefaultLeftThreshold,
		Right: DefaultRightThreshold,
	}
}

// Direction holds the four directional flags for one joystick sample.
type Direction struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Classify maps one X/Y sample pair onto directional flags.
// Right is checked before Left and Up before Down, so each axis reports at
// most one direction. All comparisons are strict.
func Classify(vx, vy uint16, th Thresholds) Direction {
	var d Direction

	if vx > th.Right {
		d.Right = true
	} else if vx < th.Left {
		d.Left = true
	}

	if vy > th.Up {
		d.Up = true
	} else if vy < th.Down {
		d.Down = true
	}

	return d
}

// String renders the direction for logs and status output.
func (d Direction) String() string {
	var v, h string
	if d.Up {
		v = "UP"
	} else if d.Down {
		v = "DOWN"
	}
	if d.Left {
		h = "LEFT"
	} else if d.Right {
		h = "RIGHT"
	}
	switch {
	case v == "" && h == "":
		return "CENTER"
	case v == "":
		return h
	case h == "":
		return v
	}
	return v + "_" + h
}
