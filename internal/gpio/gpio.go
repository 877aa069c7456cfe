// Package gpio provides the peripheral boundary: button and joystick sampling
// and the tri-color LED bank.
// The real implementation uses the Linux GPIO character device and IIO sysfs.
// The fake implementation allows testing without hardware.
package gpio

import "github.com/sweeney/ledpad/internal/logic"

// Sample is one raw reading of every input.
type Sample struct {
	Left  bool   // raw left button level
	Right bool   // raw right button level
	X     uint16 // joystick X conversion result
	Y     uint16 // joystick Y conversion result
}

// Sampler reads the raw input lines.
type Sampler interface {
	// Read returns raw, uninverted levels and raw analog samples.
	Read() (Sample, error)

	// Close releases hardware resources.
	Close() error
}

// LEDBank drives the three LED channels.
type LEDBank interface {
	// Toggle inverts one channel.
	Toggle(c logic.Color) error

	// Close releases hardware resources.
	Close() error
}

// Default line offsets on gpiochip0 (BCM numbering).
const (
	DefaultPinLeft  = 17
	DefaultPinRight = 27
	DefaultPinRed   = 22
	DefaultPinGreen = 23
	DefaultPinBlue  = 24
)

// Pins groups the line offsets used by the real implementation.
type Pins struct {
	Left  int
	Right int
	Red   int
	Green int
	Blue  int
}

// DefaultPins returns the default wiring.
func DefaultPins() Pins {
	return Pins{
		Left:  DefaultPinLeft,
		Right: DefaultPinRight,
		Red:   DefaultPinRed,
		Green: DefaultPinGreen,
		Blue:  DefaultPinBlue,
	}
}

// initialLevel returns the power-on level of a channel: red on, others off.
func initialLevel(c logic.Color) int {
	if c == logic.Red {
		return 1
	}
	return 0
}
