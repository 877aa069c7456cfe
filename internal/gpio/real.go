//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/ledpad/internal/logic"
)

// RealSampler reads buttons from the GPIO character device and the joystick
// from an IIO ADC.
type RealSampler struct {
	chip  *gpiocdev.Chip
	left  *gpiocdev.Line
	right *gpiocdev.Line
	x     *AnalogChannel
	y     *AnalogChannel
}

// NewRealSampler requests both button lines as inputs with pull-up (buttons
// short to ground) and opens the joystick channels under iioDir.
func NewRealSampler(chipName string, pins Pins, iioDir string, chX, chY int) (*RealSampler, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	left, err := chip.RequestLine(pins.Left, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request left pin %d: %w", pins.Left, err)
	}

	right, err := chip.RequestLine(pins.Right, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		left.Close()
		chip.Close()
		return nil, fmt.Errorf("request right pin %d: %w", pins.Right, err)
	}

	return &RealSampler{
		chip:  chip,
		left:  left,
		right: right,
		x:     NewAnalogChannel(iioDir, chX),
		y:     NewAnalogChannel(iioDir, chY),
	}, nil
}

// Read returns raw levels (1 = true) and the joystick conversion results.
func (r *RealSampler) Read() (Sample, error) {
	var s Sample

	lv, err := r.left.Value()
	if err != nil {
		return s, fmt.Errorf("read left pin: %w", err)
	}
	rv, err := r.right.Value()
	if err != nil {
		return s, fmt.Errorf("read right pin: %w", err)
	}
	s.Left = lv != 0
	s.Right = rv != 0

	if s.X, err = r.x.Read(); err != nil {
		return s, fmt.Errorf("read joystick x: %w", err)
	}
	if s.Y, err = r.y.Read(); err != nil {
		return s, fmt.Errorf("read joystick y: %w", err)
	}
	return s, nil
}

// Close releases the button lines and the chip.
func (r *RealSampler) Close() error {
	var errs []error
	if r.left != nil {
		if err := r.left.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close left pin: %w", err))
		}
	}
	if r.right != nil {
		if err := r.right.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close right pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealLEDs drives the three LED channels as GPIO outputs.
type RealLEDs struct {
	chip   *gpiocdev.Chip
	lines  map[logic.Color]*gpiocdev.Line
	levels map[logic.Color]int
}

// NewRealLEDs requests the LED lines as outputs: red on, green and blue off.
func NewRealLEDs(chipName string, pins Pins) (*RealLEDs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	l := &RealLEDs{
		chip:   chip,
		lines:  make(map[logic.Color]*gpiocdev.Line, len(logic.Colors)),
		levels: make(map[logic.Color]int, len(logic.Colors)),
	}
	offsets := map[logic.Color]int{
		logic.Red:   pins.Red,
		logic.Green: pins.Green,
		logic.Blue:  pins.Blue,
	}
	for _, c := range logic.Colors {
		v := initialLevel(c)
		line, err := chip.RequestLine(offsets[c], gpiocdev.AsOutput(v))
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("request %s led pin %d: %w", c, offsets[c], err)
		}
		l.lines[c] = line
		l.levels[c] = v
	}
	return l, nil
}

// Toggle inverts one LED channel.
func (l *RealLEDs) Toggle(c logic.Color) error {
	line, ok := l.lines[c]
	if !ok {
		return fmt.Errorf("unknown led channel %q", c)
	}
	v := 1 - l.levels[c]
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("toggle %s led: %w", c, err)
	}
	l.levels[c] = v
	return nil
}

// Close switches every LED off and releases the lines.
func (l *RealLEDs) Close() error {
	var errs []error
	for c, line := range l.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("switch off %s led: %w", c, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s led: %w", c, err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
