package gpio

import (
	"errors"
	"fmt"

	"github.com/sweeney/ledpad/internal/logic"
)

// FakeSampler is a test double that returns scripted samples.
type FakeSampler struct {
	// Samples contains scripted raw readings.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeSampler creates a FakeSampler with the given samples.
func NewFakeSampler(samples []Sample) *FakeSampler {
	return &FakeSampler{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSampler) Read() (Sample, error) {
	if f.ReadError != nil {
		return Sample{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the sampler as closed.
func (f *FakeSampler) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the sampler to the beginning of samples.
func (f *FakeSampler) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeLEDs records toggles and tracks channel levels.
type FakeLEDs struct {
	// Toggles lists every toggled channel in order.
	Toggles []logic.Color

	// Levels holds the current on/off state per channel.
	Levels map[logic.Color]bool

	// ToggleError, if set, will be returned by Toggle.
	ToggleError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLEDs creates a bank in the power-on configuration: red on.
func NewFakeLEDs() *FakeLEDs {
	f := &FakeLEDs{Levels: make(map[logic.Color]bool, len(logic.Colors))}
	for _, c := range logic.Colors {
		f.Levels[c] = initialLevel(c) == 1
	}
	return f
}

// Toggle records the toggle and flips the channel.
func (f *FakeLEDs) Toggle(c logic.Color) error {
	if f.ToggleError != nil {
		return f.ToggleError
	}
	if _, ok := f.Levels[c]; !ok {
		return fmt.Errorf("unknown led channel %q", c)
	}
	f.Toggles = append(f.Toggles, c)
	f.Levels[c] = !f.Levels[c]
	return nil
}

// Lit returns the channels currently on, in fixed order.
func (f *FakeLEDs) Lit() []logic.Color {
	var lit []logic.Color
	for _, c := range logic.Colors {
		if f.Levels[c] {
			lit = append(lit, c)
		}
	}
	return lit
}

// Close marks the bank as closed.
func (f *FakeLEDs) Close() error {
	f.Closed = true
	return nil
}
