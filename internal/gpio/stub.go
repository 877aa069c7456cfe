//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/ledpad/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealSampler is not available on non-Linux platforms.
type RealSampler struct{}

// NewRealSampler returns an error on non-Linux platforms.
func NewRealSampler(chipName string, pins Pins, iioDir string, chX, chY int) (*RealSampler, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealSampler) Read() (Sample, error) {
	return Sample{}, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealSampler) Close() error {
	return nil
}

// RealLEDs is not available on non-Linux platforms.
type RealLEDs struct{}

// NewRealLEDs returns an error on non-Linux platforms.
func NewRealLEDs(chipName string, pins Pins) (*RealLEDs, error) {
	return nil, errUnsupported
}

// Toggle is not implemented on non-Linux platforms.
func (l *RealLEDs) Toggle(c logic.Color) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (l *RealLEDs) Close() error {
	return nil
}
