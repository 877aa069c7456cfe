package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultIIODevice is the sysfs directory of the joystick ADC.
const DefaultIIODevice = "/sys/bus/iio/devices/iio:device0"

// Default ADC channels for the joystick axes.
const (
	DefaultChannelX = 0
	DefaultChannelY = 1
)

// AnalogChannel reads one raw conversion result from an IIO device.
type AnalogChannel struct {
	path string
}

// NewAnalogChannel returns a reader for in_voltage<ch>_raw under dir.
func NewAnalogChannel(dir string, ch int) *AnalogChannel {
	return &AnalogChannel{path: filepath.Join(dir, fmt.Sprintf("in_voltage%d_raw", ch))}
}

// Read returns the latest conversion result. Values wider than 16 bits are
// rejected; the range is otherwise trusted.
func (a *AnalogChannel) Read() (uint16, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", a.path, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", a.path, err)
	}
	return uint16(v), nil
}

// Path returns the sysfs file backing the channel.
func (a *AnalogChannel) Path() string {
	return a.path
}
