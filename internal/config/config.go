// Package config loads daemon settings from an optional TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sweeney/ledpad/internal/gpio"
	"github.com/sweeney/ledpad/internal/logic"
)

// Config is the full daemon configuration.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Source      string
	LogLevel    string

	GPIO     GPIO
	Joystick Joystick
}

// GPIO describes the digital lines.
type GPIO struct {
	Chip           string
	Left           int
	Right          int
	Red            int
	Green          int
	Blue           int
	LeftActiveLow  bool
	RightActiveLow bool
}

// Joystick describes the analog inputs and their cutoffs.
type Joystick struct {
	Device         string
	XChannel       int
	YChannel       int
	UpThreshold    uint16
	DownThreshold  uint16
	LeftThreshold  uint16
	RightThreshold uint16
}

// Default returns the built-in configuration.
func Default() Config {
	p := gpio.DefaultPins()
	th := logic.DefaultThresholds()
	return Config{
		PollMs:      10,
		DebounceMs:  20,
		HeartbeatMs: (15 * time.Minute).Milliseconds(),
		Broker:      "tcp://localhost:1883",
		HTTPAddr:    ":8080",
		Source:      string(logic.SourceBoth),
		LogLevel:    "info",
		GPIO: GPIO{
			Chip:           "gpiochip0",
			Left:           p.Left,
			Right:          p.Right,
			Red:            p.Red,
			Green:          p.Green,
			Blue:           p.Blue,
			LeftActiveLow:  true,
			RightActiveLow: true,
		},
		Joystick: Joystick{
			Device:         gpio.DefaultIIODevice,
			XChannel:       gpio.DefaultChannelX,
			YChannel:       gpio.DefaultChannelY,
			UpThreshold:    th.Up,
			DownThreshold:  th.Down,
			LeftThreshold:  th.Left,
			RightThreshold: th.Right,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return cfg, fmt.Errorf("config: unknown keys in %s: %v", path, undec)
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks cfg for values the daemon cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.PollMs <= 0 {
		errs = append(errs, fmt.Errorf("PollMs must be positive, got %d", c.PollMs))
	}
	if c.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("DebounceMs must be positive, got %d", c.DebounceMs))
	}
	if c.HeartbeatMs < 0 {
		errs = append(errs, fmt.Errorf("HeartbeatMs must not be negative, got %d", c.HeartbeatMs))
	}
	if _, err := logic.ParseSource(c.Source); err != nil {
		errs = append(errs, err)
	}

	pins := map[int]string{}
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"Left", c.GPIO.Left},
		{"Right", c.GPIO.Right},
		{"Red", c.GPIO.Red},
		{"Green", c.GPIO.Green},
		{"Blue", c.GPIO.Blue},
	} {
		if p.pin < 0 {
			errs = append(errs, fmt.Errorf("GPIO.%s must not be negative, got %d", p.name, p.pin))
			continue
		}
		if other, ok := pins[p.pin]; ok {
			errs = append(errs, fmt.Errorf("GPIO.%s and GPIO.%s share pin %d", other, p.name, p.pin))
			continue
		}
		pins[p.pin] = p.name
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Overlapping reports whether the X cutoffs leave no neutral zone
// (every sample classifies as left or right).
func (c Config) Overlapping() bool {
	return c.Joystick.LeftThreshold >= c.Joystick.RightThreshold
}

// Poll returns the polling interval.
func (c Config) Poll() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// Debounce returns the debounce window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Heartbeat returns the heartbeat interval (0 disables).
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

// Pins returns the GPIO line offsets.
func (c Config) Pins() gpio.Pins {
	return gpio.Pins{
		Left:  c.GPIO.Left,
		Right: c.GPIO.Right,
		Red:   c.GPIO.Red,
		Green: c.GPIO.Green,
		Blue:  c.GPIO.Blue,
	}
}

// Settings returns the controller settings. Call Validate first.
func (c Config) Settings() logic.Settings {
	src, _ := logic.ParseSource(c.Source)
	return logic.Settings{
		Debounce:       c.Debounce(),
		LeftActiveLow:  c.GPIO.LeftActiveLow,
		RightActiveLow: c.GPIO.RightActiveLow,
		Thresholds: logic.Thresholds{
			Up:    c.Joystick.UpThreshold,
			Down:  c.Joystick.DownThreshold,
			Left:  c.Joystick.LeftThreshold,
			Right: c.Joystick.RightThreshold,
		},
		Source: src,
	}
}
