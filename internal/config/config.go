// Package config loads runtime settings: built-in defaults, then an optional
// YAML file, then NEONGRID_* environment variables. Command-line flags are
// applied last by the binaries themselves.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "NEONGRID_"

// Window is the desktop window size in device-independent pixels.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Settings holds every tunable the binaries expose.
type Settings struct {
	Seed             int64         `yaml:"seed"` // 0 = seed from the wall clock
	UpdateInterval   time.Duration `yaml:"update_interval"`
	TransmitInterval time.Duration `yaml:"transmit_interval"`
	WheelSensitivity float64       `yaml:"wheel_sensitivity"`
	Window           Window        `yaml:"window"`
	TPS              int           `yaml:"tps"`
	UplinkAddr       string        `yaml:"uplink_addr"` // empty disables the uplink
	LogLevel         string        `yaml:"log_level"`
	JournalCap       int           `yaml:"journal_cap"`
}

// Default returns the settings used when nothing overrides them.
func Default() Settings {
	return Settings{
		UpdateInterval:   1500 * time.Millisecond,
		TransmitInterval: 3 * time.Second,
		WheelSensitivity: 0.002,
		Window:           Window{Width: 1280, Height: 800},
		TPS:              60,
		LogLevel:         "info",
		JournalCap:       2000,
	}
}

// Load returns defaults overlaid with the YAML file at path. An empty path or a
// missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}

// ApplyEnv overlays NEONGRID_* variables found through lookup (os.LookupEnv
// in production). Unparsable values are reported, not ignored.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	var errs []error

	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			s.Seed = n
		}
	}
	for key, dst := range map[string]*time.Duration{
		"UPDATE_INTERVAL":   &s.UpdateInterval,
		"TRANSMIT_INTERVAL": &s.TransmitInterval,
	} {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				continue
			}
			*dst = d
		}
	}
	if v, ok := get("WHEEL_SENSITIVITY"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sWHEEL_SENSITIVITY: %w", EnvPrefix, err))
		} else {
			s.WheelSensitivity = f
		}
	}
	for key, dst := range map[string]*int{
		"TPS":           &s.TPS,
		"JOURNAL_CAP":   &s.JournalCap,
		"WINDOW_WIDTH":  &s.Window.Width,
		"WINDOW_HEIGHT": &s.Window.Height,
	} {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				continue
			}
			*dst = n
		}
	}
	if v, ok := get("UPLINK_ADDR"); ok {
		s.UplinkAddr = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		s.LogLevel = v
	}
	return errors.Join(errs...)
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update_interval must be positive, got %s", s.UpdateInterval))
	}
	if s.TransmitInterval <= 0 {
		errs = append(errs, fmt.Errorf("transmit_interval must be positive, got %s", s.TransmitInterval))
	}
	if s.WheelSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("wheel_sensitivity must be positive, got %g", s.WheelSensitivity))
	}
	if s.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", s.TPS))
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window must be positive, got %dx%d", s.Window.Width, s.Window.Height))
	}
	if s.JournalCap < 0 {
		errs = append(errs, fmt.Errorf("journal_cap must not be negative, got %d", s.JournalCap))
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog level. Unknown names fall back to Info;
// Validate reports them.
func (s Settings) SlogLevel() slog.Level {
	l, err := parseLevel(s.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", name)
}
