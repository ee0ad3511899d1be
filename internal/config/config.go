// Package config provides the hexapod daemon configuration.
//
// The runtime-mutable gait state (period, stroke, steering, trim) lives in
// the gait coordinator; this package only carries the immutable startup
// configuration, built from compiled-in defaults with environment overrides.
package config

import (
	"os"
	"strconv"
	"time"
)

// Wemos D1 mini pin labels for the GPIOs the servos are wired to.
const (
	PinD5 = 14
	PinD6 = 12
	PinD7 = 13
)

// Servo holds the startup parameters for one leg servo.
type Servo struct {
	Pin        int
	Trim       int
	Amplitude  int
	PhaseShift int
}

// Config is the full daemon configuration. Treat it as immutable once built.
type Config struct {
	// Servos are the left, mid and right leg servos, in that order.
	Servos [3]Servo

	// PeriodMS is the initial oscillation period in milliseconds.
	PeriodMS int

	// SampleDelay is the pause between obstacle sensor readings.
	SampleDelay time.Duration

	// SampleWindow is the obstacle moving-average window size.
	SampleWindow int

	// TrimFile is the path trim calibration is persisted to.
	TrimFile string

	// Port is the HTTP/WebSocket listen port.
	Port string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Default returns the configuration matching the stock robot build.
func Default() Config {
	return Config{
		Servos: [3]Servo{
			{Pin: PinD5, Trim: 0, Amplitude: 30, PhaseShift: 0},
			{Pin: PinD6, Trim: 5, Amplitude: 10, PhaseShift: 90},
			{Pin: PinD7, Trim: 0, Amplitude: 30, PhaseShift: 0},
		},
		PeriodMS:     2000,
		SampleDelay:  10 * time.Millisecond,
		SampleWindow: 20,
		TrimFile:     "settings_trim.saved",
		Port:         "8080",
		LogLevel:     "info",
	}
}

// FromEnv returns the default configuration with any HEXAPOD_* environment
// overrides applied.
func FromEnv() Config {
	cfg := Default()
	cfg.Port = envStr("HEXAPOD_PORT", cfg.Port)
	cfg.LogLevel = envStr("HEXAPOD_LOG_LEVEL", cfg.LogLevel)
	cfg.TrimFile = envStr("HEXAPOD_TRIM_FILE", cfg.TrimFile)
	cfg.PeriodMS = envInt("HEXAPOD_PERIOD_MS", cfg.PeriodMS)
	cfg.SampleWindow = envInt("HEXAPOD_SAMPLE_WINDOW", cfg.SampleWindow)
	if ms := envInt("HEXAPOD_SAMPLE_DELAY_MS", 0); ms > 0 {
		cfg.SampleDelay = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
