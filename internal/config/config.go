// Package config reads mazeband settings from the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// Environment variables read by FromEnv.
const (
	EnvWidth     = "MAZEBAND_WIDTH"
	EnvHeight    = "MAZEBAND_HEIGHT"
	EnvThreshold = "MAZEBAND_THRESHOLD"
	EnvSeed      = "MAZEBAND_SEED"
	EnvTick      = "MAZEBAND_TICK"
	EnvHold      = "MAZEBAND_HOLD"
	EnvTheme     = "MAZEBAND_THEME"
	EnvAddr      = "MAZEBAND_ADDR"
	EnvLogLevel  = "MAZEBAND_LOG_LEVEL"
	EnvLogFile   = "MAZEBAND_LOG_FILE"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds mazeband configuration options.
type Config struct {
	Width     int
	Height    int
	Threshold float64

	// Seed for random number generation. Used for reproducible mazes.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Tick is the delay between generator steps.
	Tick time.Duration
	// Hold is how long a finished maze stays up before the next run.
	Hold time.Duration

	Theme    string
	Addr     string
	LogLevel string
	// LogFile receives the terminal viewer's logs, since tcell owns the
	// terminal. Left empty, the viewer only keeps errors.
	LogFile string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:     20,
		Height:    20,
		Threshold: 0.999,
		Tick:      30 * time.Millisecond,
		Hold:      2 * time.Second,
		Theme:     "classic",
		Addr:      ":8080",
		LogLevel:  "info",
	}
}

// FromEnv returns Default overridden by any MAZEBAND_* variables that are
// set. When only the width is given the maze is square.
func FromEnv() (Config, error) {
	cfg := Default()

	width, ok, err := lookupInt(EnvWidth)
	if err != nil {
		return cfg, err
	}
	if ok {
		cfg.Width = width
		cfg.Height = width
	}

	if cfg.Height, _, err = intOr(EnvHeight, cfg.Height); err != nil {
		return cfg, err
	}

	if v, ok := os.LookupEnv(EnvThreshold); ok {
		cfg.Threshold, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvThreshold, v, err)
		}
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		cfg.Seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvSeed, v, err)
		}
	}

	if cfg.Tick, err = durationOr(EnvTick, cfg.Tick); err != nil {
		return cfg, err
	}
	if cfg.Hold, err = durationOr(EnvHold, cfg.Hold); err != nil {
		return cfg, err
	}

	if v, ok := os.LookupEnv(EnvTheme); ok && v != "" {
		cfg.Theme = v
	}
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	cfg.LogFile = os.Getenv(EnvLogFile)

	return cfg, cfg.Validate()
}

// Validate rejects settings the generator or drivers cannot work with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: maze size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	}
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v must be within [0, 1]", ErrInvalid, c.Threshold)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick %v must be positive", ErrInvalid, c.Tick)
	}
	if c.Hold < 0 {
		return fmt.Errorf("%w: hold %v must not be negative", ErrInvalid, c.Hold)
	}
	return nil
}

func lookupInt(key string) (int, bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q: %w", ErrInvalid, key, v, err)
	}
	return n, true, nil
}

func intOr(key string, fallback int) (int, bool, error) {
	n, ok, err := lookupInt(key)
	if err != nil || !ok {
		return fallback, false, err
	}
	return n, true, nil
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q: %w", ErrInvalid, key, v, err)
	}
	return d, nil
}
