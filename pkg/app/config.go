// Package app wires a scripted pointer, its dashboard and an optional
// collector relay into one process.
package app

import (
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/focus"
	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Config holds all configuration for the gaze application.
// Flag parsing is done in cmd/gaze/main.go; this struct is data only.
type Config struct {
	// Debug enables debug logging.
	Debug bool

	// Pointer names the pointer on the dashboard and collector.
	Pointer string

	// Threshold is the dwell time in seconds before a target is selected.
	Threshold float64

	// TickInterval is the frame period of the pointer loop.
	TickInterval time.Duration

	// StatusInterval is how often status is pushed to dashboard clients
	// and the collector.
	StatusInterval time.Duration

	// Port serves the dashboard. Empty disables it.
	Port string

	// CollectorURL is the collector base URL. Empty disables relaying.
	CollectorURL string

	// ScriptPath is a YAML timeline. Empty plays the built-in demo.
	ScriptPath string

	// Explicit names the flags given on the command line ("pointer",
	// "threshold", "port", "collector"). LoadEnvConfig leaves them alone
	// even when they equal the default.
	Explicit map[string]bool
}

// DefaultConfig returns sensible defaults for the gaze application.
func DefaultConfig() Config {
	return Config{
		Pointer:        config.DefaultPointer,
		Threshold:      focus.DefaultThreshold,
		TickInterval:   50 * time.Millisecond,
		StatusInterval: 250 * time.Millisecond,
		Port:           config.DefaultPort,
	}
}

// LoadEnvConfig applies GAZE_* environment overrides to settings that
// were neither given explicitly nor changed from their defaults.
func (c *Config) LoadEnvConfig() error {
	defaults := DefaultConfig()

	if c.fromEnv("pointer", c.Pointer == defaults.Pointer) {
		c.Pointer = config.PointerName()
	}
	if c.fromEnv("port", c.Port == defaults.Port) {
		c.Port = config.Port()
	}
	if c.fromEnv("collector", c.CollectorURL == "") {
		c.CollectorURL = config.CollectorURL()
	}
	if c.fromEnv("threshold", c.Threshold == defaults.Threshold) {
		t, err := config.Threshold()
		if err != nil {
			return &ConfigError{Field: "Threshold", Message: err.Error()}
		}
		c.Threshold = t
	}
	return nil
}

func (c *Config) fromEnv(name string, isDefault bool) bool {
	return isDefault && !c.Explicit[name]
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.pointerConfig().Validate(); err != nil {
		return &ConfigError{Field: "Pointer", Message: err.Error()}
	}
	if c.StatusInterval <= 0 {
		return &ConfigError{Field: "StatusInterval", Message: "status interval must be positive"}
	}
	return nil
}

func (c *Config) pointerConfig() gaze.Config {
	return gaze.Config{
		Name:         c.Pointer,
		Threshold:    c.Threshold,
		TickInterval: c.TickInterval,
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
