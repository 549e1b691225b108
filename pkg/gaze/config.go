package gaze

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-gaze/pkg/focus"
)

// Config holds the parameters of a Pointer
type Config struct {
	Name         string        // Pointer name, reported in every event
	Threshold    float64       // Dwell seconds before a target is selected
	TickInterval time.Duration // Frame period when driven by Run
}

// DefaultConfig returns a 20 Hz pointer with the standard dwell time
func DefaultConfig() Config {
	return Config{
		Name:         "pointer",
		Threshold:    focus.DefaultThreshold,
		TickInterval: 50 * time.Millisecond,
	}
}

// FastConfig returns a 60 Hz configuration for interactive hosts
func FastConfig() Config {
	cfg := DefaultConfig()
	cfg.TickInterval = 16 * time.Millisecond
	return cfg
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("gaze: pointer name required")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("gaze: tick interval must be positive, got %v", c.TickInterval)
	}
	return c.focusConfig().Validate()
}

func (c Config) focusConfig() focus.Config {
	return focus.Config{Name: c.Name, Threshold: c.Threshold}
}
