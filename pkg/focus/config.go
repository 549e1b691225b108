package focus

import (
	"fmt"
	"math"
)

// DefaultThreshold is the dwell time in seconds before a target counts as selected
const DefaultThreshold = 2.0

// Config holds the tunable parameters of a Tracker
type Config struct {
	Name      string  // Reported as Event.Source and in logs
	Threshold float64 // Seconds of continuous focus before the threshold event fires
}

// DefaultConfig returns the standard two second dwell configuration
func DefaultConfig() Config {
	return Config{
		Name:      "pointer",
		Threshold: DefaultThreshold,
	}
}

// QuickConfig returns a configuration for fast selection (menus, short lists)
func QuickConfig() Config {
	cfg := DefaultConfig()
	cfg.Threshold = 1.0
	return cfg
}

// PatientConfig returns a configuration that needs a longer, deliberate dwell
func PatientConfig() Config {
	cfg := DefaultConfig()
	cfg.Threshold = 3.0
	return cfg
}

// PresetNames lists the names Preset accepts
var PresetNames = []string{"quick", "default", "patient"}

// Preset returns the named configuration
func Preset(name string) (Config, error) {
	switch name {
	case "quick":
		return QuickConfig(), nil
	case "default", "":
		return DefaultConfig(), nil
	case "patient":
		return PatientConfig(), nil
	}
	return Config{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
}

// Validate reports whether the configuration can be used as-is.
// A zero threshold is valid: the fraction query then always reports 0.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, c.Threshold)
	}
	return nil
}
