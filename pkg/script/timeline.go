// Package script replays a recorded or hand-written sequence of candidates.
// Timelines are YAML documents:
//
//	name: kiosk
//	loop: true
//	targets:
//	  - id: play
//	    label: Play
//	steps:
//	  - target: play
//	    duration: 2.5s
//	  - duration: 500ms   # nothing under the pointer
package script

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts either a Go duration string ("1.5s") or a number of seconds
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	if secs, err := strconv.ParseFloat(value.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Seconds returns the duration in seconds
func (d Duration) Seconds() float64 {
	return time.Duration(d).Seconds()
}

// TargetSpec declares a target
type TargetSpec struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
}

// Step holds one candidate for a duration. An empty Target means nothing is hit.
type Step struct {
	Target   string   `yaml:"target,omitempty"`
	Duration Duration `yaml:"duration"`
}

// Timeline is a scripted candidate sequence
type Timeline struct {
	Name    string       `yaml:"name,omitempty"`
	Loop    bool         `yaml:"loop,omitempty"`
	Targets []TargetSpec `yaml:"targets"`
	Steps   []Step       `yaml:"steps"`
}

// Parse decodes and validates a YAML timeline
func Parse(data []byte) (*Timeline, error) {
	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return &tl, nil
}

// Load reads a timeline file
func Load(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	tl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tl, nil
}

// Marshal encodes the timeline as YAML
func (tl *Timeline) Marshal() ([]byte, error) {
	return yaml.Marshal(tl)
}

// Validate checks step targets and durations
func (tl *Timeline) Validate() error {
	if len(tl.Steps) == 0 {
		return ErrEmptyTimeline
	}

	declared := make(map[string]bool, len(tl.Targets))
	for _, t := range tl.Targets {
		if t.ID == "" {
			return fmt.Errorf("script: target with empty id")
		}
		if declared[t.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateTarget, t.ID)
		}
		declared[t.ID] = true
	}

	for i, s := range tl.Steps {
		if s.Duration <= 0 {
			return fmt.Errorf("step %d: %w", i, ErrInvalidDuration)
		}
		if s.Target != "" && !declared[s.Target] {
			return fmt.Errorf("step %d: %w: %q", i, ErrUnknownTarget, s.Target)
		}
	}
	return nil
}

// Length returns the total duration of one pass in seconds
func (tl *Timeline) Length() float64 {
	var total float64
	for _, s := range tl.Steps {
		total += s.Duration.Seconds()
	}
	return total
}
