package gaze

import "github.com/teslashibe/go-gaze/pkg/protocol"

// Picker supplies the target the pointer hits this frame, or nil.
// Ray casting, hit testing and input handling live behind this interface.
type Picker interface {
	Pick() *Target
}

// Advancer is implemented by pickers that follow the pointer's frame clock
type Advancer interface {
	Advance(dt float64)
}

// PickerFunc adapts a function to the Picker interface
type PickerFunc func() *Target

// Pick calls f
func (f PickerFunc) Pick() *Target {
	return f()
}

// StaticPicker always picks the same target
type StaticPicker struct {
	Target *Target
}

// Pick returns the fixed target
func (s StaticPicker) Pick() *Target {
	return s.Target
}

// Sink consumes focus events published by a Pointer
type Sink interface {
	HandleEvent(event protocol.EventData) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(event protocol.EventData) error

// HandleEvent calls f
func (f SinkFunc) HandleEvent(event protocol.EventData) error {
	return f(event)
}
