// Package gaze hosts focus trackers in a frame loop. A Pointer owns one
// tracker, asks a Picker for the candidate each frame and publishes the
// tracker's notifications to sinks such as the dashboard or a relay.
package gaze

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/focus"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// Pointer drives a focus tracker from a Picker
type Pointer struct {
	config  Config
	picker  Picker
	tracker *focus.Tracker[Target]
	logger  *slog.Logger

	sinks   []Sink
	sinksMu sync.RWMutex

	// Requests from other goroutines, applied on the loop goroutine
	resets chan struct{}

	// Published after every frame
	status   protocol.StatusData
	statusMu sync.RWMutex

	frames    uint64
	isRunning atomic.Bool
}

// NewPointer creates a pointer. The picker is queried once per frame.
// The config must validate.
func NewPointer(config Config, picker Picker) (*Pointer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p := &Pointer{
		config:  config,
		picker:  picker,
		tracker: focus.New[Target](config.focusConfig()),
		logger:  log.With("component", "gaze", "pointer", config.Name),
		resets:  make(chan struct{}, 1),
	}
	p.tracker.OnEnter(p.publish)
	p.tracker.OnExit(p.publish)
	p.tracker.OnFocus(p.publish)
	p.publishStatus()
	return p, nil
}

// Name returns the pointer name
func (p *Pointer) Name() string {
	return p.config.Name
}

// Tracker returns the underlying tracker. Register observers before Run;
// the tracker must only be used from the goroutine that steps the pointer.
func (p *Pointer) Tracker() *focus.Tracker[Target] {
	return p.tracker
}

// AddSink registers a consumer for published events
func (p *Pointer) AddSink(s Sink) {
	p.sinksMu.Lock()
	p.sinks = append(p.sinks, s)
	p.sinksMu.Unlock()
}

// Step runs one frame of dt seconds: pick, update, publish.
// It returns the tracker's observer error, if any.
func (p *Pointer) Step(dt float64) error {
	select {
	case <-p.resets:
		p.tracker.ResetSession()
		p.logger.Debug("dwell session reset")
	default:
	}

	if adv, ok := p.picker.(Advancer); ok {
		adv.Advance(dt)
	}

	err := p.tracker.Update(p.picker.Pick(), dt)
	p.frames++
	p.publishStatus()
	return err
}

// Run steps the pointer every TickInterval until ctx is cancelled,
// measuring the real time between frames.
func (p *Pointer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.config.TickInterval)
	defer ticker.Stop()

	p.isRunning.Store(true)
	defer p.isRunning.Store(false)

	p.logger.Info("pointer started",
		"threshold", p.tracker.Threshold(),
		"tick", p.config.TickInterval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pointer stopped", "frames", p.frames)
			return

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := p.Step(dt); err != nil {
				p.logger.Warn("focus observer failed", "error", err)
			}
		}
	}
}

// IsRunning reports whether Run is active
func (p *Pointer) IsRunning() bool {
	return p.isRunning.Load()
}

// Reset asks the loop to restart the dwell session before the next frame.
// Safe to call from any goroutine; repeated calls before a frame coalesce.
func (p *Pointer) Reset() {
	select {
	case p.resets <- struct{}{}:
	default:
	}
}

// Snapshot returns the status published after the last frame.
// Safe to call from any goroutine.
func (p *Pointer) Snapshot() protocol.StatusData {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// publish forwards a tracker notification to every sink. Sink failures are
// logged and never fail the tracker's dispatch.
func (p *Pointer) publish(e focus.Event[Target]) error {
	data := protocol.EventData{
		Pointer:  p.config.Name,
		Kind:     protocol.MessageType(e.Kind),
		InFocus:  e.InFocus,
		Elapsed:  p.tracker.Elapsed(),
		Fraction: p.tracker.Fraction(),
	}
	if e.Target != nil {
		data.TargetID = e.Target.ID
		data.TargetLabel = e.Target.Label
	}

	p.sinksMu.RLock()
	sinks := make([]Sink, len(p.sinks))
	copy(sinks, p.sinks)
	p.sinksMu.RUnlock()

	for _, s := range sinks {
		if err := s.HandleEvent(data); err != nil {
			p.logger.Warn("sink rejected event", "kind", data.Kind, "error", err)
		}
	}

	p.logger.Debug("focus event",
		"kind", data.Kind,
		"target", data.TargetID,
		"in_focus", data.InFocus)
	return nil
}

func (p *Pointer) publishStatus() {
	s := p.tracker.Snapshot()
	status := protocol.StatusData{
		Pointer:   p.config.Name,
		HasTarget: s.HasTarget,
		Locked:    s.Locked,
		Elapsed:   s.Elapsed,
		Fraction:  s.Fraction,
		Threshold: s.Threshold,
		Frames:    p.frames,
	}
	if s.Target != nil {
		status.TargetID = s.Target.ID
		status.TargetLabel = s.Target.Label
	}

	p.statusMu.Lock()
	p.status = status
	p.statusMu.Unlock()
}
