// Package focus decides whether a pointer (gaze, ray, head direction) has
// dwelt on one target long enough for it to count as selected.
//
// A Tracker is fed one candidate per frame together with the frame time. It
// keeps the accumulated dwell time of the current target and raises
// notifications on three channels:
//
//   - enter: a new target became current
//   - exit: the previous target is no longer current
//   - focus: the target changed (InFocus=false), focus was cleared
//     (Target=nil, InFocus=false), or the target has been held for longer
//     than the threshold (InFocus=true, once per session)
//
// Targets are compared by pointer identity. A Tracker is not safe for
// concurrent use; see gaze.Pointer for a loop that owns one.
package focus

import (
	"log/slog"

	"github.com/teslashibe/go-gaze/internal/log"
)

// Tracker accumulates dwell time on a single target
type Tracker[T any] struct {
	name      string
	threshold float64 // seconds
	elapsed   float64 // seconds on current since it became current or the last reset

	current   *T
	hasTarget bool
	locked    bool // threshold event already fired for this session

	enter channel[T]
	exit  channel[T]
	focus channel[T]

	logger *slog.Logger
}

// State is a point-in-time copy of a tracker's state
type State[T any] struct {
	Target    *T
	HasTarget bool
	Locked    bool
	Elapsed   float64
	Fraction  float64
	Threshold float64
}

// New creates a tracker from cfg. cfg is used as given: a zero Threshold
// is honoured, so start from DefaultConfig for the standard dwell time.
func New[T any](cfg Config) *Tracker[T] {
	t := &Tracker[T]{
		name:   cfg.Name,
		logger: log.With("component", "focus", "tracker", cfg.Name),
	}
	t.Init(cfg.Threshold)
	return t
}

// NewWithThreshold creates a tracker with the default name and the given threshold
func NewWithThreshold[T any](threshold float64) *Tracker[T] {
	cfg := DefaultConfig()
	cfg.Threshold = threshold
	return New[T](cfg)
}

// Init sets the threshold and clears the target and session state.
// Registered observers are kept.
func (t *Tracker[T]) Init(threshold float64) {
	t.threshold = threshold
	t.current = nil
	t.hasTarget = false
	t.ResetSession()
}

// Update advances the tracker by one frame. candidate is the target the
// pointer hits this frame (nil for none) and dt the seconds since the
// previous frame.
//
// Update returns the first observer error, if any. Dispatch stops there and
// the state changes that follow the failed notification are not applied.
func (t *Tracker[T]) Update(candidate *T, dt float64) error {
	if dt < 0 {
		dt = 0
	}

	if candidate == nil {
		// Register the empty state once; repeated nils are no-ops
		if !t.hasTarget {
			return nil
		}
		t.hasTarget = false
		t.current = nil
		t.ResetSession()
		t.logger.Debug("focus cleared")
		return t.focus.emit(t.event(KindFocus, nil, false))
	}

	t.hasTarget = true

	if candidate == t.current {
		if t.locked {
			return nil
		}
		// The frame that crosses the threshold only accumulates; the
		// event fires on the following frame.
		if t.elapsed <= t.threshold {
			t.elapsed += dt
			return nil
		}
		if err := t.focus.emit(t.event(KindFocus, candidate, true)); err != nil {
			return err
		}
		t.locked = true
		t.logger.Debug("focus locked", "elapsed", t.elapsed)
		return nil
	}

	if t.current != nil {
		if err := t.exit.emit(t.event(KindExit, t.current, false)); err != nil {
			return err
		}
	}

	// No immediate focus on the new target; dt is not counted this frame
	t.current = candidate
	t.ResetSession()
	t.logger.Debug("focus target changed")

	if err := t.enter.emit(t.event(KindEnter, candidate, false)); err != nil {
		return err
	}
	return t.focus.emit(t.event(KindFocus, candidate, false))
}

// ResetSession restarts the dwell time without changing the current target
func (t *Tracker[T]) ResetSession() {
	t.elapsed = 0
	t.locked = false
}

// Elapsed returns the seconds accumulated on the current target
func (t *Tracker[T]) Elapsed() float64 {
	return t.elapsed
}

// Fraction returns Elapsed divided by the threshold, or 0 if the threshold is 0.
// It exceeds 1 on the frame that crosses the threshold.
func (t *Tracker[T]) Fraction() float64 {
	if t.threshold == 0 {
		return 0
	}
	return t.elapsed / t.threshold
}

// Target returns the current target, or nil
func (t *Tracker[T]) Target() *T {
	return t.current
}

// HasTarget reports whether a target is current
func (t *Tracker[T]) HasTarget() bool {
	return t.hasTarget
}

// Locked reports whether the threshold event fired for the current session
func (t *Tracker[T]) Locked() bool {
	return t.locked
}

// Threshold returns the configured dwell time in seconds
func (t *Tracker[T]) Threshold() float64 {
	return t.threshold
}

// Name returns the tracker name used as Event.Source
func (t *Tracker[T]) Name() string {
	return t.name
}

// Snapshot returns a copy of the current state
func (t *Tracker[T]) Snapshot() State[T] {
	return State[T]{
		Target:    t.current,
		HasTarget: t.hasTarget,
		Locked:    t.locked,
		Elapsed:   t.elapsed,
		Fraction:  t.Fraction(),
		Threshold: t.threshold,
	}
}

// OnEnter registers fn for enter notifications
func (t *Tracker[T]) OnEnter(fn Handler[T]) Subscription {
	return Subscription{ID: t.enter.add(fn), Kind: KindEnter}
}

// OnExit registers fn for exit notifications
func (t *Tracker[T]) OnExit(fn Handler[T]) Subscription {
	return Subscription{ID: t.exit.add(fn), Kind: KindExit}
}

// OnFocus registers fn for focus notifications
func (t *Tracker[T]) OnFocus(fn Handler[T]) Subscription {
	return Subscription{ID: t.focus.add(fn), Kind: KindFocus}
}

// Unsubscribe removes a handler. It reports whether the handler was registered.
func (t *Tracker[T]) Unsubscribe(s Subscription) bool {
	switch s.Kind {
	case KindEnter:
		return t.enter.remove(s.ID)
	case KindExit:
		return t.exit.remove(s.ID)
	case KindFocus:
		return t.focus.remove(s.ID)
	}
	return false
}

// ObserverCount returns the number of handlers registered on a channel
func (t *Tracker[T]) ObserverCount(kind Kind) int {
	switch kind {
	case KindEnter:
		return t.enter.count()
	case KindExit:
		return t.exit.count()
	case KindFocus:
		return t.focus.count()
	}
	return 0
}

func (t *Tracker[T]) event(kind Kind, target *T, inFocus bool) Event[T] {
	return Event[T]{Kind: kind, Source: t.name, Target: target, InFocus: inFocus}
}
