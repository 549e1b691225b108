package focus

import "github.com/google/uuid"

// Kind identifies the notification channel an event was raised on
type Kind string

const (
	KindEnter Kind = "enter" // A new target became current
	KindExit  Kind = "exit"  // The previous target is no longer current
	KindFocus Kind = "focus" // Target changed (InFocus=false) or dwell threshold reached (InFocus=true)
)

// Event is the payload delivered to observers. A fresh value is built for
// every notification.
type Event[T any] struct {
	Kind    Kind
	Source  string // Name of the tracker that raised the event
	Target  *T     // nil when focus was cleared
	InFocus bool
}

// Handler observes one notification channel. Returning an error stops the
// remaining dispatch for the current Update call.
type Handler[T any] func(Event[T]) error

// Subscription identifies a registered handler
type Subscription struct {
	ID   uuid.UUID
	Kind Kind
}

type observer[T any] struct {
	id uuid.UUID
	fn Handler[T]
}

// channel is an ordered observer list
type channel[T any] struct {
	observers []observer[T]
}

func (c *channel[T]) add(fn Handler[T]) uuid.UUID {
	id := uuid.New()
	c.observers = append(c.observers, observer[T]{id: id, fn: fn})
	return id
}

func (c *channel[T]) remove(id uuid.UUID) bool {
	for i, o := range c.observers {
		if o.id == id {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *channel[T]) count() int {
	return len(c.observers)
}

// emit calls every observer in registration order and stops at the first error
func (c *channel[T]) emit(e Event[T]) error {
	if len(c.observers) == 0 {
		return nil
	}
	// Snapshot so handlers may (un)subscribe without disturbing this dispatch
	observers := make([]observer[T], len(c.observers))
	copy(observers, c.observers)

	for _, o := range observers {
		if err := o.fn(e); err != nil {
			return &ObserverError{Kind: e.Kind, Subscription: o.id, Err: err}
		}
	}
	return nil
}
