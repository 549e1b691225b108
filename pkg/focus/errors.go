package focus

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidThreshold is returned when a configured threshold is negative or NaN.
	ErrInvalidThreshold = errors.New("focus: threshold must be a non-negative number of seconds")

	// ErrUnknownPreset is returned by Preset for a name it does not know.
	ErrUnknownPreset = errors.New("focus: unknown preset")
)

// ObserverError reports a handler that failed during dispatch.
type ObserverError struct {
	// Kind is the channel being dispatched when the handler failed.
	Kind Kind

	// Subscription is the ID of the failing handler.
	Subscription uuid.UUID

	// Err is the error returned by the handler.
	Err error
}

// Error implements the error interface.
func (e *ObserverError) Error() string {
	return fmt.Sprintf("focus: %s observer %s: %v", e.Kind, e.Subscription, e.Err)
}

// Unwrap returns the handler's error.
func (e *ObserverError) Unwrap() error {
	return e.Err
}
