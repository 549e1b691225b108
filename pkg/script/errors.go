package script

import "errors"

var (
	// ErrEmptyTimeline is returned when a timeline has no steps.
	ErrEmptyTimeline = errors.New("script: timeline has no steps")

	// ErrUnknownTarget is returned when a step names a target that is not declared.
	ErrUnknownTarget = errors.New("script: unknown target")

	// ErrInvalidDuration is returned when a step duration is not positive.
	ErrInvalidDuration = errors.New("script: step duration must be positive")

	// ErrDuplicateTarget is returned when a target ID is declared twice.
	ErrDuplicateTarget = errors.New("script: duplicate target")
)
