package relay

import "errors"

var (
	// ErrClosed is returned when sending on a closed client
	ErrClosed = errors.New("relay closed")

	// ErrQueueFull is returned when the outbound queue cannot take another message
	ErrQueueFull = errors.New("relay queue full")
)
