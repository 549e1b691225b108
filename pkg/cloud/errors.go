package cloud

import "errors"

// ErrPointerNotConnected is returned when sending to a pointer that has no live connection
var ErrPointerNotConnected = errors.New("pointer not connected")
