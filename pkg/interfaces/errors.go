package interfaces

import "errors"

// Common errors shared across component boundaries.
var (
	ErrNotConnected = errors.New("channel not connected")
	ErrStoreClosed  = errors.New("transcript store is closed")
)
