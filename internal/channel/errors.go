package channel

import "errors"

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrWriteTimeout  = errors.New("write timed out")
	ErrInvalidJSON   = errors.New("invalid JSON payload")
)
