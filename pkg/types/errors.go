package types

import "errors"

// Local validation errors, rejected before any network call.
var (
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrEmptyQuestion   = errors.New("poll question is empty")
	ErrTooFewOptions   = errors.New("poll needs at least 2 options")
	ErrIncompleteScope = errors.New("room scope is missing required fields")
	ErrInvalidRole     = errors.New("role must be 'host' or 'participant'")
)
