package types

import "strings"

// ValidateChatText trims the compose text and rejects empty messages
// before any network call is made.
func ValidateChatText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	return trimmed, nil
}

// ValidatePollInput enforces the client-side poll creation rules: a
// non-empty trimmed question and at least two non-empty trimmed options.
// Blank options are dropped rather than rejected, matching the compose
// form behavior.
func ValidatePollInput(question string, options []string) (string, []string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", nil, ErrEmptyQuestion
	}
	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		if t := strings.TrimSpace(opt); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) < 2 {
		return "", nil, ErrTooFewOptions
	}
	return q, cleaned, nil
}

// Validate checks that a scope carries everything a join intent needs.
func (s RoomScope) Validate() error {
	if s.ScheduleID == "" || s.OccurrenceID == "" {
		return ErrIncompleteScope
	}
	if s.UserID == "" || s.Username == "" {
		return ErrIncompleteScope
	}
	if s.PlatformID == "" {
		return ErrIncompleteScope
	}
	if s.Role != RoleHost && s.Role != RoleParticipant {
		return ErrInvalidRole
	}
	return nil
}
