package interfaces

import (
	"context"

	"github.com/gauravmohjay/admin/pkg/types"
)

// RecordingEvent is one archived recording lifecycle entry.
type RecordingEvent struct {
	Kind      string
	Detail    string
	Timestamp int64
}

// TranscriptStore persists what the console saw in a room so
// transcripts survive leaving it. Purely client-local; the server owns
// the authoritative history.
type TranscriptStore interface {
	SaveMessage(ctx context.Context, scheduleID, occurrenceID string, msg types.ChatMessage) error
	SaveRecordingEvent(ctx context.Context, scheduleID, occurrenceID, kind, detail string) error

	// Messages returns archived chat lines for a scope ordered by
	// timestamp ascending.
	Messages(ctx context.Context, scheduleID, occurrenceID string) ([]types.ChatMessage, error)
	RecordingEvents(ctx context.Context, scheduleID, occurrenceID string) ([]RecordingEvent, error)

	Close() error
}
