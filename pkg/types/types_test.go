package types

import (
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizePrefersTimeStampField(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := WireChatMessage{
		SenderName: "ana",
		Text:       "hello",
		TimeStamp:  int64Ptr(1000),
		Timestamp:  int64Ptr(2000),
		CreatedAt:  "2026-03-01T09:00:00Z",
	}

	msg := row.Normalize(now)
	if msg.Timestamp != 1000 {
		t.Errorf("expected timeStamp to win, got %d", msg.Timestamp)
	}
}

func TestNormalizeFallsBackToTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := WireChatMessage{Text: "x", Timestamp: int64Ptr(2000), CreatedAt: "2026-03-01T09:00:00Z"}

	if got := row.Normalize(now).Timestamp; got != 2000 {
		t.Errorf("expected timestamp field, got %d", got)
	}
}

func TestNormalizeParsesCreatedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	row := WireChatMessage{Text: "x", CreatedAt: created.Format(time.RFC3339)}

	if got := row.Normalize(now).Timestamp; got != created.UnixMilli() {
		t.Errorf("expected createdAt millis %d, got %d", created.UnixMilli(), got)
	}
}

func TestNormalizeInvalidCreatedAtUsesNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := WireChatMessage{Text: "x", CreatedAt: "not-a-time"}

	if got := row.Normalize(now).Timestamp; got != now.UnixMilli() {
		t.Errorf("expected local now fallback, got %d", got)
	}
}

func TestNormalizeNoTimeFieldsUsesNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := WireChatMessage{Text: "x"}

	if got := row.Normalize(now).Timestamp; got != now.UnixMilli() {
		t.Errorf("expected local now fallback, got %d", got)
	}
}

func TestPollInScope(t *testing.T) {
	scope := RoomScope{ScheduleID: "sched-1", OccurrenceID: "occ-1"}
	occ := "occ-1"
	other := "occ-2"

	tests := []struct {
		name string
		poll Poll
		want bool
	}{
		{"matching occurrence", Poll{ScheduleID: "sched-1", OccurrenceID: &occ}, true},
		{"nil occurrence matches any", Poll{ScheduleID: "sched-1"}, true},
		{"different occurrence", Poll{ScheduleID: "sched-1", OccurrenceID: &other}, false},
		{"different schedule", Poll{ScheduleID: "sched-2", OccurrenceID: &occ}, false},
	}
	for _, tt := range tests {
		if got := tt.poll.InScope(scope); got != tt.want {
			t.Errorf("%s: InScope = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestRoomLifecycleStateTerminal(t *testing.T) {
	if RoomOpen.Terminal() {
		t.Error("open must not be terminal")
	}
	if !RoomClosed.Terminal() || !RoomEjected.Terminal() {
		t.Error("closed and ejected must be terminal")
	}
}

func TestIsHost(t *testing.T) {
	if !(RoomScope{Role: RoleHost}).IsHost() {
		t.Error("host role should be host")
	}
	if (RoomScope{Role: RoleParticipant}).IsHost() {
		t.Error("participant role should not be host")
	}
}
