package types

import (
	"time"
)

// Roles carried in the join intent. The server treats every other value
// as a plain participant.
const (
	RoleHost        = "host"
	RoleParticipant = "participant"
)

// RoomScope identifies one live meeting occurrence a client is joined
// to. It is immutable for the duration of a room session: changing any
// field means entering a new room, which resets all component state.
type RoomScope struct {
	ScheduleID   string `json:"scheduleId"`
	OccurrenceID string `json:"occurrenceId"`
	PlatformID   string `json:"platformId"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// IsHost reports whether the local user may issue host-only intents.
func (s RoomScope) IsHost() bool {
	return s.Role == RoleHost
}

// ChatMessage is a normalized chat line. Timestamp is epoch
// milliseconds derived from whichever time field the server sent.
type ChatMessage struct {
	SenderID   string `json:"senderId,omitempty"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// WireChatMessage is the raw shape chat rows arrive in. The server is
// inconsistent about time fields: live messages carry "timestamp" or an
// ISO "createdAt", history rows may carry "timeStamp" instead.
type WireChatMessage struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	TimeStamp  *int64 `json:"timeStamp"`
	Timestamp  *int64 `json:"timestamp"`
	CreatedAt  string `json:"createdAt"`
}

// Normalize converts a wire row to a ChatMessage with a canonical
// timestamp: prefer timeStamp, then timestamp, then createdAt parsed as
// RFC 3339, falling back to the local receipt time.
func (w WireChatMessage) Normalize(now time.Time) ChatMessage {
	msg := ChatMessage{
		SenderID:   w.SenderID,
		SenderName: w.SenderName,
		Text:       w.Text,
	}
	switch {
	case w.TimeStamp != nil:
		msg.Timestamp = *w.TimeStamp
	case w.Timestamp != nil:
		msg.Timestamp = *w.Timestamp
	case w.CreatedAt != "":
		if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
			msg.Timestamp = t.UnixMilli()
		} else {
			msg.Timestamp = now.UnixMilli()
		}
	default:
		msg.Timestamp = now.UnixMilli()
	}
	return msg
}

// PollOption is one answer with its running vote count.
type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll as broadcast by the server. A nil OccurrenceID means the poll
// applies to any occurrence of its schedule.
type Poll struct {
	ID           string       `json:"id"`
	ScheduleID   string       `json:"scheduleId"`
	OccurrenceID *string      `json:"occurrenceId"`
	Question     string       `json:"question"`
	Options      []PollOption `json:"options"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    int64        `json:"createdAt"`
}

// InScope reports whether the poll belongs to the given room scope.
func (p Poll) InScope(scope RoomScope) bool {
	if p.ScheduleID != scope.ScheduleID {
		return false
	}
	return p.OccurrenceID == nil || *p.OccurrenceID == scope.OccurrenceID
}

// RaisedHand is one participant's request-to-speak entry. At most one
// entry exists per userId within a room scope.
type RaisedHand struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	ScheduleID   string `json:"scheduleId"`
	OccurrenceID string `json:"occurrenceId"`
}

// ParticipantEntry is one member of the room's presence set.
type ParticipantEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// RoomLifecycleState is the one-way lifecycle of a room visit. Both
// terminal states gate all outgoing mutation intents without tearing
// down already-rendered history.
type RoomLifecycleState int

const (
	RoomOpen RoomLifecycleState = iota
	RoomClosed
	RoomEjected
)

func (s RoomLifecycleState) String() string {
	switch s {
	case RoomOpen:
		return "open"
	case RoomClosed:
		return "closed"
	case RoomEjected:
		return "ejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state permits no further mutation intents.
func (s RoomLifecycleState) Terminal() bool {
	return s != RoomOpen
}
