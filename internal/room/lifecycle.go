package room

import (
	"github.com/gauravmohjay/admin/pkg/types"
)

// Lifecycle tracks whether the room is open, closed by the host, or
// this client has been ejected. Transitions are one-way: there is no
// path back to Open within a session, only a fresh scope.
type Lifecycle struct {
	state      types.RoomLifecycleState
	kickReason string
}

// NewLifecycle starts in the Open state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: types.RoomOpen}
}

// ApplyRoomClosed transitions Open → Closed. No effect once terminal.
func (l *Lifecycle) ApplyRoomClosed() {
	if l.state != types.RoomOpen {
		return
	}
	l.state = types.RoomClosed
}

// ApplyKicked transitions Open → Ejected and records the reason.
func (l *Lifecycle) ApplyKicked(reason string) {
	if l.state != types.RoomOpen {
		return
	}
	l.state = types.RoomEjected
	l.kickReason = reason
}

// CanSend reports whether outgoing mutation intents are still allowed.
func (l *Lifecycle) CanSend() bool {
	return l.state == types.RoomOpen
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() types.RoomLifecycleState {
	return l.state
}

// KickReason returns the recorded ejection reason, empty if none.
func (l *Lifecycle) KickReason() string {
	return l.kickReason
}

// Reset returns to Open for a new room scope.
func (l *Lifecycle) Reset() {
	l.state = types.RoomOpen
	l.kickReason = ""
}
