package room

import (
	"time"

	"github.com/gauravmohjay/admin/pkg/types"
)

// Hands tracks the set of raised hands for the active scope plus the
// local user's raise state. The local flag flips only on server
// acknowledgment, never optimistically, and the auto-lower timer is
// armed at ack time. Every path that sets raised=false cancels the
// timer, including scope change, so a stale timer can never fire a
// lower intent into a new room.
type Hands struct {
	scope   types.RoomScope
	raised  []types.RaisedHand
	local   bool
	timeout time.Duration

	timer *time.Timer
	// onExpire is invoked when the auto-lower timer fires. The session
	// routes it back through its own lock before emitting the intent.
	onExpire func()
	// afterFunc is swappable so tests can fire the timer deterministically.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewHands creates a coordinator bound to a scope.
func NewHands(scope types.RoomScope, timeout time.Duration, onExpire func()) *Hands {
	return &Hands{
		scope:     scope,
		timeout:   timeout,
		onExpire:  onExpire,
		afterFunc: time.AfterFunc,
	}
}

// Reset rebinds to a new scope, clears the set, lowers the local flag,
// and cancels any pending timer.
func (h *Hands) Reset(scope types.RoomScope) {
	h.scope = scope
	h.raised = nil
	h.local = false
	h.cancelTimer()
}

// ApplyRaiseAck handles the server's raise acknowledgment. Only an ack
// with status "raised" flips the local flag and arms the timer.
func (h *Hands) ApplyRaiseAck(status string) {
	if status != types.AckRaised {
		return
	}
	h.local = true
	h.armTimer()
}

// ApplyLowerAck handles the server's lower acknowledgment.
func (h *Hands) ApplyLowerAck(status string) {
	if status != types.AckLowered {
		return
	}
	h.local = false
	h.cancelTimer()
}

// ApplyRemoteHandEvent applies an incremental raise/lower delta. Events
// scoped to a different room are dropped. A raise replaces any prior
// entry for the same user: one entry per userId. A lower for the local
// user forces raised=false even if this client never initiated it.
func (h *Hands) ApplyRemoteHandEvent(ev types.HandEventPayload) {
	if ev.ScheduleID != h.scope.ScheduleID || ev.OccurrenceID != h.scope.OccurrenceID {
		return
	}

	switch ev.Type {
	case types.HandEventRaised:
		h.remove(ev.UserID)
		h.raised = append(h.raised, types.RaisedHand{
			UserID:       ev.UserID,
			Username:     ev.Username,
			ScheduleID:   ev.ScheduleID,
			OccurrenceID: ev.OccurrenceID,
		})
	case types.HandEventLowered:
		h.remove(ev.UserID)
		if ev.UserID == h.scope.UserID {
			h.local = false
			h.cancelTimer()
		}
	}
}

// ApplyFullList replaces the raised-hands set wholesale. Entries carry
// their own scope fields, so a multiplexed snapshot is filtered to the
// active room before being trusted, like every other apply path.
func (h *Hands) ApplyFullList(list []types.RaisedHand) {
	filtered := make([]types.RaisedHand, 0, len(list))
	for _, entry := range list {
		if entry.ScheduleID != h.scope.ScheduleID || entry.OccurrenceID != h.scope.OccurrenceID {
			continue
		}
		filtered = append(filtered, entry)
	}
	h.raised = filtered
}

// Expire is the timer path: lower the local hand exactly once and
// report whether a lower intent should be emitted.
func (h *Hands) Expire() bool {
	if !h.local {
		return false
	}
	h.local = false
	h.remove(h.scope.UserID)
	h.cancelTimer()
	return true
}

// LocalRaised reports the acknowledged state of the local hand.
func (h *Hands) LocalRaised() bool {
	return h.local
}

// Raised returns a copy of the raised-hands set.
func (h *Hands) Raised() []types.RaisedHand {
	return append([]types.RaisedHand(nil), h.raised...)
}

func (h *Hands) remove(userID string) {
	for i, entry := range h.raised {
		if entry.UserID == userID {
			h.raised = append(h.raised[:i], h.raised[i+1:]...)
			return
		}
	}
}

func (h *Hands) armTimer() {
	h.cancelTimer()
	if h.onExpire == nil || h.timeout <= 0 {
		return
	}
	h.timer = h.afterFunc(h.timeout, h.onExpire)
}

func (h *Hands) cancelTimer() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
