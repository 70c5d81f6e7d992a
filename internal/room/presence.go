package room

import (
	"github.com/gauravmohjay/admin/pkg/types"
)

// Presence maintains the participant membership set for the active
// room. Full snapshots from the server replace the set wholesale;
// join/leave deltas patch it. Not safe for concurrent use on its own;
// the Session serializes all mutations.
type Presence struct {
	entries []types.ParticipantEntry
}

// NewPresence creates an empty tracker.
func NewPresence() *Presence {
	return &Presence{}
}

// ApplySnapshot replaces the membership set unconditionally. The
// snapshot is the authoritative baseline sent after join.
func (p *Presence) ApplySnapshot(list []types.ParticipantEntry) {
	p.entries = append(p.entries[:0:0], list...)
}

// ApplyJoin adds a participant if absent. Idempotent by userId.
func (p *Presence) ApplyJoin(entry types.ParticipantEntry) {
	for _, e := range p.entries {
		if e.UserID == entry.UserID {
			return
		}
	}
	p.entries = append(p.entries, entry)
}

// ApplyLeave removes a participant by userId. Removing an absent id is
// a no-op, not an error.
func (p *Presence) ApplyLeave(entry types.ParticipantEntry) {
	for i, e := range p.entries {
		if e.UserID == entry.UserID {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return
		}
	}
}

// Participants returns a copy of the membership set in arrival order.
func (p *Presence) Participants() []types.ParticipantEntry {
	return append([]types.ParticipantEntry(nil), p.entries...)
}

// Count returns the current membership size.
func (p *Presence) Count() int {
	return len(p.entries)
}

// Reset clears the set for a new room scope.
func (p *Presence) Reset() {
	p.entries = nil
}
