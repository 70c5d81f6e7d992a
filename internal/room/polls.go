package room

import (
	"sort"

	"github.com/gauravmohjay/admin/pkg/types"
)

// Polls maintains the poll set scoped to the active room. The server
// may multiplex several rooms' polls onto one broadcast topic, so every
// apply path filters by scope before trusting the payload. Polls are
// never deleted locally; closed polls stay visible.
type Polls struct {
	scope types.RoomScope
	polls []types.Poll
}

// NewPolls creates an engine bound to a scope.
func NewPolls(scope types.RoomScope) *Polls {
	return &Polls{scope: scope}
}

// Reset rebinds the engine to a new scope and clears all polls.
func (p *Polls) Reset(scope types.RoomScope) {
	p.scope = scope
	p.polls = nil
}

// ApplyHistorySnapshot replaces the poll set from the authoritative
// history: out-of-scope entries are dropped, duplicate ids collapse to
// the most recently created (a later element wins ties), and the result
// is ordered newest first.
func (p *Polls) ApplyHistorySnapshot(history []types.Poll) {
	byID := make(map[string]types.Poll)
	for _, poll := range history {
		if !poll.InScope(p.scope) {
			continue
		}
		if existing, ok := byID[poll.ID]; ok && existing.CreatedAt > poll.CreatedAt {
			continue
		}
		byID[poll.ID] = poll
	}

	deduped := make([]types.Poll, 0, len(byID))
	for _, poll := range byID {
		deduped = append(deduped, poll)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].CreatedAt != deduped[j].CreatedAt {
			return deduped[i].CreatedAt > deduped[j].CreatedAt
		}
		return deduped[i].ID < deduped[j].ID
	})
	p.polls = deduped
}

// Upsert inserts an unseen poll or fully replaces the existing entry.
// Events for a different room are dropped silently. Vote-count updates
// take this same path: they arrive as full poll objects, not deltas.
func (p *Polls) Upsert(poll types.Poll) bool {
	if !poll.InScope(p.scope) {
		return false
	}
	for i, existing := range p.polls {
		if existing.ID == poll.ID {
			p.polls[i] = poll
			return true
		}
	}
	p.polls = append(p.polls, poll)
	return true
}

// ApplyStatusUpdate patches only the isActive flag of the matching
// poll. A poll not found locally is silently ignored; it will arrive
// via the next snapshot or upsert.
func (p *Polls) ApplyStatusUpdate(pollID string, isActive bool) bool {
	for i := range p.polls {
		if p.polls[i].ID == pollID {
			p.polls[i].IsActive = isActive
			return true
		}
	}
	return false
}

// Get returns the poll with the given id.
func (p *Polls) Get(pollID string) (types.Poll, bool) {
	for _, poll := range p.polls {
		if poll.ID == pollID {
			return poll, true
		}
	}
	return types.Poll{}, false
}

// Polls returns a copy of the current set.
func (p *Polls) Polls() []types.Poll {
	return append([]types.Poll(nil), p.polls...)
}
