package room

import (
	"sort"
	"time"

	"github.com/gauravmohjay/admin/pkg/types"
)

// Chat maintains the ordered message history for the current room
// scope. The snapshot path sorts because backfill order is not
// guaranteed end-to-end; the live path is append-only because live
// messages arrive in server order and the client must not reorder them.
type Chat struct {
	messages []types.ChatMessage
	hasMore  bool
	oldest   int64

	now func() time.Time
}

// NewChat creates an empty synchronizer.
func NewChat() *Chat {
	return &Chat{now: time.Now}
}

// ApplyHistorySnapshot replaces the message list wholesale. Rows are
// normalized to a canonical timestamp, sorted ascending, and exact
// duplicates (same sender, text, timestamp) are collapsed. The
// duplicate collapse is a deliberate tightening: the backend offers no
// message identity, so re-delivered history rows are only detectable by
// full-field equality.
func (c *Chat) ApplyHistorySnapshot(rows []types.WireChatMessage, hasMore bool, oldestTimestamp int64) {
	now := c.now()
	normalized := make([]types.ChatMessage, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, row.Normalize(now))
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Timestamp < normalized[j].Timestamp
	})

	deduped := make([]types.ChatMessage, 0, len(normalized))
	seen := make(map[types.ChatMessage]struct{}, len(normalized))
	for _, msg := range normalized {
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		deduped = append(deduped, msg)
	}

	c.messages = deduped
	c.hasMore = hasMore
	c.oldest = oldestTimestamp
}

// ApplyLiveMessage appends a live message with the same normalization
// rule. No re-sort: a live message with an earlier timestamp than its
// predecessor still lands at the end, preserving server order.
func (c *Chat) ApplyLiveMessage(row types.WireChatMessage) types.ChatMessage {
	msg := row.Normalize(c.now())
	c.messages = append(c.messages, msg)
	return msg
}

// Messages returns a copy of the current history.
func (c *Chat) Messages() []types.ChatMessage {
	return append([]types.ChatMessage(nil), c.messages...)
}

// HasMore reports whether older history can be backfilled.
func (c *Chat) HasMore() bool {
	return c.hasMore
}

// OldestTimestamp is the paging cursor for backfill, zero when unknown.
func (c *Chat) OldestTimestamp() int64 {
	return c.oldest
}

// Reset clears all history state for a new room scope.
func (c *Chat) Reset() {
	c.messages = nil
	c.hasMore = false
	c.oldest = 0
}
