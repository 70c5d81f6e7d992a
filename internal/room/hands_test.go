package room

import (
	"testing"
	"time"

	"github.com/gauravmohjay/admin/pkg/types"
)

func handScope() types.RoomScope {
	return types.RoomScope{ScheduleID: "sched-1", OccurrenceID: "occ-1", UserID: "me"}
}

func TestRaiseAckOnlyRaisedStatusFlips(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})

	h.ApplyRaiseAck("pending")
	if h.LocalRaised() {
		t.Error("non-raised ack must not flip the local flag")
	}

	h.ApplyRaiseAck(types.AckRaised)
	if !h.LocalRaised() {
		t.Error("raised ack must flip the local flag")
	}
}

func TestRaiseAckArmsTimer(t *testing.T) {
	var armed time.Duration
	h := NewHands(handScope(), 30*time.Second, func() {})
	h.afterFunc = func(d time.Duration, f func()) *time.Timer {
		armed = d
		return time.NewTimer(time.Hour)
	}

	h.ApplyRaiseAck(types.AckRaised)
	if armed != 30*time.Second {
		t.Errorf("timer armed with %v, want 30s", armed)
	}
}

func TestExpireLowersExactlyOnce(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})
	h.ApplyRaiseAck(types.AckRaised)
	h.ApplyRemoteHandEvent(types.HandEventPayload{
		Type: types.HandEventRaised, UserID: "me", ScheduleID: "sched-1", OccurrenceID: "occ-1",
	})

	if !h.Expire() {
		t.Fatal("first expiry must report a lower")
	}
	if h.LocalRaised() {
		t.Error("expiry must lower the local flag")
	}
	if len(h.Raised()) != 0 {
		t.Error("expiry must remove the own entry")
	}
	if h.Expire() {
		t.Error("second expiry must be a no-op")
	}
}

func TestFullListFiltersScope(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})

	h.ApplyFullList([]types.RaisedHand{
		{UserID: "u2", Username: "ben", ScheduleID: "sched-1", OccurrenceID: "occ-1"},
		{UserID: "u3", Username: "cho", ScheduleID: "sched-other", OccurrenceID: "occ-1"},
		{UserID: "u4", Username: "dee", ScheduleID: "sched-1", OccurrenceID: "occ-9"},
	})

	got := h.Raised()
	if len(got) != 1 {
		t.Fatalf("expected 1 in-scope entry, got %d", len(got))
	}
	if got[0].UserID != "u2" {
		t.Errorf("kept entry = %q, want u2", got[0].UserID)
	}
}

func TestRemoteHandEventScopeFilter(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})
	h.ApplyRemoteHandEvent(types.HandEventPayload{
		Type: types.HandEventRaised, UserID: "u2", ScheduleID: "sched-other", OccurrenceID: "occ-1",
	})

	if len(h.Raised()) != 0 {
		t.Error("cross-scope hand event must be dropped")
	}
}

func TestRemoteRaiseIsOneEntryPerUser(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})
	ev := types.HandEventPayload{
		Type: types.HandEventRaised, UserID: "u2", Username: "ben",
		ScheduleID: "sched-1", OccurrenceID: "occ-1",
	}
	h.ApplyRemoteHandEvent(ev)
	h.ApplyRemoteHandEvent(ev)

	if len(h.Raised()) != 1 {
		t.Errorf("expected one entry per user, got %d", len(h.Raised()))
	}
}

func TestRemoteLowerForLocalUserForcesFlag(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})
	h.ApplyRaiseAck(types.AckRaised)

	// Host lowered this client's hand remotely.
	h.ApplyRemoteHandEvent(types.HandEventPayload{
		Type: types.HandEventLowered, UserID: "me", ScheduleID: "sched-1", OccurrenceID: "occ-1",
	})

	if h.LocalRaised() {
		t.Error("remote lower of own hand must clear the local flag")
	}
	if h.Expire() {
		t.Error("timer expiry after remote lower must be a no-op")
	}
}

func TestLowerAck(t *testing.T) {
	h := NewHands(handScope(), time.Second, func() {})
	h.ApplyRaiseAck(types.AckRaised)

	h.ApplyLowerAck("nope")
	if !h.LocalRaised() {
		t.Error("non-lowered ack must not flip the flag")
	}

	h.ApplyLowerAck(types.AckLowered)
	if h.LocalRaised() {
		t.Error("lowered ack must clear the flag")
	}
}

func TestHandsResetCancelsTimerAndClears(t *testing.T) {
	h := NewHands(handScope(), 10*time.Millisecond, func() {})

	var timerFn func()
	h.afterFunc = func(d time.Duration, f func()) *time.Timer {
		timerFn = f
		return time.NewTimer(time.Hour)
	}
	h.ApplyRaiseAck(types.AckRaised)
	h.ApplyFullList([]types.RaisedHand{{UserID: "me", ScheduleID: "sched-1", OccurrenceID: "occ-1"}})

	h.Reset(types.RoomScope{ScheduleID: "sched-2", OccurrenceID: "occ-2", UserID: "me"})

	if h.LocalRaised() || len(h.Raised()) != 0 {
		t.Error("reset must clear all hand state")
	}
	// Even if the old timer callback runs late, Expire reports nothing.
	if timerFn != nil {
		timerFn()
	}
	if h.Expire() {
		t.Error("stale expiry after reset must not emit")
	}
}
