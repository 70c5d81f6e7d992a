package room

import (
	"testing"

	"github.com/gauravmohjay/admin/pkg/types"
)

func TestLifecycleTransitionsAreOneWay(t *testing.T) {
	l := NewLifecycle()
	if !l.CanSend() {
		t.Fatal("fresh lifecycle must be open")
	}

	l.ApplyRoomClosed()
	if l.State() != types.RoomClosed || l.CanSend() {
		t.Error("roomClosed must gate sending")
	}

	// A kick after closing must not overwrite the terminal state.
	l.ApplyKicked("removed")
	if l.State() != types.RoomClosed {
		t.Errorf("terminal state overwritten: %v", l.State())
	}
	if l.KickReason() != "" {
		t.Error("kick reason recorded after terminal state")
	}
}

func TestLifecycleKickRecordsReason(t *testing.T) {
	l := NewLifecycle()
	l.ApplyKicked("policy violation")

	if l.State() != types.RoomEjected {
		t.Errorf("state = %v, want ejected", l.State())
	}
	if l.KickReason() != "policy violation" {
		t.Errorf("reason = %q", l.KickReason())
	}

	l.Reset()
	if !l.CanSend() || l.KickReason() != "" {
		t.Error("reset must return to open")
	}
}
