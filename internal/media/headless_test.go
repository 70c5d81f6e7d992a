package media

import (
	"errors"
	"testing"

	"github.com/gauravmohjay/admin/pkg/interfaces"
)

func TestCommandsBeforeConnectAreRejected(t *testing.T) {
	e := NewHeadlessEngine()
	if err := e.SetMicEnabled(true); !errors.Is(err, interfaces.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestConnectReportsConnected(t *testing.T) {
	e := NewHeadlessEngine()
	var events []interfaces.MediaEvent
	e.Listen(func(ev interfaces.MediaEvent) { events = append(events, ev) })

	if err := e.Connect("wss://media", "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if len(events) != 1 || events[0].Kind != interfaces.MediaConnected {
		t.Fatalf("expected connected event, got %v", events)
	}
}

func TestScreenShareEmitsLocalPublishEvents(t *testing.T) {
	e := NewHeadlessEngine()
	var events []interfaces.MediaEvent
	e.Listen(func(ev interfaces.MediaEvent) { events = append(events, ev) })
	if err := e.Connect("wss://media", "tok"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if err := e.SetScreenShareEnabled(true); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if err := e.SetScreenShareEnabled(false); err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	last := events[len(events)-1]
	if last.Kind != interfaces.MediaTrackUnpublished || last.Source != interfaces.TrackSourceScreenShare || !last.Local {
		t.Errorf("unexpected final event: %+v", last)
	}
	prev := events[len(events)-2]
	if prev.Kind != interfaces.MediaTrackPublished {
		t.Errorf("unexpected publish event: %+v", prev)
	}
}

func TestCloseSilencesListener(t *testing.T) {
	e := NewHeadlessEngine()
	var events []interfaces.MediaEvent
	e.Listen(func(ev interfaces.MediaEvent) { events = append(events, ev) })
	_ = e.Connect("wss://media", "tok")

	if err := e.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	n := len(events)

	if err := e.Connect("wss://again", "tok"); err == nil {
		t.Error("connect after close must fail")
	}
	if len(events) != n {
		t.Error("events delivered after close")
	}
}
