package channel

import (
	"encoding/json"
	"testing"
)

func TestRegistryDispatchesToAllSubscribers(t *testing.T) {
	r := NewRegistry()
	var a, b int
	r.Subscribe("ev", func(json.RawMessage) { a++ })
	r.Subscribe("ev", func(json.RawMessage) { b++ })
	r.Subscribe("other", func(json.RawMessage) { t.Error("wrong event dispatched") })

	r.dispatch("ev", nil)

	if a != 1 || b != 1 {
		t.Errorf("dispatch counts a=%d b=%d, want 1 each", a, b)
	}
}

func TestRegistryClosedSubscriptionSeesNothing(t *testing.T) {
	r := NewRegistry()
	var calls int
	sub := r.Subscribe("ev", func(json.RawMessage) { calls++ })

	r.dispatch("ev", nil)
	sub.Close()
	r.dispatch("ev", nil)

	if calls != 1 {
		t.Errorf("closed subscription invoked, calls=%d", calls)
	}
}

func TestRegistryCloseIsIdempotent(t *testing.T) {
	r := NewRegistry()
	sub := r.Subscribe("ev", func(json.RawMessage) {})
	sub.Close()
	sub.Close()

	// A later subscription to the same event still dispatches.
	var calls int
	r.Subscribe("ev", func(json.RawMessage) { calls++ })
	r.dispatch("ev", nil)
	if calls != 1 {
		t.Errorf("dispatch after double close, calls=%d", calls)
	}
}

func TestRegistryDispatchPassesPayload(t *testing.T) {
	r := NewRegistry()
	var got string
	r.Subscribe("ev", func(p json.RawMessage) {
		_ = json.Unmarshal(p, &got)
	})

	raw, _ := json.Marshal("hello")
	r.dispatch("ev", raw)

	if got != "hello" {
		t.Errorf("payload = %q, want hello", got)
	}
}
