package interfaces

import "encoding/json"

// Emitter is the outgoing half of the event channel: fire-and-forget
// named intents. No client-side retry or ack timeout exists beyond the
// server's own ack events per intent type.
type Emitter interface {
	Emit(event string, payload interface{}) error
}

// Subscription is a borrowed handle on one event registration. Closing
// it detaches the handler; components never own the channel itself.
type Subscription interface {
	Close()
}

// EventChannel is the full surface room components see: typed send plus
// scoped receive. Handlers run serialized on the channel's read loop.
type EventChannel interface {
	Emitter
	On(event string, handler func(payload json.RawMessage)) Subscription
}
