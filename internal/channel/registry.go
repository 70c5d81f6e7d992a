package channel

import (
	"encoding/json"
	"sync"
)

// Registry maps event names to subscriber handlers. Subscriptions are
// handles with deterministic teardown: a closed subscription never sees
// another event, which is what prevents cross-scope leakage during a
// room swap.
type Registry struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]func(json.RawMessage)
	nextID uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[string]map[uint64]func(json.RawMessage)),
	}
}

// Subscribe attaches a handler to an event name.
func (r *Registry) Subscribe(event string, handler func(json.RawMessage)) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	if r.subs[event] == nil {
		r.subs[event] = make(map[uint64]func(json.RawMessage))
	}
	r.subs[event][id] = handler

	return &Subscription{registry: r, event: event, id: id}
}

// dispatch invokes all handlers for an event, serialized on the caller's
// goroutine so subscribers observe server order.
func (r *Registry) dispatch(event string, payload json.RawMessage) {
	r.mu.RLock()
	handlers := make([]func(json.RawMessage), 0, len(r.subs[event]))
	for _, h := range r.subs[event] {
		handlers = append(handlers, h)
	}
	r.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (r *Registry) unsubscribe(event string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handlers, ok := r.subs[event]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(r.subs, event)
		}
	}
}

// Subscription is one registered handler. Close is idempotent.
type Subscription struct {
	registry *Registry
	event    string
	id       uint64
	once     sync.Once
}

// Close detaches the handler.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.registry.unsubscribe(s.event, s.id)
	})
}
