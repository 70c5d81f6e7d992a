package media

import (
	"log"
	"sync"

	"github.com/gauravmohjay/admin/pkg/interfaces"
)

// HeadlessEngine is a media engine with no capture devices. It accepts
// every command, logs it, and reports the state changes a real engine
// would: publish events for local tracks and a connected event after a
// successful credential handoff. The console uses it when run without
// an attached media stack, so the room logic and recording controls
// stay exercisable end to end.
type HeadlessEngine struct {
	mu        sync.Mutex
	handler   func(interfaces.MediaEvent)
	connected bool
	closed    bool
}

// NewHeadlessEngine creates a disconnected engine.
func NewHeadlessEngine() *HeadlessEngine {
	return &HeadlessEngine{}
}

// Listen registers the single event listener.
func (e *HeadlessEngine) Listen(handler func(interfaces.MediaEvent)) {
	e.mu.Lock()
	e.handler = handler
	e.mu.Unlock()
}

// Connect accepts the credential and reports a connected transport.
func (e *HeadlessEngine) Connect(url, token string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return interfaces.ErrNotConnected
	}
	e.connected = true
	e.mu.Unlock()

	log.Printf("media: connected to %s", url)
	e.emit(interfaces.MediaEvent{Kind: interfaces.MediaConnected})
	return nil
}

// SetMicEnabled logs the command.
func (e *HeadlessEngine) SetMicEnabled(enabled bool) error {
	if err := e.requireConnected(); err != nil {
		return err
	}
	log.Printf("media: microphone enabled=%t", enabled)
	e.emitTrack(interfaces.TrackSourceMicrophone, enabled)
	return nil
}

// SetCameraEnabled logs the command.
func (e *HeadlessEngine) SetCameraEnabled(enabled bool) error {
	if err := e.requireConnected(); err != nil {
		return err
	}
	log.Printf("media: camera enabled=%t", enabled)
	e.emitTrack(interfaces.TrackSourceCamera, enabled)
	return nil
}

// SetScreenShareEnabled logs the command and reports the publication
// change the way a real transport would.
func (e *HeadlessEngine) SetScreenShareEnabled(enabled bool) error {
	if err := e.requireConnected(); err != nil {
		return err
	}
	log.Printf("media: screen share enabled=%t", enabled)
	e.emitTrack(interfaces.TrackSourceScreenShare, enabled)
	return nil
}

// Close disconnects and silences the listener.
func (e *HeadlessEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	wasConnected := e.connected
	e.closed = true
	e.connected = false
	handler := e.handler
	e.handler = nil
	e.mu.Unlock()

	if wasConnected && handler != nil {
		handler(interfaces.MediaEvent{Kind: interfaces.MediaDisconnected})
	}
	return nil
}

func (e *HeadlessEngine) requireConnected() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.connected {
		return interfaces.ErrNotConnected
	}
	return nil
}

func (e *HeadlessEngine) emitTrack(source string, published bool) {
	kind := interfaces.MediaTrackPublished
	if !published {
		kind = interfaces.MediaTrackUnpublished
	}
	e.emit(interfaces.MediaEvent{Kind: kind, Source: source, Local: true})
}

func (e *HeadlessEngine) emit(ev interfaces.MediaEvent) {
	e.mu.Lock()
	handler := e.handler
	e.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}
