package room

import (
	"fmt"
	"log"

	"github.com/gauravmohjay/admin/pkg/interfaces"
	"github.com/gauravmohjay/admin/pkg/types"
)

// MediaConnState is the transport connection state surfaced to callers.
type MediaConnState int

const (
	MediaIdle MediaConnState = iota
	MediaConnecting
	MediaConnected
	MediaDisconnected
	MediaErrored
)

func (s MediaConnState) String() string {
	switch s {
	case MediaIdle:
		return "idle"
	case MediaConnecting:
		return "connecting"
	case MediaConnected:
		return "connected"
	case MediaDisconnected:
		return "disconnected"
	case MediaErrored:
		return "error"
	default:
		return "unknown"
	}
}

// Media drives the media-transport session for the active room: it
// requests the server-issued credential once per scope, hands it to the
// engine, forwards mic/camera/share toggles, and tracks recording and
// publication state from the engine's event stream. It is independent
// of the room's event reducers; the channel is used only to obtain the
// credential and to carry recording intents.
type Media struct {
	emitter interfaces.Emitter
	engine  interfaces.MediaEngine
	notify  NoticeFunc

	scope          types.RoomScope
	tokenRequested bool
	connState      MediaConnState

	micOn           bool
	camOn           bool
	screenSharing   bool
	screenRecording bool
	roomRecording   bool
}

// NewMedia creates a driver. The engine may be nil for chat-only use;
// every engine call then becomes a no-op.
func NewMedia(emitter interfaces.Emitter, engine interfaces.MediaEngine, notify NoticeFunc) *Media {
	return &Media{emitter: emitter, engine: engine, notify: notify}
}

// Reset rebinds the driver to a new scope. The credential guard resets
// with it: one token request per room visit.
func (m *Media) Reset(scope types.RoomScope) {
	m.scope = scope
	m.tokenRequested = false
	m.connState = MediaIdle
	m.micOn = false
	m.camOn = false
	m.screenSharing = false
	m.screenRecording = false
	m.roomRecording = false
}

// RequestToken asks the server for a media-transport credential. The
// request is sent at most once per scope even if the caller retries.
func (m *Media) RequestToken() error {
	if m.tokenRequested {
		return nil
	}
	if err := m.emitter.Emit(types.IntentRequestLivekitToken, m.scope); err != nil {
		return fmt.Errorf("request media token: %w", err)
	}
	m.tokenRequested = true
	m.connState = MediaConnecting
	return nil
}

// ApplyAuth receives the credential and connects the engine.
func (m *Media) ApplyAuth(auth types.LivekitAuthPayload) {
	if m.engine == nil {
		return
	}
	if err := m.engine.Connect(auth.URL, auth.Token); err != nil {
		m.connState = MediaErrored
		m.sendNotice(Notice{Level: NoticeError, Code: NoticeServerError,
			Message: fmt.Sprintf("media connect failed: %v", err)})
	}
}

// ToggleMic flips the local microphone through the engine.
func (m *Media) ToggleMic() error {
	if m.engine == nil {
		return nil
	}
	if err := m.engine.SetMicEnabled(!m.micOn); err != nil {
		return err
	}
	m.micOn = !m.micOn
	return nil
}

// ToggleCamera flips the local camera through the engine.
func (m *Media) ToggleCamera() error {
	if m.engine == nil {
		return nil
	}
	if err := m.engine.SetCameraEnabled(!m.camOn); err != nil {
		return err
	}
	m.camOn = !m.camOn
	return nil
}

// ToggleScreenShare flips local screen share through the engine. The
// authoritative sharing flag still comes from the engine's publish
// notifications, not from this call.
func (m *Media) ToggleScreenShare() error {
	if m.engine == nil {
		return nil
	}
	return m.engine.SetScreenShareEnabled(!m.screenSharing)
}

// StartScreenRecording emits the host-only intent. Screen recording
// requires an active local screen share.
func (m *Media) StartScreenRecording() error {
	if !m.scope.IsHost() {
		return ErrHostOnly
	}
	if !m.screenSharing {
		return ErrNotScreenSharing
	}
	return m.emitter.Emit(types.IntentStartScreenRecording, m.recordingIntent())
}

// StopScreenRecording emits the host-only stop intent.
func (m *Media) StopScreenRecording() error {
	if !m.scope.IsHost() {
		return ErrHostOnly
	}
	return m.emitter.Emit(types.IntentStopScreenRecording, m.recordingIntent())
}

// StartRoomRecording emits the host-only intent.
func (m *Media) StartRoomRecording() error {
	if !m.scope.IsHost() {
		return ErrHostOnly
	}
	return m.emitter.Emit(types.IntentStartRoomRecording, m.recordingIntent())
}

// StopRoomRecording emits the host-only stop intent.
func (m *Media) StopRoomRecording() error {
	if !m.scope.IsHost() {
		return ErrHostOnly
	}
	return m.emitter.Emit(types.IntentStopRoomRecording, m.recordingIntent())
}

// ApplyRecordingEvent applies a recording lifecycle broadcast.
func (m *Media) ApplyRecordingEvent(event string, filename, message string) {
	switch event {
	case types.EventScreenRecordingStarted:
		m.screenRecording = true
		m.sendNotice(Notice{Level: NoticeInfo, Code: NoticeRecordingStarted,
			Message: fmt.Sprintf("screen recording started: %s", filename)})
	case types.EventScreenRecordingStopped:
		m.screenRecording = false
		m.sendNotice(Notice{Level: NoticeInfo, Code: NoticeRecordingStopped,
			Message: fmt.Sprintf("screen recording saved as: %s", filename)})
	case types.EventRoomRecordingStarted:
		m.roomRecording = true
		m.sendNotice(Notice{Level: NoticeInfo, Code: NoticeRecordingStarted,
			Message: fmt.Sprintf("room recording started: %s", filename)})
	case types.EventRoomRecordingStopped:
		m.roomRecording = false
		m.sendNotice(Notice{Level: NoticeInfo, Code: NoticeRecordingStopped,
			Message: fmt.Sprintf("room recording saved as: %s", filename)})
	case types.EventRecordingError:
		m.screenRecording = false
		m.sendNotice(Notice{Level: NoticeError, Code: NoticeRecordingError,
			Message: fmt.Sprintf("recording error: %s", message)})
	}
}

// ApplyEngineEvent applies a notification from the media engine.
func (m *Media) ApplyEngineEvent(ev interfaces.MediaEvent) {
	switch ev.Kind {
	case interfaces.MediaConnected:
		m.connState = MediaConnected
	case interfaces.MediaDisconnected:
		m.connState = MediaDisconnected
	case interfaces.MediaError:
		m.connState = MediaErrored
		log.Printf("media engine error: %v", ev.Err)
	case interfaces.MediaTrackPublished:
		if ev.Local && ev.Source == interfaces.TrackSourceScreenShare {
			m.screenSharing = true
		}
	case interfaces.MediaTrackUnpublished:
		if ev.Local && ev.Source == interfaces.TrackSourceScreenShare {
			m.screenSharing = false
		}
	}
}

// ConnState returns the current transport connection state.
func (m *Media) ConnState() MediaConnState { return m.connState }

// ScreenSharing reports whether the local screen share is published.
func (m *Media) ScreenSharing() bool { return m.screenSharing }

// MicOn reports the last commanded microphone state.
func (m *Media) MicOn() bool { return m.micOn }

// CamOn reports the last commanded camera state.
func (m *Media) CamOn() bool { return m.camOn }

// ScreenRecording reports whether a screen recording is in progress.
func (m *Media) ScreenRecording() bool { return m.screenRecording }

// RoomRecording reports whether a room recording is in progress.
func (m *Media) RoomRecording() bool { return m.roomRecording }

func (m *Media) recordingIntent() map[string]string {
	return map[string]string{
		"scheduleId":   m.scope.ScheduleID,
		"occurrenceId": m.scope.OccurrenceID,
		"userId":       m.scope.UserID,
		"username":     m.scope.Username,
		"role":         m.scope.Role,
	}
}

func (m *Media) sendNotice(n Notice) {
	if m.notify != nil {
		m.notify(n)
	}
}
