package interfaces

// MediaEventKind discriminates notifications from the media engine's
// own event stream.
type MediaEventKind int

const (
	MediaConnected MediaEventKind = iota
	MediaDisconnected
	MediaTrackPublished
	MediaTrackUnpublished
	MediaError
)

// Track sources as named by the media transport.
const (
	TrackSourceCamera      = "camera"
	TrackSourceMicrophone  = "microphone"
	TrackSourceScreenShare = "screen_share"
)

// MediaEvent is one notification from the media engine.
type MediaEvent struct {
	Kind MediaEventKind
	// Source of a publish/unpublish notification (e.g. "screen_share").
	Source string
	// Local is true when the publication belongs to the local participant.
	Local bool
	Err   error
}

// MediaEngine is the opaque media-transport capability the room drives.
// The engine is an external collaborator: the room sends it commands and
// listens to its events, nothing more.
type MediaEngine interface {
	// Connect joins the media transport with a server-issued credential.
	Connect(url, token string) error
	Close() error

	SetMicEnabled(enabled bool) error
	SetCameraEnabled(enabled bool) error
	SetScreenShareEnabled(enabled bool) error

	// Listen registers the single event listener. The engine must not
	// invoke it after Close returns.
	Listen(handler func(MediaEvent))
}
