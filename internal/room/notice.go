package room

// NoticeLevel classifies a notice for the presentation boundary.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarn
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeInfo:
		return "info"
	case NoticeWarn:
		return "warn"
	case NoticeError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a structured user-facing signal emitted by the domain
// components to a single presentation callback. It replaces direct UI
// side effects inside event handlers, which keeps the domain logic
// testable without a UI harness.
type Notice struct {
	Level   NoticeLevel
	Code    string
	Message string
}

// Notice codes.
const (
	NoticeJoinDenied       = "joinDenied"
	NoticeKicked           = "kicked"
	NoticeRoomClosed       = "roomClosed"
	NoticeServerError      = "serverError"
	NoticePollCreated      = "pollCreated"
	NoticeRecordingStarted = "recordingStarted"
	NoticeRecordingStopped = "recordingStopped"
	NoticeRecordingError   = "recordingError"
)

// NoticeFunc receives notices at the presentation boundary. A nil
// NoticeFunc is valid and drops notices.
type NoticeFunc func(Notice)
