package types

// Incoming event names delivered on the room channel.
const (
	EventChatHistory            = "chatHistory"
	EventNewChat                = "newChat"
	EventPollHistory            = "pollHistory"
	EventPollEvent              = "pollEvent"
	EventVoteEvent              = "voteEvent"
	EventPollStatusUpdate       = "pollStatusUpdate"
	EventHandRaiseList          = "handRaiseList"
	EventHandEvent              = "handEvent"
	EventActiveParticipants     = "active-participants"
	EventNewParticipant         = "new-participant"
	EventUserLeft               = "userLeft"
	EventKicked                 = "kicked"
	EventRoomClosed             = "roomClosed"
	EventJoinDenied             = "joinDenied"
	EventError                  = "error"
	EventLivekitAuth            = "livekit-auth"
	EventMessageAck             = "messageAck"
	EventCreatePollAck          = "createPollAck"
	EventVoteAck                = "voteAck"
	EventHandRaiseAck           = "handRaiseAck"
	EventHandLowerAck           = "handLowerAck"
	EventScreenRecordingStarted = "screenRecordingStarted"
	EventScreenRecordingStopped = "screenRecordingStopped"
	EventRoomRecordingStarted   = "roomRecordingStarted"
	EventRoomRecordingStopped   = "roomRecordingStopped"
	EventRecordingError         = "recordingError"
)

// Outgoing intent names emitted on the room channel.
const (
	IntentJoinRoom             = "joinRoom"
	IntentLeaveRoom            = "leaveRoom"
	IntentEndRoom              = "endRoom"
	IntentKickUser             = "kickUser"
	IntentChatMessage          = "chatMessage"
	IntentCreatePoll           = "createPoll"
	IntentVotePoll             = "votePoll"
	IntentChangePollStatus     = "changePollStatus"
	IntentRaiseHand            = "raiseHand"
	IntentLowerHand            = "lowerHand"
	IntentRequestLivekitToken  = "request-livekit-token"
	IntentStartScreenRecording = "startScreenRecording"
	IntentStopScreenRecording  = "stopScreenRecording"
	IntentStartRoomRecording   = "startRoomRecording"
	IntentStopRoomRecording    = "stopRoomRecording"
)

// Poll event types carried inside pollEvent / voteEvent payloads.
const (
	PollEventCreated = "pollCreated"
	PollEventUpdate  = "pollUpdate"
)

// Hand event types carried inside handEvent payloads.
const (
	HandEventRaised  = "handRaised"
	HandEventLowered = "handLowered"
)

// Ack status values the server uses.
const (
	AckDelivered = "delivered"
	AckCreated   = "created"
	AckRaised    = "raised"
	AckLowered   = "lowered"
)

// ChatHistoryPayload is the authoritative chat snapshot sent after join.
type ChatHistoryPayload struct {
	Messages        []WireChatMessage `json:"messages"`
	HasMore         bool              `json:"hasMore"`
	OldestTimestamp int64             `json:"oldestTimestamp"`
}

// PollEventPayload is a full poll object plus the event discriminator.
type PollEventPayload struct {
	Poll
	Type string `json:"type"`
}

// PollStatusPayload patches a single poll's active flag.
type PollStatusPayload struct {
	PollID   string `json:"pollId"`
	IsActive bool   `json:"isActive"`
}

// HandEventPayload is an incremental raise/lower delta. Scope fields are
// present so multiplexed broadcasts can be filtered client-side.
type HandEventPayload struct {
	Type         string `json:"type"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	ScheduleID   string `json:"scheduleId"`
	OccurrenceID string `json:"occurrenceId"`
}

// KickedPayload carries the removal reason for this client.
type KickedPayload struct {
	Reason string `json:"reason"`
}

// JoinDeniedPayload is sent instead of snapshots when a join is refused.
type JoinDeniedPayload struct {
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

// ErrorPayload is the server's generic domain error event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// LivekitAuthPayload is the media-transport credential.
type LivekitAuthPayload struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// AckPayload covers the per-intent acknowledgment events. Fields are a
// union; each ack type populates the ones it needs.
type AckPayload struct {
	TempID      string `json:"tempId,omitempty"`
	PollID      string `json:"pollId,omitempty"`
	OptionIndex int    `json:"optionIndex,omitempty"`
	Status      string `json:"status"`
	Votes       int    `json:"votes,omitempty"`
}

// RecordingPayload carries recording lifecycle results.
type RecordingPayload struct {
	Filename string `json:"filename"`
}
