package room

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gauravmohjay/admin/pkg/interfaces"
	"github.com/gauravmohjay/admin/pkg/types"
)

// Session owns one room visit: the channel subscriptions, the domain
// reducers, and the scope they are bound to. All reducer mutations are
// serialized through one mutex, so channel events, timer callbacks, and
// caller intents form a single logical queue. The session borrows the
// channel; it never owns its lifetime.
type Session struct {
	mu sync.Mutex

	ch     interfaces.EventChannel
	store  interfaces.TranscriptStore
	notify NoticeFunc

	scope  types.RoomScope
	joined bool
	subs   []interfaces.Subscription

	presence  *Presence
	chat      *Chat
	polls     *Polls
	hands     *Hands
	lifecycle *Lifecycle
	media     *Media
}

// NewSession wires a session over a channel. engine and store may be
// nil (chat-only, no local archive). notify may be nil.
func NewSession(ch interfaces.EventChannel, engine interfaces.MediaEngine, store interfaces.TranscriptStore, notify NoticeFunc, handRaiseTimeout time.Duration) *Session {
	s := &Session{
		ch:        ch,
		store:     store,
		notify:    notify,
		presence:  NewPresence(),
		chat:      NewChat(),
		polls:     NewPolls(types.RoomScope{}),
		lifecycle: NewLifecycle(),
	}
	s.hands = NewHands(types.RoomScope{}, handRaiseTimeout, s.handleHandExpiry)
	s.media = NewMedia(ch, engine, notify)
	if engine != nil {
		engine.Listen(s.handleMediaEvent)
	}
	return s
}

// Join enters a room scope. Any previous scope is torn down first:
// handlers detach and every reducer resets before the new handlers
// attach, so an event for the old scope can never mutate the new one.
func (s *Session) Join(scope types.RoomScope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.teardownLocked()
	s.scope = scope
	s.joined = true
	s.presence.Reset()
	s.chat.Reset()
	s.polls.Reset(scope)
	s.hands.Reset(scope)
	s.lifecycle.Reset()
	s.media.Reset(scope)
	s.attachLocked()
	s.mu.Unlock()

	if err := s.ch.Emit(types.IntentJoinRoom, scope); err != nil {
		return err
	}

	s.mu.Lock()
	err := s.media.RequestToken()
	s.mu.Unlock()
	if err != nil {
		log.Printf("media token request failed: %v", err)
	}

	log.Printf("joined room: schedule=%s occurrence=%s user=%s role=%s",
		scope.ScheduleID, scope.OccurrenceID, scope.UserID, scope.Role)
	return nil
}

// Rejoin re-issues the join intent for the active scope. Wired to the
// channel's reconnect hook so a dropped connection converges through
// fresh server snapshots.
func (s *Session) Rejoin() {
	s.mu.Lock()
	joined := s.joined && s.lifecycle.CanSend()
	scope := s.scope
	s.mu.Unlock()

	if !joined {
		return
	}
	if err := s.ch.Emit(types.IntentJoinRoom, scope); err != nil {
		log.Printf("rejoin emit failed: %v", err)
	}
}

// Leave emits the leave intent, detaches all subscriptions, and resets
// the raised-hands state. Chat, poll, and presence history stay readable
// until the next Join replaces them; intents are gated meanwhile.
func (s *Session) Leave() {
	s.mu.Lock()
	if !s.joined {
		s.mu.Unlock()
		return
	}
	scope := s.scope
	s.joined = false
	s.teardownLocked()
	s.hands.Reset(types.RoomScope{})
	s.mu.Unlock()

	if err := s.ch.Emit(types.IntentLeaveRoom, scope); err != nil {
		log.Printf("leave emit failed: %v", err)
	}
	log.Printf("left room: schedule=%s occurrence=%s", scope.ScheduleID, scope.OccurrenceID)
}

// teardownLocked detaches every subscription and cancels timers. Must
// complete before a new scope's handlers attach.
func (s *Session) teardownLocked() {
	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
}

// on attaches one handler guarded by the scope captured at attach time.
// Even if old and new subscriptions are briefly alive during a swap,
// the guard keeps a stale event from touching the new scope's state.
func (s *Session) on(scope types.RoomScope, event string, fn func(json.RawMessage)) {
	sub := s.ch.On(event, func(payload json.RawMessage) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.joined || s.scope != scope {
			return
		}
		fn(payload)
	})
	s.subs = append(s.subs, sub)
}

func (s *Session) attachLocked() {
	scope := s.scope

	s.on(scope, types.EventActiveParticipants, func(p json.RawMessage) {
		var list []types.ParticipantEntry
		if err := json.Unmarshal(p, &list); err != nil {
			return
		}
		s.presence.ApplySnapshot(list)
	})
	s.on(scope, types.EventNewParticipant, func(p json.RawMessage) {
		var entry types.ParticipantEntry
		if err := json.Unmarshal(p, &entry); err != nil {
			return
		}
		s.presence.ApplyJoin(entry)
	})
	s.on(scope, types.EventUserLeft, func(p json.RawMessage) {
		var entry types.ParticipantEntry
		if err := json.Unmarshal(p, &entry); err != nil {
			return
		}
		s.presence.ApplyLeave(entry)
	})

	s.on(scope, types.EventChatHistory, func(p json.RawMessage) {
		var payload types.ChatHistoryPayload
		if err := json.Unmarshal(p, &payload); err != nil {
			return
		}
		s.chat.ApplyHistorySnapshot(payload.Messages, payload.HasMore, payload.OldestTimestamp)
	})
	s.on(scope, types.EventNewChat, func(p json.RawMessage) {
		var row types.WireChatMessage
		if err := json.Unmarshal(p, &row); err != nil {
			return
		}
		msg := s.chat.ApplyLiveMessage(row)
		s.archiveMessage(msg)
	})

	s.on(scope, types.EventPollHistory, func(p json.RawMessage) {
		var history []types.Poll
		if err := json.Unmarshal(p, &history); err != nil {
			return
		}
		s.polls.ApplyHistorySnapshot(history)
	})
	s.on(scope, types.EventPollEvent, func(p json.RawMessage) {
		var ev types.PollEventPayload
		if err := json.Unmarshal(p, &ev); err != nil {
			return
		}
		if ev.Type == types.PollEventCreated || ev.Type == types.PollEventUpdate {
			s.polls.Upsert(ev.Poll)
		}
	})
	s.on(scope, types.EventVoteEvent, func(p json.RawMessage) {
		var ev types.PollEventPayload
		if err := json.Unmarshal(p, &ev); err != nil {
			return
		}
		if ev.Type == types.PollEventUpdate {
			s.polls.Upsert(ev.Poll)
		}
	})
	s.on(scope, types.EventPollStatusUpdate, func(p json.RawMessage) {
		var ev types.PollStatusPayload
		if err := json.Unmarshal(p, &ev); err != nil {
			return
		}
		s.polls.ApplyStatusUpdate(ev.PollID, ev.IsActive)
	})

	s.on(scope, types.EventHandRaiseList, func(p json.RawMessage) {
		var list []types.RaisedHand
		if err := json.Unmarshal(p, &list); err != nil {
			return
		}
		s.hands.ApplyFullList(list)
	})
	s.on(scope, types.EventHandEvent, func(p json.RawMessage) {
		var ev types.HandEventPayload
		if err := json.Unmarshal(p, &ev); err != nil {
			return
		}
		s.hands.ApplyRemoteHandEvent(ev)
	})
	s.on(scope, types.EventHandRaiseAck, func(p json.RawMessage) {
		var ack types.AckPayload
		if err := json.Unmarshal(p, &ack); err != nil {
			return
		}
		s.hands.ApplyRaiseAck(ack.Status)
	})
	s.on(scope, types.EventHandLowerAck, func(p json.RawMessage) {
		var ack types.AckPayload
		if err := json.Unmarshal(p, &ack); err != nil {
			return
		}
		s.hands.ApplyLowerAck(ack.Status)
	})

	s.on(scope, types.EventRoomClosed, func(json.RawMessage) {
		s.lifecycle.ApplyRoomClosed()
		s.sendNotice(Notice{Level: NoticeWarn, Code: NoticeRoomClosed, Message: "room closed by host"})
	})
	s.on(scope, types.EventKicked, func(p json.RawMessage) {
		var payload types.KickedPayload
		_ = json.Unmarshal(p, &payload)
		reason := payload.Reason
		if reason == "" {
			reason = "you have been removed from the meeting"
		}
		s.lifecycle.ApplyKicked(reason)
		s.sendNotice(Notice{Level: NoticeWarn, Code: NoticeKicked, Message: reason})
	})
	s.on(scope, types.EventJoinDenied, func(p json.RawMessage) {
		var payload types.JoinDeniedPayload
		_ = json.Unmarshal(p, &payload)
		reason := payload.Reason
		if reason == "" {
			reason = payload.Code
		}
		if reason == "" {
			reason = "unknown"
		}
		s.sendNotice(Notice{Level: NoticeError, Code: NoticeJoinDenied, Message: "join denied: " + reason})
	})
	s.on(scope, types.EventError, func(p json.RawMessage) {
		var payload types.ErrorPayload
		_ = json.Unmarshal(p, &payload)
		msg := payload.Message
		if msg == "" {
			msg = "unknown error"
		}
		s.sendNotice(Notice{Level: NoticeError, Code: NoticeServerError, Message: msg})
	})

	s.on(scope, types.EventMessageAck, func(p json.RawMessage) {
		var ack types.AckPayload
		if err := json.Unmarshal(p, &ack); err != nil {
			return
		}
		if ack.Status != types.AckDelivered {
			log.Printf("chat message not delivered: tempId=%s status=%s", ack.TempID, ack.Status)
		}
	})
	s.on(scope, types.EventCreatePollAck, func(p json.RawMessage) {
		var ack types.AckPayload
		if err := json.Unmarshal(p, &ack); err != nil {
			return
		}
		if ack.Status == types.AckCreated {
			s.sendNotice(Notice{Level: NoticeInfo, Code: NoticePollCreated, Message: "poll created"})
		}
	})
	s.on(scope, types.EventVoteAck, func(p json.RawMessage) {
		var ack types.AckPayload
		if err := json.Unmarshal(p, &ack); err != nil {
			return
		}
		log.Printf("vote recorded: pollId=%s option=%d votes=%d", ack.PollID, ack.OptionIndex, ack.Votes)
	})

	s.on(scope, types.EventLivekitAuth, func(p json.RawMessage) {
		var auth types.LivekitAuthPayload
		if err := json.Unmarshal(p, &auth); err != nil {
			return
		}
		s.media.ApplyAuth(auth)
	})
	for _, event := range []string{
		types.EventScreenRecordingStarted,
		types.EventScreenRecordingStopped,
		types.EventRoomRecordingStarted,
		types.EventRoomRecordingStopped,
	} {
		event := event
		s.on(scope, event, func(p json.RawMessage) {
			var payload types.RecordingPayload
			_ = json.Unmarshal(p, &payload)
			s.media.ApplyRecordingEvent(event, payload.Filename, "")
			s.archiveRecordingEvent(event, payload.Filename)
		})
	}
	s.on(scope, types.EventRecordingError, func(p json.RawMessage) {
		var payload types.ErrorPayload
		_ = json.Unmarshal(p, &payload)
		s.media.ApplyRecordingEvent(types.EventRecordingError, "", payload.Message)
		s.archiveRecordingEvent(types.EventRecordingError, payload.Message)
	})
}

// ---- outgoing intents ----

type chatIntent struct {
	ScheduleID   string `json:"scheduleId"`
	OccurrenceID string `json:"occurrenceId"`
	Text         string `json:"text"`
	TempID       string `json:"tempId"`
}

type createPollIntent struct {
	ScheduleID   string   `json:"scheduleId"`
	OccurrenceID string   `json:"occurrenceId"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
}

type voteIntent struct {
	PollID      string `json:"pollId"`
	OptionIndex int    `json:"optionIndex"`
}

type pollStatusIntent struct {
	ScheduleID   string  `json:"scheduleId"`
	OccurrenceID *string `json:"occurrenceId"`
	PollID       string  `json:"pollId"`
	IsActive     bool    `json:"isActive"`
}

type handIntent struct {
	ScheduleID   string `json:"scheduleId"`
	OccurrenceID string `json:"occurrenceId"`
}

type kickIntent struct {
	ScheduleID     string `json:"scheduleId"`
	OccurrenceID   string `json:"occurrenceId"`
	PlatformID     string `json:"platformId"`
	UserID         string `json:"userId"`
	TargetUserID   string `json:"targetUserId"`
	TargetUsername string `json:"targetUsername"`
}

// gate returns the active scope if the room still accepts mutation
// intents.
func (s *Session) gate() (types.RoomScope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.joined {
		return types.RoomScope{}, ErrNotJoined
	}
	if !s.lifecycle.CanSend() {
		return types.RoomScope{}, ErrRoomClosed
	}
	return s.scope, nil
}

// SendMessage emits a chat intent. The message is not appended locally;
// it appears when the server echoes it back as a live message.
func (s *Session) SendMessage(text string) error {
	trimmed, err := types.ValidateChatText(text)
	if err != nil {
		return err
	}
	scope, err := s.gate()
	if err != nil {
		return err
	}
	return s.ch.Emit(types.IntentChatMessage, chatIntent{
		ScheduleID:   scope.ScheduleID,
		OccurrenceID: scope.OccurrenceID,
		Text:         trimmed,
		TempID:       uuid.New().String(),
	})
}

// CreatePoll validates locally and emits a creation intent. The poll
// list is not updated optimistically; it waits for the server's
// poll-created broadcast.
func (s *Session) CreatePoll(question string, options []string) error {
	q, opts, err := types.ValidatePollInput(question, options)
	if err != nil {
		return err
	}
	scope, err := s.gate()
	if err != nil {
		return err
	}
	return s.ch.Emit(types.IntentCreatePoll, createPollIntent{
		ScheduleID:   scope.ScheduleID,
		OccurrenceID: scope.OccurrenceID,
		Question:     q,
		Options:      opts,
	})
}

// Vote forwards a vote without option-bounds validation; the server is
// authoritative on rejecting invalid votes.
func (s *Session) Vote(pollID string, optionIndex int) error {
	if _, err := s.gate(); err != nil {
		return err
	}
	return s.ch.Emit(types.IntentVotePoll, voteIntent{PollID: pollID, OptionIndex: optionIndex})
}

// TogglePollStatus emits the inverted status for a poll and applies the
// same patch optimistically. The server's own broadcast of the change
// confirms it shortly after; last write wins by arrival order.
func (s *Session) TogglePollStatus(pollID string) error {
	s.mu.Lock()
	if !s.joined {
		s.mu.Unlock()
		return ErrNotJoined
	}
	if !s.lifecycle.CanSend() {
		s.mu.Unlock()
		return ErrRoomClosed
	}
	poll, ok := s.polls.Get(pollID)
	if !ok {
		s.mu.Unlock()
		return ErrPollNotFound
	}
	newStatus := !poll.IsActive
	s.polls.ApplyStatusUpdate(pollID, newStatus)
	s.mu.Unlock()

	return s.ch.Emit(types.IntentChangePollStatus, pollStatusIntent{
		ScheduleID:   poll.ScheduleID,
		OccurrenceID: poll.OccurrenceID,
		PollID:       poll.ID,
		IsActive:     newStatus,
	})
}

// RaiseHand emits the raise intent. The local flag flips only when the
// server acknowledges.
func (s *Session) RaiseHand() error {
	scope, err := s.gate()
	if err != nil {
		return err
	}
	return s.ch.Emit(types.IntentRaiseHand, handIntent{
		ScheduleID:   scope.ScheduleID,
		OccurrenceID: scope.OccurrenceID,
	})
}

// LowerHand emits the lower intent.
func (s *Session) LowerHand() error {
	scope, err := s.gate()
	if err != nil {
		return err
	}
	return s.ch.Emit(types.IntentLowerHand, handIntent{
		ScheduleID:   scope.ScheduleID,
		OccurrenceID: scope.OccurrenceID,
	})
}

// EndRoom emits the host-only end intent for the whole room.
func (s *Session) EndRoom() error {
	scope, err := s.gate()
	if err != nil {
		return err
	}
	if !scope.IsHost() {
		return ErrHostOnly
	}
	return s.ch.Emit(types.IntentEndRoom, scope)
}

// KickUser emits the host-only removal intent for a participant.
func (s *Session) KickUser(targetUserID, targetUsername string) error {
	scope, err := s.gate()
	if err != nil {
		return err
	}
	if !scope.IsHost() {
		return ErrHostOnly
	}
	return s.ch.Emit(types.IntentKickUser, kickIntent{
		ScheduleID:     scope.ScheduleID,
		OccurrenceID:   scope.OccurrenceID,
		PlatformID:     scope.PlatformID,
		UserID:         scope.UserID,
		TargetUserID:   targetUserID,
		TargetUsername: targetUsername,
	})
}

// ---- media commands ----

// ToggleMic flips the local microphone. Engine-local, not gated by the
// room lifecycle.
func (s *Session) ToggleMic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.ToggleMic()
}

// ToggleCamera flips the local camera.
func (s *Session) ToggleCamera() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.ToggleCamera()
}

// ToggleScreenShare flips local screen share.
func (s *Session) ToggleScreenShare() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.ToggleScreenShare()
}

// StartScreenRecording emits the host-only intent, requiring an active
// local screen share.
func (s *Session) StartScreenRecording() error {
	if _, err := s.gate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.StartScreenRecording()
}

// StopScreenRecording emits the host-only stop intent.
func (s *Session) StopScreenRecording() error {
	if _, err := s.gate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.StopScreenRecording()
}

// StartRoomRecording emits the host-only intent.
func (s *Session) StartRoomRecording() error {
	if _, err := s.gate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.StartRoomRecording()
}

// StopRoomRecording emits the host-only stop intent.
func (s *Session) StopRoomRecording() error {
	if _, err := s.gate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.StopRoomRecording()
}

// ---- state accessors ----

// Scope returns the active room scope.
func (s *Session) Scope() types.RoomScope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Participants returns the current membership set.
func (s *Session) Participants() []types.ParticipantEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presence.Participants()
}

// Messages returns the current chat history.
func (s *Session) Messages() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.Messages()
}

// HasMoreMessages reports whether older history can be backfilled.
func (s *Session) HasMoreMessages() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.HasMore()
}

// Polls returns the current poll set.
func (s *Session) Polls() []types.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls.Polls()
}

// RaisedHands returns the raised-hands set.
func (s *Session) RaisedHands() []types.RaisedHand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands.Raised()
}

// HandRaised reports the acknowledged state of the local hand.
func (s *Session) HandRaised() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands.LocalRaised()
}

// LifecycleState returns the room lifecycle state.
func (s *Session) LifecycleState() types.RoomLifecycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.State()
}

// KickReason returns the ejection reason, empty if not ejected.
func (s *Session) KickReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.KickReason()
}

// MediaConnState returns the media transport connection state.
func (s *Session) MediaConnState() MediaConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.ConnState()
}

// ScreenSharing reports whether local screen share is published.
func (s *Session) ScreenSharing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media.ScreenSharing()
}

// ---- internal callbacks ----

// handleHandExpiry runs on the auto-lower timer's goroutine and
// re-enters the session lock before touching state.
func (s *Session) handleHandExpiry() {
	s.mu.Lock()
	shouldEmit := false
	var scope types.RoomScope
	if s.joined && s.hands.Expire() {
		shouldEmit = s.lifecycle.CanSend()
		scope = s.scope
	}
	s.mu.Unlock()

	if !shouldEmit {
		return
	}
	if err := s.ch.Emit(types.IntentLowerHand, handIntent{
		ScheduleID:   scope.ScheduleID,
		OccurrenceID: scope.OccurrenceID,
	}); err != nil {
		log.Printf("auto-lower emit failed: %v", err)
	}
}

// handleMediaEvent may be invoked synchronously from inside an engine
// command issued under the session lock, so it hops to a fresh
// goroutine before taking the lock itself.
func (s *Session) handleMediaEvent(ev interfaces.MediaEvent) {
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.media.ApplyEngineEvent(ev)
	}()
}

func (s *Session) sendNotice(n Notice) {
	if s.notify != nil {
		s.notify(n)
	}
}

func (s *Session) archiveMessage(msg types.ChatMessage) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveMessage(context.Background(), s.scope.ScheduleID, s.scope.OccurrenceID, msg); err != nil {
		log.Printf("transcript archive failed: %v", err)
	}
}

func (s *Session) archiveRecordingEvent(kind, detail string) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRecordingEvent(context.Background(), s.scope.ScheduleID, s.scope.OccurrenceID, kind, detail); err != nil {
		log.Printf("recording archive failed: %v", err)
	}
}
