package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauravmohjay/admin/internal/archive"
	"github.com/gauravmohjay/admin/internal/channel"
	"github.com/gauravmohjay/admin/internal/media"
	"github.com/gauravmohjay/admin/internal/room"
	"github.com/gauravmohjay/admin/pkg/interfaces"
	"github.com/gauravmohjay/admin/pkg/types"
)

var (
	roomScheduleID   string
	roomOccurrenceID string
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Join a live room and drive it interactively",
	Long: `Joins the given schedule occurrence over the realtime channel and
reads commands from stdin. Type /help inside the session for the
command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if roomScheduleID == "" {
			return fmt.Errorf("--schedule is required")
		}

		scope := types.RoomScope{
			ScheduleID:   roomScheduleID,
			OccurrenceID: roomOccurrenceID,
			PlatformID:   cfg.Identity.PlatformID,
			UserID:       cfg.Identity.UserID,
			Username:     cfg.Identity.Username,
			Role:         cfg.Identity.Role,
		}
		if err := scope.Validate(); err != nil {
			return err
		}

		var store interfaces.TranscriptStore
		if cfg.Archive.Enabled {
			s, err := archive.Open(cfg.Archive.Path)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			store = s
			defer func() { _ = s.Close() }()
		}

		client := channel.New(channel.Options{
			URL:              cfg.Server.URL + cfg.Server.Namespace,
			Token:            cfg.Server.Token,
			HandshakeTimeout: cfg.Server.HandshakeTimeout,
			WriteTimeout:     cfg.Server.WriteTimeout,
			ReconnectMin:     cfg.Server.ReconnectMin,
			ReconnectMax:     cfg.Server.ReconnectMax,
		})
		defer func() { _ = client.Close() }()

		engine := media.NewHeadlessEngine()
		defer func() { _ = engine.Close() }()

		sess := room.NewSession(client, engine, store, printNotice, cfg.Room.HandRaiseTimeout)
		client.OnConnect(sess.Rejoin)
		client.Start()

		// The first join also rides OnConnect via Rejoin once the dial
		// completes, but an explicit join covers the already-connected
		// case and surfaces validation errors immediately.
		if err := sess.Join(scope); err != nil {
			return err
		}

		runRoomLoop(sess)
		sess.Leave()
		// Give the leave intent a moment on the wire before the
		// connection drops.
		time.Sleep(100 * time.Millisecond)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roomCmd)

	roomCmd.Flags().StringVar(&roomScheduleID, "schedule", "", "schedule ID of the room")
	roomCmd.Flags().StringVar(&roomOccurrenceID, "occurrence", "", "occurrence ID of the sitting")
}

func printNotice(n room.Notice) {
	fmt.Printf("[%s] %s\n", n.Level, n.Message)
}

func runRoomLoop(sess *room.Session) {
	fmt.Println("in room; /help for commands, /quit to exit")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "/") {
			if err := sess.SendMessage(line); err != nil {
				fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
			}
			continue
		}

		fields := strings.Fields(line)
		command, rest := fields[0], fields[1:]
		if done := runRoomCommand(sess, command, rest, line); done {
			return
		}
	}
}

// runRoomCommand dispatches one slash command. Returns true when the
// loop should exit.
func runRoomCommand(sess *room.Session, command string, args []string, line string) bool {
	fail := func(err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", command, err)
		}
	}

	switch command {
	case "/quit", "/exit":
		return true

	case "/help":
		printRoomHelp()

	case "/participants":
		for _, p := range sess.Participants() {
			fmt.Printf("  %s (%s)\n", p.Username, p.UserID)
		}
		fmt.Printf("%d participant(s)\n", len(sess.Participants()))

	case "/messages":
		for _, m := range sess.Messages() {
			ts := time.UnixMilli(m.Timestamp).Format("15:04:05")
			fmt.Printf("  [%s] %s: %s\n", ts, m.SenderName, m.Text)
		}

	case "/polls":
		for _, p := range sess.Polls() {
			status := "closed"
			if p.IsActive {
				status = "active"
			}
			fmt.Printf("  %s [%s] %s\n", p.ID, status, p.Question)
			for i, opt := range p.Options {
				fmt.Printf("    %d. %s (%d)\n", i, opt.Text, opt.Votes)
			}
		}

	case "/poll":
		// /poll question | option | option ...
		parts := strings.Split(strings.TrimSpace(strings.TrimPrefix(line, "/poll")), "|")
		if len(parts) < 3 {
			fmt.Fprintln(os.Stderr, "usage: /poll question | option | option [| option ...]")
			return false
		}
		question := strings.TrimSpace(parts[0])
		options := make([]string, 0, len(parts)-1)
		for _, p := range parts[1:] {
			options = append(options, strings.TrimSpace(p))
		}
		fail(sess.CreatePoll(question, options))

	case "/vote":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: /vote <pollId> <optionIndex>")
			return false
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "option index must be a number")
			return false
		}
		fail(sess.Vote(args[0], idx))

	case "/toggle":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: /toggle <pollId>")
			return false
		}
		fail(sess.TogglePollStatus(args[0]))

	case "/raise":
		fail(sess.RaiseHand())

	case "/lower":
		fail(sess.LowerHand())

	case "/hands":
		for _, h := range sess.RaisedHands() {
			fmt.Printf("  %s (%s)\n", h.Username, h.UserID)
		}
		fmt.Printf("own hand raised: %t\n", sess.HandRaised())

	case "/kick":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: /kick <userId> <username>")
			return false
		}
		fail(sess.KickUser(args[0], strings.Join(args[1:], " ")))

	case "/end":
		fail(sess.EndRoom())

	case "/mic":
		fail(sess.ToggleMic())

	case "/cam":
		fail(sess.ToggleCamera())

	case "/share":
		fail(sess.ToggleScreenShare())

	case "/recscreen":
		if len(args) == 1 && args[0] == "stop" {
			fail(sess.StopScreenRecording())
		} else {
			fail(sess.StartScreenRecording())
		}

	case "/recroom":
		if len(args) == 1 && args[0] == "stop" {
			fail(sess.StopRoomRecording())
		} else {
			fail(sess.StartRoomRecording())
		}

	case "/status":
		fmt.Printf("room: %s  media: %s  sharing: %t\n",
			sess.LifecycleState(), sess.MediaConnState(), sess.ScreenSharing())
		if reason := sess.KickReason(); reason != "" {
			fmt.Printf("removed: %s\n", reason)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %s; /help for the list\n", command)
	}

	return false
}

func printRoomHelp() {
	fmt.Print(`  <text>                      send a chat message
  /participants               list who is in the room
  /messages                   show chat history
  /polls                      list polls with tallies
  /poll q | opt | opt         create a poll
  /vote <pollId> <idx>        vote on a poll
  /toggle <pollId>            open or close a poll
  /raise  /lower  /hands      hand raising
  /kick <userId> <name>       remove a participant (host)
  /end                        end the room (host)
  /mic  /cam  /share          media toggles
  /recscreen [stop]           screen recording (host)
  /recroom [stop]             room recording (host)
  /status                     session status
  /quit                       leave the room
`)
}
