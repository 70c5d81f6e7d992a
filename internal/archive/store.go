package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gauravmohjay/admin/pkg/interfaces"
	"github.com/gauravmohjay/admin/pkg/types"
)

// Store keeps a local transcript of room activity in SQLite: chat
// messages as they arrive and recording lifecycle events. Writes are
// funneled through a single goroutine because SQLite tolerates only one
// writer; reads go straight to the pool.
type Store struct {
	db       *sql.DB
	writeCh  chan writeOp
	shutdown chan struct{}
	wg       sync.WaitGroup
	closed   bool
	mu       sync.RWMutex
}

type writeOp struct {
	fn     func(*sql.DB) error
	result chan error
}

// Open opens (or creates) the archive at path and prepares the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:       db,
		writeCh:  make(chan writeOp, 100),
		shutdown: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writeLoop()

	return s, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_id   TEXT NOT NULL,
			occurrence_id TEXT NOT NULL,
			sender_id     TEXT NOT NULL,
			sender_name   TEXT NOT NULL,
			text          TEXT NOT NULL,
			timestamp     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room
			ON messages (schedule_id, occurrence_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS recording_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_id   TEXT NOT NULL,
			occurrence_id TEXT NOT NULL,
			kind          TEXT NOT NULL,
			detail        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recording_events_room
			ON recording_events (schedule_id, occurrence_id, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// writeLoop processes all write operations in a single goroutine.
func (s *Store) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case op := <-s.writeCh:
			err := op.fn(s.db)
			if err != nil {
				log.Printf("archive write failed, retrying: %v", err)
				time.Sleep(500 * time.Millisecond)
				err = op.fn(s.db)
				if err != nil {
					log.Printf("archive write failed after retry: %v", err)
				}
			}
			op.result <- err

		case <-s.shutdown:
			return
		}
	}
}

func (s *Store) executeWrite(fn func(*sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return interfaces.ErrStoreClosed
	}
	s.mu.RUnlock()

	result := make(chan error, 1)

	select {
	case s.writeCh <- writeOp{fn: fn, result: result}:
		return <-result
	case <-time.After(30 * time.Second):
		return fmt.Errorf("archive write timeout")
	case <-s.shutdown:
		return interfaces.ErrStoreClosed
	}
}

// SaveMessage appends one chat message to the transcript.
func (s *Store) SaveMessage(ctx context.Context, scheduleID, occurrenceID string, msg types.ChatMessage) error {
	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO messages (schedule_id, occurrence_id, sender_id, sender_name, text, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			scheduleID,
			occurrenceID,
			msg.SenderID,
			msg.SenderName,
			msg.Text,
			msg.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return nil
	})
}

// SaveRecordingEvent appends one recording lifecycle event.
func (s *Store) SaveRecordingEvent(ctx context.Context, scheduleID, occurrenceID, kind, detail string) error {
	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO recording_events (schedule_id, occurrence_id, kind, detail, timestamp)
			VALUES (?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			scheduleID,
			occurrenceID,
			kind,
			detail,
			time.Now().UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert recording event: %w", err)
		}
		return nil
	})
}

// Messages returns the archived transcript for a room in chronological
// order.
func (s *Store) Messages(ctx context.Context, scheduleID, occurrenceID string) ([]types.ChatMessage, error) {
	query := `
		SELECT sender_id, sender_name, text, timestamp
		FROM messages
		WHERE schedule_id = ? AND occurrence_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, scheduleID, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var messages []types.ChatMessage
	for rows.Next() {
		var msg types.ChatMessage
		if err := rows.Scan(&msg.SenderID, &msg.SenderName, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// RecordingEvents returns the archived recording events for a room in
// chronological order.
func (s *Store) RecordingEvents(ctx context.Context, scheduleID, occurrenceID string) ([]interfaces.RecordingEvent, error) {
	query := `
		SELECT kind, detail, timestamp
		FROM recording_events
		WHERE schedule_id = ? AND occurrence_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, scheduleID, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recording events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []interfaces.RecordingEvent
	for rows.Next() {
		var ev interfaces.RecordingEvent
		if err := rows.Scan(&ev.Kind, &ev.Detail, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan recording event row: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recording event rows: %w", err)
	}

	return events, nil
}

// Close drains the write loop and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	return nil
}
