// Package recordstore persists onboarding sessions and their field
// emissions in SQLite.
//
// It expects an *sql.DB backed by a SQLite driver. Open registers
// modernc.org/sqlite; callers using New import a driver themselves.
package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/sink"
)

// Session statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// ErrSessionNotFound is returned when no session matches an ID.
var ErrSessionNotFound = errors.New("recordstore: session not found")

// Session is a persisted onboarding run.
type Session struct {
	ID          string
	FlowID      string
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
	Records     []model.Record
}

// Data replays the records into a page -> field -> value map, last write
// wins.
func (s Session) Data() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, rec := range s.Records {
		fields, ok := out[rec.PageID]
		if !ok {
			fields = make(map[string]any)
			out[rec.PageID] = fields
		}
		fields[rec.FieldID] = rec.Value
	}
	return out
}

// Store is a SQLite backed session store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the parent directory of path, opens the database and
// prepares the schema. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("recordstore: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("recordstore: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	store, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New prepares the schema on db.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("recordstore: init schema: %w", err)
	}
	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			flow_id TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			completed_at INTEGER
		);`,
	`CREATE TABLE IF NOT EXISTS records (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			page_id TEXT NOT NULL,
			field_id TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (session_id, seq)
		);`,
}

func (s *Store) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin inserts a running session. An empty id gets a fresh UUID.
func (s *Store) Begin(ctx context.Context, id, flowID string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, flow_id, status, started_at) VALUES (?, ?, ?, ?)`,
		id, flowID, StatusRunning, s.now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("recordstore: begin %s: %w", id, err)
	}
	return id, nil
}

// Append stores one emission at the end of the session's log.
func (s *Store) Append(ctx context.Context, sessionID string, rec model.Record) error {
	value, err := json.Marshal(rec.Value)
	if err != nil {
		return fmt.Errorf("recordstore: encode %s/%s: %w", rec.PageID, rec.FieldID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (session_id, seq, page_id, field_id, value)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM records WHERE session_id = ?), ?, ?, ?)`,
		sessionID, sessionID, rec.PageID, rec.FieldID, string(value),
	)
	if err != nil {
		return fmt.Errorf("recordstore: append %s: %w", sessionID, err)
	}
	return nil
}

// Finish marks the session completed or aborted.
func (s *Store) Finish(ctx context.Context, sessionID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, completed_at = ? WHERE id = ?`,
		status, s.now().UnixMilli(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("recordstore: finish %s: %w", sessionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Callback returns a sink callback that appends every emission except
// password values, which are never persisted. Write failures are handed to
// onErr, which may be nil.
func (s *Store) Callback(ctx context.Context, sessionID string, onErr func(error)) sink.Callback {
	if onErr == nil {
		onErr = func(error) {}
	}
	return func(resp model.StepResponse, pageID string) {
		if f, ok := resp.Source.FieldByKey(resp.Data.ID); ok && f.Type == model.FieldTypePassword {
			return
		}
		rec := model.Record{PageID: pageID, FieldID: resp.Data.ID, Value: resp.Data.Value}
		if err := s.Append(ctx, sessionID, rec); err != nil {
			onErr(err)
		}
	}
}

// Get loads a session with its records in emission order.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var (
		sess      Session
		started   int64
		completed sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, flow_id, status, started_at, completed_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.FlowID, &sess.Status, &started, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("recordstore: get %s: %w", id, err)
	}
	sess.StartedAt = time.UnixMilli(started)
	if completed.Valid {
		t := time.UnixMilli(completed.Int64)
		sess.CompletedAt = &t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT page_id, field_id, value FROM records WHERE session_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return Session{}, fmt.Errorf("recordstore: records %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec model.Record
			raw sql.NullString
		)
		if err := rows.Scan(&rec.PageID, &rec.FieldID, &raw); err != nil {
			return Session{}, err
		}
		if raw.Valid && raw.String != "" {
			if err := json.Unmarshal([]byte(raw.String), &rec.Value); err != nil {
				return Session{}, fmt.Errorf("recordstore: decode %s/%s: %w", rec.PageID, rec.FieldID, err)
			}
		}
		sess.Records = append(sess.Records, rec)
	}
	return sess, rows.Err()
}

// List returns session IDs for flowID, newest first. An empty flowID lists
// every session.
func (s *Store) List(ctx context.Context, flowID string) ([]string, error) {
	query := `SELECT id FROM sessions ORDER BY started_at DESC, id`
	args := []any{}
	if flowID != "" {
		query = `SELECT id FROM sessions WHERE flow_id = ? ORDER BY started_at DESC, id`
		args = append(args, flowID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recordstore: list: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
