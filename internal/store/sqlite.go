package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable default: one local file, no external services.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "bridged.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL keeps concurrent pipeline writes from tripping over readers.
	dsn := path + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'active'
	);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		seq INTEGER,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		input_text TEXT NOT NULL,
		output_text TEXT NOT NULL,
		intent TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq DESC);
	CREATE TABLE IF NOT EXISTS agent_logs (
		id TEXT PRIMARY KEY,
		seq INTEGER,
		session_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		phase TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_agent_logs_session ON agent_logs(session_id, seq DESC);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, id string, metadata map[string]any) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, metadata) VALUES (?, ?, ?)`,
		id, formatTime(time.Now().UTC()), string(meta),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, metadata, status FROM sessions WHERE id = ?`, id)

	var (
		sess    Session
		created string
		meta    string
	)
	err := row.Scan(&sess.ID, &created, &meta, &sess.Status)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session row: %w", err)
	}
	if sess.CreatedAt, err = parseTime(created); err != nil {
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(meta), &sess.Metadata); err != nil {
		return Session{}, fmt.Errorf("decode session metadata: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, metadata, status FROM sessions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := make([]Session, 0, limit)
	for rows.Next() {
		var (
			sess    Session
			created string
			meta    string
		)
		if err := rows.Scan(&sess.ID, &created, &meta, &sess.Status); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if sess.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &sess.Metadata); err != nil {
			return nil, fmt.Errorf("decode session metadata: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) StoreInteraction(ctx context.Context, rec Interaction) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, seq, session_id, input_text, output_text, intent, confidence, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages), ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Input, rec.Output, rec.Intent, rec.Confidence, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("store interaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentInteractions(ctx context.Context, sessionID string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, input_text, output_text, intent, confidence, created_at
		 FROM messages WHERE session_id = ? ORDER BY seq DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	out := make([]Interaction, 0, limit)
	for rows.Next() {
		var (
			r       Interaction
			created string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Input, &r.Output, &r.Intent, &r.Confidence, &created); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AppendTrace(ctx context.Context, entry TraceEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	payload, err := marshalMetadata(entry.Payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agent_logs (id, seq, session_id, stage, phase, payload, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM agent_logs), ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.Stage, string(entry.Phase), string(payload), formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append trace: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentTrace(ctx context.Context, sessionID string, limit int) ([]TraceEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows *sql.Rows
		err  error
	)
	if sessionID == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, seq, session_id, stage, phase, payload, created_at
			 FROM agent_logs ORDER BY seq DESC LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, seq, session_id, stage, phase, payload, created_at
			 FROM agent_logs WHERE session_id = ? ORDER BY seq DESC LIMIT ?`, sessionID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	out := make([]TraceEntry, 0, limit)
	for rows.Next() {
		var (
			e       TraceEntry
			payload string
			created string
		)
		if err := rows.Scan(&e.ID, &e.Seq, &e.SessionID, &e.Stage, &e.Phase, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan trace row: %w", err)
		}
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("decode trace payload: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", v, err)
	}
	return t, nil
}
