package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the bridge's sessions, interactions, and trace in
// PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			status TEXT NOT NULL DEFAULT 'active'
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			input_text TEXT NOT NULL,
			output_text TEXT NOT NULL,
			intent TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session_seq ON messages (session_id, seq DESC);`,
		`CREATE TABLE IF NOT EXISTS agent_logs (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			session_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			phase TEXT NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_agent_logs_session_seq ON agent_logs (session_id, seq DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, id string, metadata map[string]any) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, created_at, metadata) VALUES ($1, $2, $3)`,
		id, time.Now().UTC(), meta,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (Session, error) {
	var (
		sess Session
		meta []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, created_at, metadata, status FROM sessions WHERE id=$1`,
		id,
	).Scan(&sess.ID, &sess.CreatedAt, &meta, &sess.Status)
	if err == pgx.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal(meta, &sess.Metadata); err != nil {
		return Session{}, fmt.Errorf("decode session metadata: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, metadata, status FROM sessions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := make([]Session, 0, limit)
	for rows.Next() {
		var (
			sess Session
			meta []byte
		)
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &meta, &sess.Status); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if err := json.Unmarshal(meta, &sess.Metadata); err != nil {
			return nil, fmt.Errorf("decode session metadata: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET status=$2 WHERE id=$1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) StoreInteraction(ctx context.Context, rec Interaction) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, session_id, input_text, output_text, intent, confidence, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.SessionID, rec.Input, rec.Output, rec.Intent, rec.Confidence, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store interaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentInteractions(ctx context.Context, sessionID string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, input_text, output_text, intent, confidence, created_at
		 FROM messages WHERE session_id=$1 ORDER BY seq DESC LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	out := make([]Interaction, 0, limit)
	for rows.Next() {
		var r Interaction
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Input, &r.Output, &r.Intent, &r.Confidence, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AppendTrace(ctx context.Context, entry TraceEntry) error {
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
	_, err = s.pool.Exec(ctx,
		`INSERT INTO agent_logs (id, session_id, stage, phase, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.SessionID, entry.Stage, string(entry.Phase), payload, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append trace: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentTrace(ctx context.Context, sessionID string, limit int) ([]TraceEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)
	if sessionID == "" {
		rows, err = s.pool.Query(ctx,
			`SELECT id, seq, session_id, stage, phase, payload, created_at
			 FROM agent_logs ORDER BY seq DESC LIMIT $1`, limit)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, seq, session_id, stage, phase, payload, created_at
			 FROM agent_logs WHERE session_id=$1 ORDER BY seq DESC LIMIT $2`, sessionID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	out := make([]TraceEntry, 0, limit)
	for rows.Next() {
		var (
			e       TraceEntry
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.Seq, &e.SessionID, &e.Stage, &e.Phase, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trace row: %w", err)
		}
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return nil, fmt.Errorf("decode trace payload: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return b, nil
}
