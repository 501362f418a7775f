// Package store persists sessions, interactions, and pipeline trace entries.
// Postgres backs deployments, SQLite backs the zero-dependency default, and
// the in-memory store backs tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned for lookups of sessions that were never created.
var ErrNotFound = errors.New("session not found")

// Store is the durable source of truth consumed by the orchestrator and the
// context store's cold path.
type Store interface {
	CreateSession(ctx context.Context, id string, metadata map[string]any) error
	GetSession(ctx context.Context, id string) (Session, error)
	RecentSessions(ctx context.Context, limit int) ([]Session, error)
	UpdateSessionStatus(ctx context.Context, id string, status SessionStatus) error

	StoreInteraction(ctx context.Context, rec Interaction) error
	// RecentInteractions returns up to limit records for the session, newest
	// first.
	RecentInteractions(ctx context.Context, sessionID string, limit int) ([]Interaction, error)

	AppendTrace(ctx context.Context, entry TraceEntry) error
	// RecentTrace returns up to limit entries, newest first. An empty
	// sessionID selects entries across all sessions.
	RecentTrace(ctx context.Context, sessionID string, limit int) ([]TraceEntry, error)

	Close() error
}

// New selects a backend from configuration: an explicit mode wins, otherwise
// DATABASE_URL selects Postgres and the SQLite path is the durable default.
func New(ctx context.Context, mode, databaseURL, sqlitePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		if strings.TrimSpace(databaseURL) != "" {
			return NewPostgresStore(ctx, databaseURL)
		}
		return NewSQLiteStore(sqlitePath)
	case "postgres":
		return NewPostgresStore(ctx, databaseURL)
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	case "memory":
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store mode %q", mode)
	}
}
