// Package contextstore holds per-session rolling conversation context used to
// enrich a low-confidence classification retry.
//
// State is process-local by design: populated on demand, never expired. The
// accepted tradeoff is staleness across restarts and unbounded session count;
// the durable store covers the cold path.
package contextstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/commbridge/bridged/internal/store"
)

// Entry is one summarized interaction inside the rolling window.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	Intent    string    `json:"intent"`
	Output    string    `json:"output"`
}

// Context is the snapshot handed to the classifier retry.
type Context struct {
	Interactions []Entry        `json:"interactions"`
	Patterns     map[string]int `json:"patterns"`
	Summary      string         `json:"summary"`
	CreatedAt    time.Time      `json:"created_at"`
}

type sessionContext struct {
	mu           sync.Mutex
	interactions []Entry
	patterns     map[string]int
	createdAt    time.Time
}

// Store keeps one context per session id. Window and coldLimit come from
// configuration; zero values fall back to the defaults (10 and 5).
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*sessionContext
	durable   store.Store
	window    int
	coldLimit int
}

func New(durable store.Store, window, coldLimit int) *Store {
	if window <= 0 {
		window = 10
	}
	if coldLimit <= 0 {
		coldLimit = 5
	}
	return &Store{
		sessions:  make(map[string]*sessionContext),
		durable:   durable,
		window:    window,
		coldLimit: coldLimit,
	}
}

// Update appends a summarized interaction to the session's window, evicting
// the oldest entry beyond the cap, and bumps the intent counter. Each call is
// one distinct interaction; there is no dedup. Concurrent updates to the same
// session serialize on the session's lock, so none are lost.
func (s *Store) Update(sessionID string, e Entry) {
	sc := s.session(sessionID)

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	sc.interactions = append(sc.interactions, e)
	if len(sc.interactions) > s.window {
		sc.interactions = sc.interactions[len(sc.interactions)-s.window:]
	}
	if e.Intent != "" {
		sc.patterns[e.Intent]++
	}
}

// Get returns the session's in-memory context when present. On a cold lookup
// it reconstructs a lightweight context from the most recent persisted
// interactions; absent both, ok is false.
func (s *Store) Get(ctx context.Context, sessionID string) (Context, bool) {
	s.mu.Lock()
	sc, warm := s.sessions[sessionID]
	s.mu.Unlock()

	if warm {
		sc.mu.Lock()
		defer sc.mu.Unlock()
		out := Context{
			Interactions: append([]Entry(nil), sc.interactions...),
			Patterns:     make(map[string]int, len(sc.patterns)),
			CreatedAt:    sc.createdAt,
		}
		for k, v := range sc.patterns {
			out.Patterns[k] = v
		}
		out.Summary = summarize(out.Interactions)
		return out, true
	}

	if s.durable == nil {
		return Context{}, false
	}
	records, err := s.durable.RecentInteractions(ctx, sessionID, s.coldLimit)
	if err != nil || len(records) == 0 {
		return Context{}, false
	}

	entries := make([]Entry, 0, len(records))
	patterns := make(map[string]int, len(records))
	// Records arrive newest first; the window reads oldest first.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		entries = append(entries, Entry{
			Timestamp: r.CreatedAt,
			Input:     r.Input,
			Intent:    r.Intent,
			Output:    r.Output,
		})
		patterns[r.Intent]++
	}
	return Context{
		Interactions: entries,
		Patterns:     patterns,
		Summary:      summarize(entries),
	}, true
}

func (s *Store) session(sessionID string) *sessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.sessions[sessionID]
	if !ok {
		sc = &sessionContext{
			patterns:  make(map[string]int),
			createdAt: time.Now().UTC(),
		}
		s.sessions[sessionID] = sc
	}
	return sc
}

func summarize(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	counts := make(map[string]int, len(entries))
	common := entries[0].Intent
	for _, e := range entries {
		counts[e.Intent]++
		if counts[e.Intent] > counts[common] {
			common = e.Intent
		}
	}
	return fmt.Sprintf("Recent conversation with %d messages. Common intent: %s", len(entries), common)
}
