package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process store for local/dev use and tests.
type InMemoryStore struct {
	mu           sync.RWMutex
	sessions     map[string]Session
	interactions map[string][]Interaction
	trace        []TraceEntry
	nextSeq      int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions:     make(map[string]Session),
		interactions: make(map[string][]Interaction),
	}
}

func (s *InMemoryStore) CreateSession(_ context.Context, id string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Metadata:  metadata,
		Status:    StatusActive,
	}
	return nil
}

func (s *InMemoryStore) GetSession(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *InMemoryStore) RecentSessions(_ context.Context, limit int) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) UpdateSessionStatus(_ context.Context, id string, status SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Status = status
	s.sessions[id] = sess
	return nil
}

func (s *InMemoryStore) StoreInteraction(_ context.Context, rec Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.interactions[rec.SessionID] = append(s.interactions[rec.SessionID], rec)
	return nil
}

func (s *InMemoryStore) RecentInteractions(_ context.Context, sessionID string, limit int) ([]Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.interactions[sessionID]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]Interaction, 0, limit)
	for i := len(arr) - 1; i >= len(arr)-limit; i-- {
		out = append(out, arr[i])
	}
	return out, nil
}

func (s *InMemoryStore) AppendTrace(_ context.Context, entry TraceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.nextSeq++
	entry.Seq = s.nextSeq
	s.trace = append(s.trace, entry)
	return nil
}

func (s *InMemoryStore) RecentTrace(_ context.Context, sessionID string, limit int) ([]TraceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TraceEntry, 0, limit)
	for i := len(s.trace) - 1; i >= 0; i-- {
		if sessionID != "" && s.trace[i].SessionID != sessionID {
			continue
		}
		out = append(out, s.trace[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
