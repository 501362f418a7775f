package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestInMemorySessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if err := s.CreateSession(ctx, "sess-1", map[string]any{"source": "test"}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	sess, err := s.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess.ID != "sess-1" || sess.Status != StatusActive {
		t.Fatalf("session = %+v", sess)
	}
	if sess.Metadata["source"] != "test" {
		t.Fatalf("metadata = %+v", sess.Metadata)
	}

	if err := s.UpdateSessionStatus(ctx, "sess-1", StatusClosed); err != nil {
		t.Fatalf("UpdateSessionStatus() error = %v", err)
	}
	sess, _ = s.GetSession(ctx, "sess-1")
	if sess.Status != StatusClosed {
		t.Fatalf("status = %s, want closed", sess.Status)
	}
}

func TestInMemoryGetSessionNotFound(t *testing.T) {
	_, err := NewInMemoryStore().GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSession() error = %v, want ErrNotFound", err)
	}
	err = NewInMemoryStore().UpdateSessionStatus(context.Background(), "missing", StatusClosed)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateSessionStatus() error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryInteractionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	rec := Interaction{
		SessionID:  "sess-1",
		Input:      "👋 hello",
		Output:     "Hello! It's great to see you today!",
		Intent:     "greet",
		Confidence: 0.9,
	}
	if err := s.StoreInteraction(ctx, rec); err != nil {
		t.Fatalf("StoreInteraction() error = %v", err)
	}

	got, err := s.RecentInteractions(ctx, "sess-1", 10)
	if err != nil {
		t.Fatalf("RecentInteractions() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Input != rec.Input || got[0].Output != rec.Output || got[0].Intent != rec.Intent || got[0].Confidence != rec.Confidence {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("id/timestamp not assigned: %+v", got[0])
	}
}

func TestInMemoryRecentInteractionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	for i := 0; i < 5; i++ {
		if err := s.StoreInteraction(ctx, Interaction{SessionID: "sess-1", Input: fmt.Sprintf("msg-%d", i)}); err != nil {
			t.Fatalf("StoreInteraction() error = %v", err)
		}
	}

	got, err := s.RecentInteractions(ctx, "sess-1", 3)
	if err != nil {
		t.Fatalf("RecentInteractions() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"msg-4", "msg-3", "msg-2"} {
		if got[i].Input != want {
			t.Fatalf("got[%d] = %q, want %q", i, got[i].Input, want)
		}
	}
}

func TestInMemoryTraceOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	for _, stage := range []string{"interpreter", "classifier", "generator"} {
		if err := s.AppendTrace(ctx, TraceEntry{SessionID: "sess-1", Stage: stage, Phase: PhaseCompleted}); err != nil {
			t.Fatalf("AppendTrace() error = %v", err)
		}
	}

	got, err := s.RecentTrace(ctx, "sess-1", 0)
	if err != nil {
		t.Fatalf("RecentTrace() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first, with strictly descending sequence numbers.
	if got[0].Stage != "generator" || got[2].Stage != "interpreter" {
		t.Fatalf("order = %s/%s/%s", got[0].Stage, got[1].Stage, got[2].Stage)
	}
	if !(got[0].Seq > got[1].Seq && got[1].Seq > got[2].Seq) {
		t.Fatalf("seq not descending: %d %d %d", got[0].Seq, got[1].Seq, got[2].Seq)
	}
}

func TestInMemoryTraceSessionFilter(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	_ = s.AppendTrace(ctx, TraceEntry{SessionID: "a", Stage: "interpreter", Phase: PhaseStarted})
	_ = s.AppendTrace(ctx, TraceEntry{SessionID: "b", Stage: "interpreter", Phase: PhaseStarted})
	_ = s.AppendTrace(ctx, TraceEntry{SessionID: "a", Stage: "classifier", Phase: PhaseStarted})

	got, err := s.RecentTrace(ctx, "a", 0)
	if err != nil {
		t.Fatalf("RecentTrace() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	all, err := s.RecentTrace(ctx, "", 0)
	if err != nil {
		t.Fatalf("RecentTrace() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3 across sessions", len(all))
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(context.Background(), "cassandra", "", ""); err == nil {
		t.Fatalf("New() error = nil, want unsupported mode error")
	}
}

func TestNewMemoryMode(t *testing.T) {
	s, err := New(context.Background(), "memory", "", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("New() = %T, want *InMemoryStore", s)
	}
}
