package contextstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/commbridge/bridged/internal/store"
)

func TestUpdateWindowEvictsOldest(t *testing.T) {
	s := New(nil, 10, 5)
	for i := 0; i < 13; i++ {
		s.Update("sess-1", Entry{Input: fmt.Sprintf("msg-%d", i), Intent: "greet"})
	}

	got, ok := s.Get(context.Background(), "sess-1")
	if !ok {
		t.Fatalf("Get() ok = false, want warm context")
	}
	if len(got.Interactions) != 10 {
		t.Fatalf("window len = %d, want 10", len(got.Interactions))
	}
	if got.Interactions[0].Input != "msg-3" {
		t.Fatalf("oldest = %q, want msg-3 after FIFO eviction", got.Interactions[0].Input)
	}
	if got.Interactions[9].Input != "msg-12" {
		t.Fatalf("newest = %q, want msg-12", got.Interactions[9].Input)
	}
}

func TestPatternsCountEveryUpdate(t *testing.T) {
	s := New(nil, 10, 5)
	for i := 0; i < 13; i++ {
		s.Update("sess-1", Entry{Input: "hi", Intent: "greet"})
	}

	got, _ := s.Get(context.Background(), "sess-1")
	// Counters survive window eviction.
	if got.Patterns["greet"] != 13 {
		t.Fatalf("patterns[greet] = %d, want 13", got.Patterns["greet"])
	}
}

func TestSummary(t *testing.T) {
	s := New(nil, 10, 5)
	s.Update("sess-1", Entry{Input: "hi", Intent: "greet"})
	s.Update("sess-1", Entry{Input: "hello", Intent: "greet"})
	s.Update("sess-1", Entry{Input: "water", Intent: "express_need"})

	got, _ := s.Get(context.Background(), "sess-1")
	want := "Recent conversation with 3 messages. Common intent: greet"
	if got.Summary != want {
		t.Fatalf("summary = %q, want %q", got.Summary, want)
	}
}

func TestConcurrentUpdatesNotLost(t *testing.T) {
	s := New(nil, 10, 5)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Update("sess-1", Entry{Input: "left", Intent: "greet"})
	}()
	go func() {
		defer wg.Done()
		s.Update("sess-1", Entry{Input: "right", Intent: "respond"})
	}()
	wg.Wait()

	got, _ := s.Get(context.Background(), "sess-1")
	if len(got.Interactions) != 2 {
		t.Fatalf("window len = %d, want both updates present", len(got.Interactions))
	}
	if got.Patterns["greet"] != 1 || got.Patterns["respond"] != 1 {
		t.Fatalf("patterns = %+v", got.Patterns)
	}
}

func TestGetColdRebuildsFromDurable(t *testing.T) {
	ctx := context.Background()
	durable := store.NewInMemoryStore()
	for i := 0; i < 8; i++ {
		rec := store.Interaction{
			SessionID: "sess-1",
			Input:     fmt.Sprintf("msg-%d", i),
			Output:    "ok",
			Intent:    "respond",
		}
		if err := durable.StoreInteraction(ctx, rec); err != nil {
			t.Fatalf("StoreInteraction() error = %v", err)
		}
	}

	s := New(durable, 10, 5)
	got, ok := s.Get(ctx, "sess-1")
	if !ok {
		t.Fatalf("Get() ok = false, want cold rebuild")
	}
	if len(got.Interactions) != 5 {
		t.Fatalf("cold window len = %d, want coldLimit 5", len(got.Interactions))
	}
	// Chronological order: the five most recent, oldest first.
	if got.Interactions[0].Input != "msg-3" || got.Interactions[4].Input != "msg-7" {
		t.Fatalf("cold order = %q .. %q", got.Interactions[0].Input, got.Interactions[4].Input)
	}
	if got.Patterns["respond"] != 5 {
		t.Fatalf("patterns = %+v", got.Patterns)
	}
}

func TestGetUnknownSession(t *testing.T) {
	s := New(store.NewInMemoryStore(), 10, 5)
	if _, ok := s.Get(context.Background(), "missing"); ok {
		t.Fatalf("Get() ok = true, want false for unknown session")
	}
}
