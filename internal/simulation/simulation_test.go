package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/commbridge/bridged/internal/intent"
	"github.com/commbridge/bridged/internal/pipeline"
	"github.com/commbridge/bridged/internal/store"
)

type fakePipeline struct {
	err error
}

func (f *fakePipeline) Process(ctx context.Context, inputText, sessionID string) (pipeline.Result, error) {
	if f.err != nil {
		return pipeline.Result{}, f.err
	}
	return pipeline.Result{
		SessionID:  sessionID,
		Input:      inputText,
		Output:     "Hello! It's great to see you today!",
		Intent:     intent.Greet,
		Confidence: 0.9,
	}, nil
}

func TestStartCreatesTaggedSession(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	m := NewManager(&fakePipeline{}, st)

	sessionID, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sessionID == "" {
		t.Fatalf("Start() returned empty session id")
	}

	sess, err := st.GetSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess.Metadata["type"] != "classroom_simulation" {
		t.Fatalf("metadata = %+v", sess.Metadata)
	}
	if m.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", m.Active())
	}
}

func TestStepNarratesExchange(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakePipeline{}, store.NewInMemoryStore())

	sessionID, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	res, err := m.Step(ctx, sessionID, "👋 hello")
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.StepNumber != 1 || res.Status != "completed" {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(res.Steps))
	}
	if res.Steps[0].Actor != "student" || res.Steps[2].Actor != "teacher" {
		t.Fatalf("actors = %s/%s", res.Steps[0].Actor, res.Steps[2].Actor)
	}
	if res.Steps[2].Data != "Hello! It's great to see you today!" {
		t.Fatalf("teacher step data = %q", res.Steps[2].Data)
	}
	if res.Result.Intent != intent.Greet {
		t.Fatalf("result intent = %s", res.Result.Intent)
	}

	// Step numbers increase per exchange.
	res, err = m.Step(ctx, sessionID, "👍")
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if res.StepNumber != 2 {
		t.Fatalf("step number = %d, want 2", res.StepNumber)
	}
}

func TestStepUnknownSession(t *testing.T) {
	m := NewManager(&fakePipeline{}, store.NewInMemoryStore())
	if _, err := m.Step(context.Background(), "missing", "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Step() error = %v, want ErrNotFound", err)
	}
}

func TestStepPipelineErrorPropagates(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&fakePipeline{err: errors.New("store down")}, store.NewInMemoryStore())
	sessionID, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := m.Step(ctx, sessionID, "hi"); err == nil {
		t.Fatalf("Step() error = nil, want pipeline failure")
	}
}
