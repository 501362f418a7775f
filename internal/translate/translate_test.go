package translate

import (
	"context"
	"errors"
	"testing"
)

type scriptedAdapter struct {
	reply string
	err   error
}

func (s *scriptedAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestTranslatePhraseMatch(t *testing.T) {
	got := New(nil).Translate(context.Background(), "I need the bathroom!")
	if got.Method != MethodDirect {
		t.Fatalf("method = %s, want direct_mapping", got.Method)
	}
	if got.GestureSequence != "👤 🚻" {
		t.Fatalf("sequence = %q", got.GestureSequence)
	}
	if len(got.Gestures) != 2 {
		t.Fatalf("gestures = %+v", got.Gestures)
	}
}

func TestTranslateWordByWord(t *testing.T) {
	got := New(nil).Translate(context.Background(), "please sit and listen")
	if got.Method != MethodDirect {
		t.Fatalf("method = %s, want direct_mapping", got.Method)
	}
	if got.GestureSequence != "🙏 💺 👂" {
		t.Fatalf("sequence = %q", got.GestureSequence)
	}
}

func TestTranslateWordCap(t *testing.T) {
	got := New(nil).Translate(context.Background(), "hello yes no good bad stop wait please")
	if len(got.Gestures) != 6 {
		t.Fatalf("gestures = %d, want cap of 6", len(got.Gestures))
	}
}

func TestTranslateAIPath(t *testing.T) {
	a := &scriptedAdapter{reply: "👋 👍\n🙏"}
	got := New(a).Translate(context.Background(), "gleeb florp")
	if got.Method != MethodAI {
		t.Fatalf("method = %s, want ai_translation", got.Method)
	}
	if got.GestureSequence != "👋 👍 🙏" {
		t.Fatalf("sequence = %q", got.GestureSequence)
	}
}

func TestTranslateGenericFallback(t *testing.T) {
	a := &scriptedAdapter{err: errors.New("down")}
	got := New(a).Translate(context.Background(), "gleeb florp")
	if got.Method != MethodGeneric {
		t.Fatalf("method = %s, want generic", got.Method)
	}
	if got.GestureSequence != "💬" {
		t.Fatalf("sequence = %q", got.GestureSequence)
	}

	if got := New(nil).Translate(context.Background(), "gleeb florp"); got.Method != MethodGeneric {
		t.Fatalf("method = %s, want generic without adapter", got.Method)
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	got := New(nil).Translate(context.Background(), "   ")
	if got.Method != MethodGeneric {
		t.Fatalf("method = %s, want generic", got.Method)
	}
}
