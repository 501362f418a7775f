package intent

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedAdapter struct {
	reply string
	err   error
}

func (s *scriptedAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestFallbackPriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		intent     Intent
		confidence float64
	}{
		{"help", "please help me", RequestHelp, 0.85},
		{"question", "what time is lunch?", AskQuestion, 0.8},
		{"greeting", "hello there", Greet, 0.9},
		{"agreement", "yes that works", Respond, 0.85},
		{"stop", "wait a moment", RequestHelp, 0.8},
		{"bathroom", "I need the bathroom", ExpressNeed, 0.95},
		{"bathroom emoji", "🚽", ExpressNeed, 0.95},
		{"food", "so hungry", ExpressNeed, 0.95},
		{"water", "thirsty", ExpressNeed, 0.95},
		{"default", "zzz", ExpressNeed, 0.6},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.input, "")
			if got.Intent != tt.intent {
				t.Fatalf("Classify(%q) intent = %s, want %s", tt.input, got.Intent, tt.intent)
			}
			if got.Confidence != tt.confidence {
				t.Fatalf("Classify(%q) confidence = %v, want %v", tt.input, got.Confidence, tt.confidence)
			}
		})
	}
}

func TestFallbackHelpBeatsQuestion(t *testing.T) {
	// "help" and "?" both present: the help rule comes first.
	got := New(nil).Classify(context.Background(), "can you help?", "")
	if got.Intent != RequestHelp || got.Confidence != 0.85 {
		t.Fatalf("Classify() = %+v, want request_help/0.85", got)
	}
}

func TestClassifyUsesAdapter(t *testing.T) {
	a := &scriptedAdapter{reply: "Intent: greet\nConfidence: 0.95\nExplanation: obvious wave"}
	got := New(a).Classify(context.Background(), "👋", "")
	if got.Intent != Greet || got.Confidence != 0.95 || got.Explanation != "obvious wave" {
		t.Fatalf("Classify() = %+v", got)
	}
}

func TestClassifyAdapterErrorFallsBack(t *testing.T) {
	a := &scriptedAdapter{err: errors.New("down")}
	got := New(a).Classify(context.Background(), "hello", "")
	if got.Intent != Greet || got.Confidence != 0.9 {
		t.Fatalf("Classify() = %+v, want fallback greet/0.9", got)
	}
}

func TestClassifyPromptIncludesContext(t *testing.T) {
	p := classifyPrompt("hello", "Recent conversation with 3 messages. Common intent: greet")
	if !strings.Contains(p, "hello") || !strings.Contains(p, "Previous context") || !strings.Contains(p, "Common intent: greet") {
		t.Fatalf("prompt missing context: %q", p)
	}
	if p2 := classifyPrompt("hello", ""); strings.Contains(p2, "Previous context") {
		t.Fatalf("prompt should omit empty context: %q", p2)
	}
}
