package brain

import (
	"context"
	"strings"
)

// MockAdapter provides deterministic local completions for development and
// tests, shaped to satisfy the pipeline's structured prompts.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if strings.Contains(prompt, "Classify the intent") {
		return "Intent: other\nConfidence: 0.9\nExplanation: mock classification", nil
	}
	if strings.Contains(prompt, "gesture translation") {
		return "💬", nil
	}
	return "I hear you. Let's work on that together.", nil
}
