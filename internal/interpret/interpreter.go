// Package interpret normalizes raw utterances (text, emoji, gesture labels)
// into a semantic meaning string the rest of the pipeline consumes.
package interpret

import (
	"context"
	"fmt"
	"strings"

	"github.com/commbridge/bridged/internal/brain"
	"github.com/commbridge/bridged/internal/lexicon"
)

// Method records which path produced the interpretation.
type Method string

const (
	MethodAIEnhanced Method = "ai_enhanced"
	MethodRuleBased  Method = "rule_based"
)

// Result is the normalized form of one raw input.
type Result struct {
	OriginalInput   string          `json:"original_input"`
	TokensDetected  []lexicon.Match `json:"tokens_detected"`
	SemanticMeaning string          `json:"semantic_meaning"`
	Method          Method          `json:"interpretation_method"`
}

// Interpreter turns raw input into a Result. A nil adapter means the
// rule-based path runs unconditionally.
type Interpreter struct {
	adapter brain.Adapter
}

func New(adapter brain.Adapter) *Interpreter {
	return &Interpreter{adapter: adapter}
}

// Interpret never fails: capability errors downgrade to the deterministic
// rule-based interpretation.
func (i *Interpreter) Interpret(ctx context.Context, input string) Result {
	tokens := lexicon.DetectTokens(input)

	if i.adapter != nil {
		enhanced, err := i.adapter.Complete(ctx, enhancementPrompt(input, tokens))
		if err == nil && strings.TrimSpace(enhanced) != "" {
			// Keep the original input in the meaning so downstream symbol
			// matching still sees the raw tokens.
			return Result{
				OriginalInput:   input,
				TokensDetected:  tokens,
				SemanticMeaning: fmt.Sprintf("%s - %s", input, strings.TrimSpace(enhanced)),
				Method:          MethodAIEnhanced,
			}
		}
	}

	return fallback(input, tokens)
}

func fallback(input string, tokens []lexicon.Match) Result {
	semantic := input
	if len(tokens) > 0 {
		meanings := make([]string, 0, len(tokens))
		for _, t := range tokens {
			meanings = append(meanings, t.Meaning)
		}
		semantic = fmt.Sprintf("%s (%s)", input, strings.Join(meanings, ", "))
	}

	return Result{
		OriginalInput:   input,
		TokensDetected:  tokens,
		SemanticMeaning: semantic,
		Method:          MethodRuleBased,
	}
}

func enhancementPrompt(input string, tokens []lexicon.Match) string {
	var b strings.Builder
	b.WriteString("Interpret the following non-verbal communication input. It may contain symbols, gesture tokens, or simple text.\n\n")
	fmt.Fprintf(&b, "Input: %s\n\n", input)
	if len(tokens) == 0 {
		b.WriteString("Known tokens detected: none\n")
	} else {
		b.WriteString("Known tokens detected:\n")
		for _, t := range tokens {
			fmt.Fprintf(&b, "- %s: %s\n", t.Token, t.Meaning)
		}
	}
	b.WriteString("\nProvide the semantic meaning (what the user is trying to communicate), the emotional tone, and the urgency level (low/medium/high). Be concise and clear.")
	return b.String()
}
