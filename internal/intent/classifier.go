// Package intent classifies a semantic meaning into a closed intent
// vocabulary with a confidence score.
package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/commbridge/bridged/internal/brain"
)

// Intent is one category from the closed vocabulary.
type Intent string

const (
	RequestHelp  Intent = "request_help"
	AskQuestion  Intent = "ask_question"
	ExpressNeed  Intent = "express_need"
	ShareFeeling Intent = "share_feeling"
	Greet        Intent = "greet"
	Respond      Intent = "respond"
	Other        Intent = "other"
)

var vocabulary = map[Intent]bool{
	RequestHelp:  true,
	AskQuestion:  true,
	ExpressNeed:  true,
	ShareFeeling: true,
	Greet:        true,
	Respond:      true,
	Other:        true,
}

// Result is one classification outcome.
type Result struct {
	Intent      Intent  `json:"intent"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Classifier maps semantic meaning to an intent. Pure: same inputs and
// capability availability always yield the same output.
type Classifier struct {
	adapter brain.Adapter
}

func New(adapter brain.Adapter) *Classifier {
	return &Classifier{adapter: adapter}
}

// Classify returns a best-effort intent. contextSummary, when non-empty, is
// folded into the capability prompt; the rule-based fallback ignores it.
// Never errors past this boundary.
func (c *Classifier) Classify(ctx context.Context, semanticMeaning, contextSummary string) Result {
	if c.adapter != nil {
		raw, err := c.adapter.Complete(ctx, classifyPrompt(semanticMeaning, contextSummary))
		if err == nil && strings.TrimSpace(raw) != "" {
			return parseResponse(raw)
		}
	}
	return fallbackClassify(semanticMeaning)
}

// rule is one entry in the fixed-priority fallback table. Order matters: the
// first rule with any matching term wins.
type rule struct {
	terms       []string
	intent      Intent
	confidence  float64
	explanation string
}

var fallbackRules = []rule{
	{[]string{"help", "assist", "🙋"}, RequestHelp, 0.85, "Help request detected"},
	{[]string{"what", "why", "how", "when", "where", "?", "❓"}, AskQuestion, 0.8, "Question detected"},
	{[]string{"hello", "hi", "hey", "greet", "👋"}, Greet, 0.9, "Greeting detected"},
	{[]string{"yes", "agree", "okay", "sure", "👍"}, Respond, 0.85, "Agreement detected"},
	{[]string{"no", "disagree", "not", "👎"}, Respond, 0.85, "Disagreement detected"},
	{[]string{"stop", "wait", "hold", "✋"}, RequestHelp, 0.8, "Stop/wait request detected"},
	{[]string{"bathroom", "restroom", "🚽"}, ExpressNeed, 0.95, "Bathroom need detected"},
	{[]string{"hungry", "food", "eat", "🍎"}, ExpressNeed, 0.95, "Food need detected"},
	{[]string{"thirsty", "water", "drink", "💧"}, ExpressNeed, 0.95, "Water need detected"},
}

func fallbackClassify(semanticMeaning string) Result {
	lower := strings.ToLower(semanticMeaning)
	for _, r := range fallbackRules {
		for _, term := range r.terms {
			if strings.Contains(lower, term) {
				return Result{Intent: r.intent, Confidence: r.confidence, Explanation: r.explanation}
			}
		}
	}
	return Result{Intent: ExpressNeed, Confidence: 0.6, Explanation: "Default classification"}
}

func classifyPrompt(semanticMeaning, contextSummary string) string {
	var b strings.Builder
	b.WriteString("Analyze the following communication and determine the user's intent.\n\n")
	fmt.Fprintf(&b, "Input: %s\n", semanticMeaning)
	if contextSummary != "" {
		fmt.Fprintf(&b, "\nPrevious context: %s\n", contextSummary)
	}
	b.WriteString(`
Classify the intent into one of these categories:
- request_help
- ask_question
- express_need
- share_feeling
- greet
- respond
- other

Provide a confidence score (0.0 to 1.0) and a brief explanation.

Respond in this format:
Intent: [category]
Confidence: [score]
Explanation: [brief explanation]
`)
	return b.String()
}
