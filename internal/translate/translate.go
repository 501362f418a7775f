// Package translate converts teacher text into gesture sequences a
// non-verbal reader can follow.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/commbridge/bridged/internal/brain"
	"github.com/commbridge/bridged/internal/lexicon"
)

// Method records which path produced the translation.
type Method string

const (
	MethodDirect  Method = "direct_mapping"
	MethodAI      Method = "ai_translation"
	MethodGeneric Method = "generic"
)

const maxGestures = 6

// Result is one translation outcome.
type Result struct {
	OriginalText    string   `json:"original_text"`
	GestureSequence string   `json:"gesture_sequence"`
	Gestures        []string `json:"gestures"`
	Method          Method   `json:"method"`
	Explanation     string   `json:"explanation"`
}

// Translator maps text to gestures, preferring exact phrase and word lookups
// and only consulting the capability for text the tables cannot cover.
type Translator struct {
	adapter brain.Adapter
}

func New(adapter brain.Adapter) *Translator {
	return &Translator{adapter: adapter}
}

// Translate never errors past this boundary: capability failures degrade to
// the generic gesture.
func (t *Translator) Translate(ctx context.Context, text string) Result {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return generic(text)
	}

	if seq, ok := lexicon.Phrases[strings.Trim(normalized, ".,!?")]; ok {
		return direct(text, seq, "matched a known phrase")
	}

	var gestures []string
	for _, word := range strings.Fields(normalized) {
		word = strings.Trim(word, ".,!?")
		if g, ok := lexicon.Gestures[word]; ok {
			gestures = append(gestures, g)
			if len(gestures) == maxGestures {
				break
			}
		}
	}
	if len(gestures) > 0 {
		return direct(text, strings.Join(gestures, " "), "word-by-word mapping")
	}

	if t.adapter != nil {
		if res, ok := t.aiTranslate(ctx, text); ok {
			return res
		}
	}
	return generic(text)
}

func (t *Translator) aiTranslate(ctx context.Context, text string) (Result, bool) {
	raw, err := t.adapter.Complete(ctx, translatePrompt(text))
	if err != nil {
		return Result{}, false
	}
	seq := strings.Join(strings.Fields(strings.ReplaceAll(raw, "\n", " ")), " ")
	if seq == "" {
		return Result{}, false
	}
	gestures := strings.Fields(seq)
	if len(gestures) > maxGestures {
		gestures = gestures[:maxGestures]
		seq = strings.Join(gestures, " ")
	}
	return Result{
		OriginalText:    text,
		GestureSequence: seq,
		Gestures:        gestures,
		Method:          MethodAI,
		Explanation:     "AI-generated gesture sequence",
	}, true
}

func direct(text, seq, explanation string) Result {
	return Result{
		OriginalText:    text,
		GestureSequence: seq,
		Gestures:        strings.Fields(seq),
		Method:          MethodDirect,
		Explanation:     explanation,
	}
}

func generic(text string) Result {
	return Result{
		OriginalText:    text,
		GestureSequence: "💬",
		Gestures:        []string{"💬"},
		Method:          MethodGeneric,
		Explanation:     "complex message - showing generic communication icon",
	}
}

func translatePrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a gesture translation assistant. Convert the following text into a sequence of emojis/gestures that represent the meaning.\n\nAvailable gestures:\n")
	for word, emoji := range lexicon.Categories["basic"] {
		fmt.Fprintf(&b, "- %s: %s\n", word, emoji)
	}
	for word, emoji := range lexicon.Categories["needs"] {
		fmt.Fprintf(&b, "- %s: %s\n", word, emoji)
	}
	fmt.Fprintf(&b, `
Text to translate: %q

Use only emojis from the list, keep the sequence short (at most %d gestures), focus on key concepts, and return ONLY the emoji sequence separated by spaces.`, text, maxGestures)
	return b.String()
}
