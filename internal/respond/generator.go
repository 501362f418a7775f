// Package respond turns a classified intent and semantic meaning into the
// natural-language reply handed back to the caller.
package respond

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/commbridge/bridged/internal/brain"
	"github.com/commbridge/bridged/internal/intent"
)

// Method records which path produced the reply.
type Method string

const (
	MethodAI       Method = "ai"
	MethodTemplate Method = "template"
)

// Result is one generated reply.
type Result struct {
	Text   string `json:"text"`
	Method Method `json:"generation_method"`
}

// Generator produces replies. pick selects among template candidates when no
// pattern matches; it is injectable so tests can pin the choice.
type Generator struct {
	adapter brain.Adapter
	pick    func(n int) int
}

// Option configures a Generator.
type Option func(*Generator)

// WithPicker overrides the template selector.
func WithPicker(pick func(n int) int) Option {
	return func(g *Generator) { g.pick = pick }
}

func New(adapter brain.Adapter, opts ...Option) *Generator {
	g := &Generator{adapter: adapter, pick: rand.Intn}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate never errors past this boundary: capability failures degrade to
// the template fallback.
func (g *Generator) Generate(ctx context.Context, in intent.Intent, semanticMeaning string, confidence float64) Result {
	if g.adapter != nil {
		raw, err := g.adapter.Complete(ctx, generatePrompt(in, semanticMeaning, confidence))
		if err == nil && strings.TrimSpace(raw) != "" {
			text := strings.TrimSpace(raw)
			// Spoken replies must not carry markdown emphasis.
			text = strings.ReplaceAll(text, "**", "")
			text = strings.ReplaceAll(text, "*", "")
			return Result{Text: text, Method: MethodAI}
		}
	}
	return g.fallback(in, semanticMeaning)
}

// pattern is one fallback table entry. Matching is longest-match-wins across
// the whole table; ties resolve to the earlier entry.
type pattern struct {
	terms []string
	reply string
}

var fallbackPatterns = []pattern{
	// greetings
	{[]string{"👋", "greeting"}, "Hello! It's great to see you today!"},
	// questions / help
	{[]string{"🙋", "raise hand", "need attention"}, "I see you need help. What can I do for you?"},
	{[]string{"❓", "question"}, "I'm listening. What would you like to know?"},
	// classroom management
	{[]string{"✋", "stop", "wait"}, "Okay, I'll wait. Take your time."},
	{[]string{"👍", "yes / agree"}, "Great! I'm glad we're on the same page."},
	{[]string{"👎", "no / disagree"}, "I understand. Let's try a different approach."},
	// basic needs
	{[]string{"🚽", "bathroom"}, "Of course, you may go to the bathroom."},
	{[]string{"🍎", "hungry", "food"}, "I understand you're hungry. Let's get you something to eat."},
	{[]string{"💧", "thirsty", "water"}, "Let me get you some water right away."},
	// emotions
	{[]string{"😊", "happy"}, "I'm so glad you're feeling happy!"},
	{[]string{"😢", "sad"}, "I'm sorry you're feeling sad. I'm here for you."},
	{[]string{"😰", "anxious", "worried"}, "It's okay to feel worried. Let's talk about it."},
	{[]string{"🤔", "thinking", "confused"}, "Take your time to think. I'm here if you need help."},
	{[]string{"😴", "tired", "sleepy"}, "You look tired. Would you like to take a break?"},
	{[]string{"🤒", "sick", "not feeling well"}, "I'm sorry you're not feeling well. Let me help you."},
	// time / activities
	{[]string{"📚", "study", "learn", "book"}, "Great! Let's study together. What would you like to learn?"},
	{[]string{"🎨", "art", "creative"}, "Art time! That sounds fun. What would you like to create?"},
	{[]string{"⚽", "play", "sports", "game"}, "Time to play! What game would you like to play?"},
	{[]string{"🏠", "home"}, "I understand you want to go home. It won't be long now."},
	{[]string{"👨‍👩‍👧", "family", "parents"}, "You're thinking about your family. They'll be here soon."},
	// politeness
	{[]string{"🙏", "please"}, "Of course! I appreciate you asking so nicely."},
	{[]string{"❤️", "love / like"}, "That's wonderful! I'm glad you feel that way."},
	{[]string{"🎉", "celebrate", "excited"}, "How exciting! Let's celebrate together!"},
	{[]string{"😡", "angry", "frustrated"}, "I can see you're upset. Let's talk about what's bothering you."},
}

// Templates returns the per-intent candidate replies used when no pattern
// matches. Exposed so tests can assert membership rather than equality.
func Templates(in intent.Intent) []string {
	if t, ok := intentTemplates[in]; ok {
		return t
	}
	return []string{"I understand. How can I help you?"}
}

var intentTemplates = map[intent.Intent][]string{
	intent.RequestHelp: {
		"I'm here to help you. What do you need?",
		"Of course, I'll help you with that.",
		"Let me assist you right away.",
	},
	intent.AskQuestion: {
		"That's a great question! Let me help you find the answer.",
		"I'm glad you asked. Let's explore that together.",
		"Good question! Let me explain that to you.",
	},
	intent.ExpressNeed: {
		"I understand. Let me help you with that.",
		"I hear you. Let's take care of that.",
		"Thank you for letting me know. I'll help you.",
	},
	intent.Greet: {
		"Hello! It's wonderful to see you!",
		"Hi there! How are you doing today?",
		"Good to see you! How can I help you?",
	},
	intent.Respond: {
		"Thank you for sharing that with me.",
		"I appreciate you telling me that.",
		"I understand what you're saying.",
	},
}

func (g *Generator) fallback(in intent.Intent, semanticMeaning string) Result {
	lower := strings.ToLower(semanticMeaning)

	best := -1
	bestLen := 0
	for i, p := range fallbackPatterns {
		for _, term := range p.terms {
			if strings.Contains(lower, strings.ToLower(term)) && len(term) > bestLen {
				best = i
				bestLen = len(term)
			}
		}
	}
	if best >= 0 {
		return Result{Text: fallbackPatterns[best].reply, Method: MethodTemplate}
	}

	candidates := Templates(in)
	return Result{Text: candidates[g.pick(len(candidates))], Method: MethodTemplate}
}

func generatePrompt(in intent.Intent, semanticMeaning string, confidence float64) string {
	return fmt.Sprintf(`You are a supportive teacher/caregiver responding to a non-verbal student's communication.

Student's intent: %s
Student's message: %s
Confidence: %.2f

Generate a warm, helpful response that acknowledges what the student communicated, answers directly if they asked a question, offers support if needed, is concise (1-3 sentences), and is appropriate for a classroom setting.

Provide only the response text, nothing else.`, in, semanticMeaning, confidence)
}
