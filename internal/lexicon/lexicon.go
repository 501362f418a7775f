// Package lexicon is the canonical symbol vocabulary for the bridge.
//
// The tables are static configuration: loaded once, never mutated. Version
// identifies the vocabulary revision so clients can detect drift.
package lexicon

import (
	"sort"
	"strings"
)

const Version = "2024.1"

// EmojiTokens maps symbolic tokens that may appear inside raw input to their
// communicative meaning.
var EmojiTokens = map[string]string{
	"👋":   "greeting",
	"🙋":   "raise hand / need attention",
	"❓":   "question",
	"✋":   "stop / wait",
	"👍":   "yes / agree",
	"👎":   "no / disagree",
	"🚽":   "bathroom need",
	"🍎":   "hungry / food",
	"💧":   "thirsty / water",
	"😊":   "happy",
	"😢":   "sad",
	"😰":   "anxious / worried",
	"🤔":   "thinking / confused",
	"😴":   "tired / sleepy",
	"🤒":   "sick / not feeling well",
	"📚":   "study / learn / book",
	"🎨":   "art / creative activity",
	"⚽":   "play / sports / game",
	"🏠":   "home / want to go home",
	"👨‍👩‍👧": "family / parents",
	"🙏":   "please / request politely",
	"❤️":   "love / like",
	"🎉":   "celebrate / excited",
	"😡":   "angry / frustrated",
}

// GestureLabels maps discrete gesture names produced by an external vision
// classifier to their meaning. Labels are matched as whole words so that a
// label like "ok" never fires inside ordinary prose.
var GestureLabels = map[string]string{
	"wave":        "greeting or farewell",
	"thumbs_up":   "yes / agree",
	"thumbs_down": "no / disagree",
	"peace":       "peace / victory / two",
	"ok":          "okay / confirmation",
	"pointing_up": "wait / attention / one",
	"fist":        "stop / strength",
	"open_palm":   "stop / wait",
	"raised_hand": "question / need help",
	"stop":        "stop / halt",
}

// Gestures maps spoken words to the emoji gesture used when translating text
// for a non-verbal reader.
var Gestures = map[string]string{
	// basic communication
	"hello": "👋", "goodbye": "👋", "hi": "👋", "bye": "👋",
	"yes": "👍", "no": "👎", "ok": "👌", "okay": "👌",
	"good": "👍", "bad": "👎", "stop": "✋", "wait": "✋",
	"please": "🙏", "thanks": "🙏", "love": "🤟",

	// questions
	"what": "❓", "why": "❔", "how": "🤷", "when": "🕐",
	"where": "📍", "who": "👤", "question": "❓",

	// needs
	"bathroom": "🚻", "restroom": "🚻", "water": "💧", "drink": "💧",
	"thirsty": "💧", "food": "🍎", "hungry": "🍎", "eat": "🍎",
	"book": "📚", "read": "📖", "write": "✏️", "help": "🆘",

	// emotions
	"happy": "😊", "sad": "😢", "angry": "😠", "mad": "😠",
	"scared": "😰", "worried": "😰", "tired": "😴", "sick": "🤒",
	"fine": "👌",

	// classroom
	"hand": "✋", "math": "🧮", "science": "🔬", "art": "🎨",
	"music": "🎵", "break": "⏸️", "rest": "⏸️", "finished": "✅",
	"done": "✅", "ready": "✅",

	// pronouns
	"i": "👤", "me": "👤", "you": "👉", "we": "👥", "us": "👥",

	// actions
	"go": "🚶", "come": "🚶", "sit": "💺", "stand": "🧍",
	"look": "👀", "listen": "👂", "speak": "🗣️", "talk": "🗣️",
	"understand": "🧠", "know": "🧠", "think": "🧠",

	// time
	"now": "⏰", "later": "⏰", "today": "📅", "tomorrow": "📅",
	"morning": "☀️", "afternoon": "🌤️", "night": "🌙",

	// negation
	"not": "❌", "never": "❌",
}

// Phrases maps whole phrases to gesture sequences. Checked before the
// per-word table so common requests translate as a unit.
var Phrases = map[string]string{
	"thank you":           "🙏",
	"raise hand":          "✋",
	"i need help":         "👤 🆘",
	"i am hungry":         "👤 🍎",
	"i am thirsty":        "👤 💧",
	"i am tired":          "👤 😴",
	"i am happy":          "👤 😊",
	"i am sad":            "👤 😢",
	"i need the bathroom": "👤 🚻",
	"can you help me":     "❓ 🆘 👤",
	"i want to go home":   "👤 🚶 🏠",
	"i am finished":       "👤 ✅",
	"good morning":        "👍 ☀️",
	"good night":          "👍 🌙",
}

// Categories groups a representative subset of the gesture library for UI
// listings.
var Categories = map[string]map[string]string{
	"basic": {
		"hello": "👋", "goodbye": "👋", "yes": "👍", "no": "👎",
		"ok": "👌", "please": "🙏", "thank you": "🙏", "love": "🤟",
	},
	"questions": {
		"what": "❓", "why": "❔", "how": "🤷", "when": "🕐",
		"where": "📍", "who": "👤",
	},
	"needs": {
		"bathroom": "🚻", "water": "💧", "food": "🍎", "help": "🆘",
		"book": "📚", "read": "📖", "write": "✏️",
	},
	"emotions": {
		"happy": "😊", "sad": "😢", "angry": "😠", "scared": "😰",
		"tired": "😴", "sick": "🤒",
	},
	"classroom": {
		"raise hand": "✋", "math": "🧮", "science": "🔬", "art": "🎨",
		"music": "🎵", "break": "⏸️", "finished": "✅",
	},
}

// Match is one detected token with its meaning.
type Match struct {
	Token   string `json:"token"`
	Meaning string `json:"meaning"`
}

// Sorted key views so detection output is stable run to run.
var (
	emojiTokenOrder   = sortedKeys(EmojiTokens)
	gestureLabelOrder = sortedKeys(GestureLabels)
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DetectTokens returns every known token present in the input, in a stable
// order. Emoji tokens match anywhere in the string; gesture labels match as
// whole words, case-insensitively. No precedence between matches.
func DetectTokens(input string) []Match {
	var found []Match
	for _, token := range emojiTokenOrder {
		if strings.Contains(input, token) {
			found = append(found, Match{Token: token, Meaning: EmojiTokens[token]})
		}
	}

	words := strings.Fields(strings.ToLower(input))
	for _, label := range gestureLabelOrder {
		for _, w := range words {
			if strings.Trim(w, ".,!?") == label {
				found = append(found, Match{Token: label, Meaning: GestureLabels[label]})
				break
			}
		}
	}
	return found
}
