package lexicon

import (
	"reflect"
	"testing"
)

func TestDetectTokensSingleEmoji(t *testing.T) {
	got := DetectTokens("👋 hello")
	if len(got) != 1 {
		t.Fatalf("DetectTokens() = %+v, want 1 match", got)
	}
	if got[0].Token != "👋" || got[0].Meaning != "greeting" {
		t.Fatalf("match = %+v, want 👋/greeting", got[0])
	}
}

func TestDetectTokensMultiple(t *testing.T) {
	got := DetectTokens("🍎 and 💧 please 🙏")
	if len(got) != 3 {
		t.Fatalf("DetectTokens() = %+v, want 3 matches", got)
	}
}

func TestDetectTokensGestureLabelWholeWord(t *testing.T) {
	got := DetectTokens("thumbs_up")
	if len(got) != 1 || got[0].Token != "thumbs_up" {
		t.Fatalf("DetectTokens() = %+v, want thumbs_up match", got)
	}

	// "ok" must not fire inside an ordinary word.
	if got := DetectTokens("I like this book"); len(got) != 0 {
		t.Fatalf("DetectTokens() = %+v, want no matches", got)
	}
}

func TestDetectTokensStableOrder(t *testing.T) {
	input := "👋 🙏 ❓ wave"
	first := DetectTokens(input)
	for i := 0; i < 20; i++ {
		if got := DetectTokens(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("DetectTokens() order not stable: %+v vs %+v", got, first)
		}
	}
}

func TestDetectTokensNone(t *testing.T) {
	if got := DetectTokens("plain sentence with no symbols"); got != nil {
		t.Fatalf("DetectTokens() = %+v, want nil", got)
	}
}
