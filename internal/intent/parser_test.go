package intent

import "testing"

func TestParseResponseFull(t *testing.T) {
	got := parseResponse("Intent: ask_question\nConfidence: 0.82\nExplanation: ends with a question mark")
	if got.Intent != AskQuestion {
		t.Fatalf("intent = %s, want ask_question", got.Intent)
	}
	if got.Confidence != 0.82 {
		t.Fatalf("confidence = %v, want 0.82", got.Confidence)
	}
	if got.Explanation != "ends with a question mark" {
		t.Fatalf("explanation = %q", got.Explanation)
	}
}

func TestParseResponseMissingConfidence(t *testing.T) {
	got := parseResponse("Intent: greet\nExplanation: wave")
	if got.Intent != Greet || got.Confidence != 0.7 {
		t.Fatalf("parseResponse() = %+v, want greet/0.7", got)
	}
}

func TestParseResponseBadConfidence(t *testing.T) {
	for _, raw := range []string{
		"Intent: greet\nConfidence: high",
		"Intent: greet\nConfidence: 1.5",
		"Intent: greet\nConfidence: -0.2",
	} {
		if got := parseResponse(raw); got.Confidence != 0.7 {
			t.Fatalf("parseResponse(%q) confidence = %v, want default 0.7", raw, got.Confidence)
		}
	}
}

func TestParseResponseMissingIntent(t *testing.T) {
	got := parseResponse("Confidence: 0.9\nExplanation: no idea")
	if got.Intent != Other {
		t.Fatalf("intent = %s, want other", got.Intent)
	}
}

func TestParseResponseUnknownIntent(t *testing.T) {
	got := parseResponse("Intent: negotiate\nConfidence: 0.9")
	if got.Intent != Other {
		t.Fatalf("intent = %s, want other", got.Intent)
	}
}

func TestParseResponseDecoratedIntent(t *testing.T) {
	got := parseResponse("Intent: [Express_Need]\nConfidence: 0.8")
	if got.Intent != ExpressNeed {
		t.Fatalf("intent = %s, want express_need", got.Intent)
	}
}
