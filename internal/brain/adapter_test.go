package brain

import (
	"context"
	"testing"
	"time"
)

func TestNewAdapterModes(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
		wantErr bool
	}{
		{"off", Config{Mode: "off"}, true, false},
		{"auto without url", Config{Mode: "auto"}, true, false},
		{"empty mode defaults to auto", Config{}, true, false},
		{"auto with url", Config{Mode: "auto", HTTPURL: "http://localhost:9000/complete"}, false, false},
		{"http", Config{Mode: "http", HTTPURL: "http://localhost:9000/complete"}, false, false},
		{"http without url", Config{Mode: "http"}, false, true},
		{"mock", Config{Mode: "mock"}, false, false},
		{"unknown", Config{Mode: "quantum"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAdapter(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewAdapter() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAdapter() error = %v", err)
			}
			if (a == nil) != tt.wantNil {
				t.Fatalf("NewAdapter() adapter = %v, wantNil = %v", a, tt.wantNil)
			}
		})
	}
}

func TestMockAdapterDeterministic(t *testing.T) {
	a := NewMockAdapter()

	got, err := a.Complete(context.Background(), "Classify the intent into one of these categories")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "Intent: other\nConfidence: 0.9\nExplanation: mock classification" {
		t.Fatalf("Complete() = %q", got)
	}

	got, err = a.Complete(context.Background(), "Provide a gesture translation for this sentence")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "💬" {
		t.Fatalf("Complete() = %q", got)
	}
}

func TestMockAdapterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockAdapter().Complete(ctx, "anything"); err == nil {
		t.Fatalf("Complete() error = nil, want context error")
	}
}

func TestNewHTTPAdapterDefaultTimeout(t *testing.T) {
	a := NewHTTPAdapter("http://localhost:9000", 0)
	if a.client.Timeout != 20*time.Second {
		t.Fatalf("timeout = %v, want 20s", a.client.Timeout)
	}
}
