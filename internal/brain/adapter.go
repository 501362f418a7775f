// Package brain abstracts the external text model behind a narrow
// prompt-in/text-out contract. Every caller treats an adapter error the same
// way it treats a missing adapter: switch to its deterministic fallback.
package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Adapter completes a prompt with the external text capability.
type Adapter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode    string
	HTTPURL string
	Timeout time.Duration
}

// ErrUnavailable signals that no capability is configured.
var ErrUnavailable = errors.New("brain capability unavailable")

// NewAdapter builds an adapter for the configured mode. A nil adapter (mode
// "off", or "auto" without an endpoint) is valid: stages then run their
// fallback path unconditionally.
func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPAdapter(cfg.HTTPURL, cfg.Timeout), nil
		}
		return nil, nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("brain HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg.HTTPURL, cfg.Timeout), nil
	case "mock":
		return NewMockAdapter(), nil
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported brain mode %q", cfg.Mode)
	}
}
