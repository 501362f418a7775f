package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAdapter forwards prompts to a model-serving HTTP endpoint.
type HTTPAdapter struct {
	url    string
	client *http.Client
}

func NewHTTPAdapter(url string, timeout time.Duration) *HTTPAdapter {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPAdapter{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

type completeRequest struct {
	Prompt string `json:"prompt"`
}

func (a *HTTPAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completeRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("brain http status %d: %s", res.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		// Plain-text endpoints are acceptable.
		return strings.TrimSpace(string(body)), nil
	}
	return extractText(obj), nil
}

func extractText(obj map[string]any) string {
	for _, k := range []string{"text", "output", "message", "response"} {
		if v, ok := obj[k]; ok {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
