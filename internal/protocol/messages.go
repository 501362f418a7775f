// Package protocol defines the websocket payloads for the live session
// stream: utterances in, trace events and pipeline results out.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientUtterance MessageType = "client_utterance"
	TypeTraceEvent      MessageType = "trace_event"
	TypePipelineResult  MessageType = "pipeline_result"
	TypeErrorEvent      MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientUtterance is one raw input submitted over the stream.
type ClientUtterance struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	InputText string      `json:"input_text"`
}

// TraceEvent mirrors one durable trace entry as it is written.
type TraceEvent struct {
	Type      MessageType    `json:"type"`
	SessionID string         `json:"session_id"`
	Stage     string         `json:"stage"`
	Phase     string         `json:"phase"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        time.Time      `json:"at"`
}

// PipelineResult carries the final reply for one utterance.
type PipelineResult struct {
	Type       MessageType `json:"type"`
	SessionID  string      `json:"session_id"`
	Input      string      `json:"input"`
	Output     string      `json:"output"`
	Intent     string      `json:"intent"`
	Confidence float64     `json:"confidence"`
	At         time.Time   `json:"at"`
}

// ErrorEvent reports a failed utterance without closing the stream.
type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
}

// ParseClientMessage decodes and validates an inbound client payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientUtterance:
		var msg ClientUtterance
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || strings.TrimSpace(msg.InputText) == "" {
			return nil, errors.New("invalid client_utterance")
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}
}
