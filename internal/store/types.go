package store

import "time"

// SessionStatus is the lifecycle state of a durable session.
type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusClosed SessionStatus = "closed"
)

// Session is one conversation container. Only Status ever changes after
// creation; rows are never deleted by the service.
type Session struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
	Status    SessionStatus  `json:"status"`
}

// Interaction is one append-only exchange: what came in, what went out, and
// the resolved intent. Immutable once written.
type Interaction struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Input      string    `json:"input_text"`
	Output     string    `json:"output_text"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// TracePhase marks where in a stage's lifecycle a trace entry was written.
type TracePhase string

const (
	PhaseStarted   TracePhase = "started"
	PhaseCompleted TracePhase = "completed"
	PhaseRetry     TracePhase = "retry"
)

// TraceEntry is one append-only pipeline audit record. Seq is assigned by the
// store and gives the strict per-session ordering used to reconstruct a run.
type TraceEntry struct {
	ID        string         `json:"id"`
	Seq       int64          `json:"seq"`
	SessionID string         `json:"session_id"`
	Stage     string         `json:"stage"`
	Phase     TracePhase     `json:"phase"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}
