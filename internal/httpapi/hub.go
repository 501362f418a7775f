package httpapi

import (
	"sync"
	"time"

	"github.com/commbridge/bridged/internal/observability"
	"github.com/commbridge/bridged/internal/pipeline"
	"github.com/commbridge/bridged/internal/protocol"
	"github.com/commbridge/bridged/internal/store"
)

// Hub fans pipeline events out to websocket subscribers, keyed by session.
// Publishing never blocks: a saturated subscriber drops events rather than
// stalling the pipeline.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[chan any]struct{}
	metrics *observability.Metrics
}

func NewHub(metrics *observability.Metrics) *Hub {
	return &Hub{
		subs:    make(map[string]map[chan any]struct{}),
		metrics: metrics,
	}
}

func (h *Hub) Subscribe(sessionID string) chan any {
	ch := make(chan any, 256)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan any]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.metrics.ActiveWSStreams.Inc()
	return ch
}

func (h *Hub) Unsubscribe(sessionID string, ch chan any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sessionID]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			h.metrics.ActiveWSStreams.Dec()
		}
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// PublishTrace implements pipeline.EventSink.
func (h *Hub) PublishTrace(entry store.TraceEntry) {
	h.publish(entry.SessionID, protocol.TraceEvent{
		Type:      protocol.TypeTraceEvent,
		SessionID: entry.SessionID,
		Stage:     entry.Stage,
		Phase:     string(entry.Phase),
		Payload:   entry.Payload,
		At:        time.Now().UTC(),
	})
}

// PublishResult implements pipeline.EventSink.
func (h *Hub) PublishResult(res pipeline.Result) {
	h.publish(res.SessionID, protocol.PipelineResult{
		Type:       protocol.TypePipelineResult,
		SessionID:  res.SessionID,
		Input:      res.Input,
		Output:     res.Output,
		Intent:     string(res.Intent),
		Confidence: res.Confidence,
		At:         res.Timestamp,
	})
}

func (h *Hub) publish(sessionID string, msg any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- msg:
		default:
			// Subscriber is not keeping up; drop.
		}
	}
}
