// Package pipeline sequences the interpretation, classification, and
// generation stages for one utterance and records a durable trace of every
// step.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/commbridge/bridged/internal/contextstore"
	"github.com/commbridge/bridged/internal/intent"
	"github.com/commbridge/bridged/internal/interpret"
	"github.com/commbridge/bridged/internal/observability"
	"github.com/commbridge/bridged/internal/respond"
	"github.com/commbridge/bridged/internal/store"
)

// Stage names as they appear in trace entries.
const (
	StageInterpreter = "interpreter"
	StageClassifier  = "classifier"
	StageCoordinator = "coordinator"
	StageGenerator   = "generator"
	StagePersistence = "persistence"
)

// WorkflowStep is one stage outcome in the order it ran.
type WorkflowStep struct {
	Agent  string `json:"agent"`
	Result any    `json:"result"`
}

// Result is the caller-facing outcome of one pipeline run.
type Result struct {
	SessionID  string         `json:"session_id"`
	Input      string         `json:"input"`
	Output     string         `json:"output"`
	Intent     intent.Intent  `json:"intent"`
	Confidence float64        `json:"confidence"`
	Workflow   []WorkflowStep `json:"workflow"`
	Timestamp  time.Time      `json:"timestamp"`
}

// EventSink receives live pipeline events for streaming observers. Sinks must
// not block.
type EventSink interface {
	PublishTrace(entry store.TraceEntry)
	PublishResult(res Result)
}

// Config tunes the orchestrator.
type Config struct {
	// ConfidenceThreshold gates the single classification retry.
	ConfidenceThreshold float64
	// BrainEnabled records whether an external capability is configured, so
	// fallback outcomes can be counted as capability failures.
	BrainEnabled bool
}

// Orchestrator runs the fixed stage sequence. Stages degrade internally on
// capability failure; only durable-store failures abort a request.
type Orchestrator struct {
	store       store.Store
	contexts    *contextstore.Store
	interpreter *interpret.Interpreter
	classifier  *intent.Classifier
	generator   *respond.Generator
	metrics     *observability.Metrics
	sink        EventSink
	threshold   float64
	brain       bool
}

func New(
	st store.Store,
	contexts *contextstore.Store,
	interpreter *interpret.Interpreter,
	classifier *intent.Classifier,
	generator *respond.Generator,
	metrics *observability.Metrics,
	cfg Config,
) *Orchestrator {
	threshold := cfg.ConfidenceThreshold
	if threshold <= 0 {
		threshold = 0.7
	}
	return &Orchestrator{
		store:       st,
		contexts:    contexts,
		interpreter: interpreter,
		classifier:  classifier,
		generator:   generator,
		metrics:     metrics,
		threshold:   threshold,
		brain:       cfg.BrainEnabled,
	}
}

// SetSink attaches a live event observer. Call before serving requests.
func (o *Orchestrator) SetSink(sink EventSink) { o.sink = sink }

// Process runs one utterance through the pipeline. A missing sessionID mints
// one and creates the session; an unknown provided sessionID is created on
// first use.
func (o *Orchestrator) Process(ctx context.Context, inputText, sessionID string) (Result, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
		if err := o.createSession(ctx, sessionID); err != nil {
			return Result{}, err
		}
	} else if _, err := o.store.GetSession(ctx, sessionID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			o.metrics.StoreErrors.WithLabelValues("get_session").Inc()
			return Result{}, fmt.Errorf("load session: %w", err)
		}
		if err := o.createSession(ctx, sessionID); err != nil {
			return Result{}, err
		}
	}

	var workflow []WorkflowStep

	// Interpretation.
	if err := o.trace(ctx, sessionID, StageInterpreter, store.PhaseStarted, map[string]any{"input": inputText}); err != nil {
		return Result{}, err
	}
	start := time.Now()
	interpretation := o.interpreter.Interpret(ctx, inputText)
	o.metrics.ObserveStageLatency(StageInterpreter, time.Since(start))
	o.countFallback(StageInterpreter, interpretation.Method == interpret.MethodRuleBased)
	workflow = append(workflow, WorkflowStep{Agent: StageInterpreter, Result: interpretation})
	if err := o.trace(ctx, sessionID, StageInterpreter, store.PhaseCompleted, payload(interpretation)); err != nil {
		return Result{}, err
	}

	// Classification without context.
	if err := o.trace(ctx, sessionID, StageClassifier, store.PhaseStarted, map[string]any{"semantic_meaning": interpretation.SemanticMeaning}); err != nil {
		return Result{}, err
	}
	start = time.Now()
	intentResult := o.classifier.Classify(ctx, interpretation.SemanticMeaning, "")
	o.metrics.ObserveStageLatency(StageClassifier, time.Since(start))
	workflow = append(workflow, WorkflowStep{Agent: StageClassifier, Result: intentResult})
	if err := o.trace(ctx, sessionID, StageClassifier, store.PhaseCompleted, payload(intentResult)); err != nil {
		return Result{}, err
	}

	// Confidence gate: exactly one retry, with context attached. The retry
	// result replaces the working result; the original stays in the trace.
	if intentResult.Confidence < o.threshold {
		o.metrics.ClassifyRetries.Inc()
		if err := o.trace(ctx, sessionID, StageCoordinator, store.PhaseRetry, map[string]any{
			"reason":     "low_confidence",
			"confidence": intentResult.Confidence,
		}); err != nil {
			return Result{}, err
		}

		summary := ""
		if snapshot, ok := o.contexts.Get(ctx, sessionID); ok {
			summary = snapshot.Summary
		}
		start = time.Now()
		intentResult = o.classifier.Classify(ctx, interpretation.SemanticMeaning, summary)
		o.metrics.ObserveStageLatency(StageClassifier, time.Since(start))
		workflow = append(workflow, WorkflowStep{Agent: StageClassifier + "_retry", Result: intentResult})
		if err := o.trace(ctx, sessionID, StageClassifier, store.PhaseRetry, payload(intentResult)); err != nil {
			return Result{}, err
		}
	}

	// Generation.
	if err := o.trace(ctx, sessionID, StageGenerator, store.PhaseStarted, payload(intentResult)); err != nil {
		return Result{}, err
	}
	start = time.Now()
	output := o.generator.Generate(ctx, intentResult.Intent, interpretation.SemanticMeaning, intentResult.Confidence)
	o.metrics.ObserveStageLatency(StageGenerator, time.Since(start))
	o.countFallback(StageGenerator, output.Method == respond.MethodTemplate)
	workflow = append(workflow, WorkflowStep{Agent: StageGenerator, Result: output})
	if err := o.trace(ctx, sessionID, StageGenerator, store.PhaseCompleted, payload(output)); err != nil {
		return Result{}, err
	}

	// Context update and durable write. The write is the durability contract
	// with the caller: its failure fails the request.
	o.contexts.Update(sessionID, contextstore.Entry{
		Timestamp: time.Now().UTC(),
		Input:     inputText,
		Intent:    string(intentResult.Intent),
		Output:    output.Text,
	})

	rec := store.Interaction{
		SessionID:  sessionID,
		Input:      inputText,
		Output:     output.Text,
		Intent:     string(intentResult.Intent),
		Confidence: intentResult.Confidence,
	}
	if err := o.store.StoreInteraction(ctx, rec); err != nil {
		o.metrics.StoreErrors.WithLabelValues("store_interaction").Inc()
		return Result{}, fmt.Errorf("store interaction: %w", err)
	}
	if err := o.trace(ctx, sessionID, StagePersistence, store.PhaseCompleted, map[string]any{"intent": string(intentResult.Intent)}); err != nil {
		return Result{}, err
	}

	res := Result{
		SessionID:  sessionID,
		Input:      inputText,
		Output:     output.Text,
		Intent:     intentResult.Intent,
		Confidence: intentResult.Confidence,
		Workflow:   workflow,
		Timestamp:  time.Now().UTC(),
	}

	o.metrics.PipelineRuns.WithLabelValues(string(res.Intent), string(output.Method)).Inc()
	if o.sink != nil {
		o.sink.PublishResult(res)
	}
	return res, nil
}

func (o *Orchestrator) createSession(ctx context.Context, sessionID string) error {
	if err := o.store.CreateSession(ctx, sessionID, nil); err != nil {
		o.metrics.StoreErrors.WithLabelValues("create_session").Inc()
		return fmt.Errorf("create session: %w", err)
	}
	o.metrics.SessionEvents.WithLabelValues("created").Inc()
	return nil
}

func (o *Orchestrator) trace(ctx context.Context, sessionID, stage string, phase store.TracePhase, data map[string]any) error {
	entry := store.TraceEntry{
		SessionID: sessionID,
		Stage:     stage,
		Phase:     phase,
		Payload:   data,
	}
	if err := o.store.AppendTrace(ctx, entry); err != nil {
		o.metrics.StoreErrors.WithLabelValues("append_trace").Inc()
		return fmt.Errorf("append trace: %w", err)
	}
	if o.sink != nil {
		o.sink.PublishTrace(entry)
	}
	return nil
}

// countFallback attributes a fallback outcome to a capability failure only
// when a capability was actually configured.
func (o *Orchestrator) countFallback(stage string, fellBack bool) {
	if o.brain && fellBack {
		o.metrics.CapabilityErrors.WithLabelValues(stage).Inc()
	}
}

// payload flattens a typed stage result into the trace's JSON object form.
func payload(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{"value": string(b)}
	}
	return m
}
