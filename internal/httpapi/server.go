package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/commbridge/bridged/internal/config"
	"github.com/commbridge/bridged/internal/lexicon"
	"github.com/commbridge/bridged/internal/observability"
	"github.com/commbridge/bridged/internal/pipeline"
	"github.com/commbridge/bridged/internal/protocol"
	"github.com/commbridge/bridged/internal/simulation"
	"github.com/commbridge/bridged/internal/store"
	"github.com/commbridge/bridged/internal/translate"
)

// Pipeline is the slice of the orchestrator the API needs.
type Pipeline interface {
	Process(ctx context.Context, inputText, sessionID string) (pipeline.Result, error)
}

type Server struct {
	cfg        config.Config
	store      store.Store
	pipeline   Pipeline
	sim        *simulation.Manager
	translator *translate.Translator
	metrics    *observability.Metrics
	hub        *Hub
	upgrader   websocket.Upgrader
}

func New(
	cfg config.Config,
	st store.Store,
	p Pipeline,
	sim *simulation.Manager,
	translator *translate.Translator,
	metrics *observability.Metrics,
	hub *Hub,
) *Server {
	return &Server{
		cfg:        cfg,
		store:      st,
		pipeline:   p,
		sim:        sim,
		translator: translator,
		metrics:    metrics,
		hub:        hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only same-origin browser connections may watch or
				// drive a session stream.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":  "communication bridge is running",
			"version": "1.0.0",
			"lexicon": lexicon.Version,
		})
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/communicate", s.handleCommunicate)
	r.Post("/v1/sessions", s.handleCreateSession)
	r.Get("/v1/sessions", s.handleListSessions)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Get("/v1/sessions/ws", s.handleSessionWS)
	r.Get("/v1/logs", s.handleLogs)
	r.Post("/v1/simulation/start", s.handleSimulationStart)
	r.Post("/v1/simulation/step", s.handleSimulationStep)
	r.Post("/v1/translate", s.handleTranslate)
	r.Get("/v1/lexicon", s.handleLexicon)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storeReady(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) storeReady(ctx context.Context) error {
	_, err := s.store.RecentSessions(ctx, 1)
	return err
}

type communicateRequest struct {
	InputText string `json:"input_text"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleCommunicate(w http.ResponseWriter, r *http.Request) {
	var req communicateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.InputText) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "input_text is required")
		return
	}

	result, err := s.pipeline.Process(r.Context(), req.InputText, req.SessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "pipeline_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type createSessionRequest struct {
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sessionID := uuid.NewString()
	if err := s.store.CreateSession(r.Context(), sessionID, req.Metadata); err != nil {
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	s.metrics.SessionEvents.WithLabelValues("created").Inc()

	sess, err := s.store.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	sessions, err := s.store.RecentSessions(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return
	}

	sess, err := s.store.GetSession(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "session_not_found", "session not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}

	messages, err := s.store.RecentInteractions(r.Context(), id, 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session":  sess,
		"messages": messages,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	limit := queryInt(r, "limit", 50)

	logs, err := s.store.RecentTrace(r.Context(), sessionID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (s *Server) handleSimulationStart(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.sim.Start(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "simulation_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"status":     "started",
		"message":    "classroom simulation initialized",
	})
}

type simulationStepRequest struct {
	SessionID string `json:"session_id"`
	InputText string `json:"input_text"`
}

func (s *Server) handleSimulationStep(w http.ResponseWriter, r *http.Request) {
	var req simulationStepRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.SessionID == "" || strings.TrimSpace(req.InputText) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "session_id and input_text are required")
		return
	}

	result, err := s.sim.Step(r.Context(), req.SessionID, req.InputText)
	if errors.Is(err, simulation.ErrNotFound) {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "simulation_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type translateRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	respondJSON(w, http.StatusOK, s.translator.Translate(r.Context(), req.Text))
}

func (s *Server) handleLexicon(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"version":        lexicon.Version,
		"tokens":         lexicon.EmojiTokens,
		"gesture_labels": lexicon.GestureLabels,
		"gestures":       lexicon.Gestures,
		"phrases":        lexicon.Phrases,
		"categories":     lexicon.Categories,
	})
}

func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}

	if _, err := s.store.GetSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "session_not_found", "session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := s.hub.Subscribe(sessionID)
	defer s.hub.Unsubscribe(sessionID, events)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-events:
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(1 << 20)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.hub.publish(sessionID, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Detail:    err.Error(),
			})
			continue
		}

		utterance, ok := parsed.(protocol.ClientUtterance)
		if !ok || utterance.SessionID != sessionID {
			continue
		}
		if _, err := s.pipeline.Process(ctx, utterance.InputText, sessionID); err != nil {
			s.hub.publish(sessionID, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "pipeline_failed",
				Detail:    err.Error(),
			})
		}
	}

	cancel()
	<-writerDone
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
