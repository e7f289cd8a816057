package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hupe1980/fundmesh/core"
	"github.com/hupe1980/fundmesh/logging"
	"github.com/hupe1980/fundmesh/memory"
	"github.com/hupe1980/fundmesh/runner"
)

// Options configures the HTTP server.
type Options struct {
	// Invoker serves the per-agent endpoints. Nil disables them.
	Invoker core.Invoker
	// MemoryService backs the session summary endpoint. Nil disables it.
	MemoryService memory.Service
	// MemoryID and ActorID address summaries within the memory service.
	MemoryID string
	ActorID  string
	// Logger receives structured request logs.
	Logger logging.Logger
}

// Server routes consultation and agent traffic onto a runner and an
// optional local agent runtime.
type Server struct {
	runner  *runner.Runner
	invoker core.Invoker

	memoryService memory.Service
	memoryID      string
	actorID       string

	logger logging.Logger
	mux    *http.ServeMux
}

// New builds the HTTP server around a consultation runner.
func New(r *runner.Runner, optFns ...func(o *Options)) *Server {
	opts := Options{
		ActorID: "fund_user",
		Logger:  logging.NewNoOpLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		runner:        r,
		invoker:       opts.Invoker,
		memoryService: opts.MemoryService,
		memoryID:      opts.MemoryID,
		actorID:       opts.ActorID,
		logger:        opts.Logger,
		mux:           http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /invocations", s.handleConsult)
	s.mux.HandleFunc("POST /agents/{stage}/invocations", s.handleAgent)
	s.mux.HandleFunc("GET /sessions/{session_id}/summary", s.handleSummary)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

// Handler returns the root handler for mounting into an http.Server.
func (s *Server) Handler() http.Handler { return s.mux }

type consultRequest struct {
	InputData map[string]any `json:"input_data"`
	SessionID string         `json:"session_id,omitempty"`
}

type agentRequest struct {
	InputData any `json:"input_data"`
}

// handleConsult streams a full consultation over SSE.
func (s *Server) handleConsult(w http.ResponseWriter, r *http.Request) {
	var req consultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if len(req.InputData) == 0 {
		http.Error(w, "input_data is required", http.StatusBadRequest)
		return
	}

	flusher, ok := s.startStream(w)
	if !ok {
		return
	}

	sessionID, events, errs := s.runner.Consult(r.Context(), req.InputData, req.SessionID)

	s.logger.Info("consultation stream opened session_id=%s", sessionID)

	for ev := range events {
		s.writeEvent(w, flusher, ev)
	}

	// Stage failures already surfaced as a terminal error event; the error
	// channel only needs draining here.
	if err := <-errs; err != nil {
		s.logger.Warn("consultation ended with error session_id=%s: %v", sessionID, err)
	}
}

// handleAgent streams a single stage invocation over SSE, speaking the same
// protocol a remote agent would.
func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if s.invoker == nil {
		http.Error(w, "no local agent runtime configured", http.StatusNotFound)
		return
	}

	stage, err := core.ParseStage(r.PathValue("stage"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	flusher, ok := s.startStream(w)
	if !ok {
		return
	}

	if _, err := s.invoker.Invoke(r.Context(), stage, req.InputData, func(ev core.Event) {
		s.writeEvent(w, flusher, ev)
	}); err != nil {
		s.writeEvent(w, flusher, core.NewErrorEvent(err))
	}
}

// handleSummary serves the stored summary of a session.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.memoryService == nil || s.memoryID == "" {
		http.Error(w, "session memory not configured", http.StatusNotFound)
		return
	}

	sessionID := r.PathValue("session_id")
	namespace := memory.SummaryNamespace(s.actorID, sessionID)

	records, err := s.memoryService.Retrieve(r.Context(), s.memoryID, namespace, "")
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to retrieve summary: %v", err), http.StatusInternalServerError)
		return
	}

	if len(records) == 0 {
		http.Error(w, "no summary for session", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records[0])
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) startStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return flusher, true
}

func (s *Server) writeEvent(w http.ResponseWriter, flusher http.Flusher, ev core.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to encode event type=%s: %v", ev.Type, err)
		return
	}

	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
