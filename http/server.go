// Package http serves the pipeline over HTTP with JSON bodies.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/forge"
	forgejson "github.com/fwojciec/forge/json"
	forgelog "github.com/fwojciec/forge/log"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-Id"

// Config wires a Server. Pipeline is required; Status enables the
// provider-status route; Store enables the workspace routes; Metrics,
// when set, is mounted at /metrics.
type Config struct {
	Pipeline  *forge.Pipeline
	Status    *forge.StatusChecker
	Providers []forge.ProviderID // priority order reported by provider-status
	Store     forge.WorkspaceStore
	Metrics   http.Handler
	Logger    *slog.Logger
}

// Server routes API requests to the pipeline.
type Server struct {
	pipeline  *forge.Pipeline
	status    *forge.StatusChecker
	providers []forge.ProviderID
	store     forge.WorkspaceStore
	logger    *slog.Logger
	handler   http.Handler
}

// NewServer creates a Server from cfg.
func NewServer(cfg Config) *Server {
	s := &Server{
		pipeline:  cfg.Pipeline,
		status:    cfg.Status,
		providers: cfg.Providers,
		store:     cfg.Store,
		logger:    cfg.Logger,
	}
	if s.logger == nil {
		s.logger = forgelog.Nop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/gen-ai-code", s.handleGenerate)
	mux.HandleFunc("POST /api/enhance-prompt", s.handleEnhance)
	mux.HandleFunc("POST /api/ai-chat", s.handleChat)
	if s.status != nil {
		mux.HandleFunc("GET /api/provider-status", s.handleStatus)
	}
	if s.store != nil {
		mux.HandleFunc("POST /api/workspaces/{id}/generate", s.handleWorkspaceGenerate)
		mux.HandleFunc("GET /api/workspaces/{id}", s.handleWorkspaceGet)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	s.handler = s.withRequestID(mux)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		s.logger.Info("request", "request_id", id, "method", r.Method, "path", r.URL.Path,
			"status", sw.status, "duration", time.Since(start))
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := forgejson.DecodeGenerationRequest(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.pipeline.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, func() ([]byte, error) { return forgejson.MarshalGeneration(res) })
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	req, err := forgejson.DecodePromptRequest(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.pipeline.Enhance(r.Context(), req.Prompt, forge.Environment(req.Environment))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, func() ([]byte, error) { return forgejson.MarshalEnhance(res) })
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, err := forgejson.DecodePromptRequest(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.pipeline.Chat(r.Context(), req.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, func() ([]byte, error) { return forgejson.MarshalChat(res) })
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.status.Check(r.Context())
	s.write(w, r, http.StatusOK, func() ([]byte, error) { return forgejson.MarshalStatus(st, s.providers) })
}

func (s *Server) handleWorkspaceGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := forgejson.DecodeGenerationRequest(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, _, err := s.pipeline.GenerateInWorkspace(r.Context(), s.store, r.PathValue("id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, func() ([]byte, error) { return forgejson.MarshalGeneration(res) })
}

func (s *Server) handleWorkspaceGet(w http.ResponseWriter, r *http.Request) {
	ws, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, func() ([]byte, error) { return forgejson.MarshalWorkspaceView(ws) })
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, marshal func() ([]byte, error)) {
	body, err := marshal()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", w.Header().Get(RequestIDHeader), "path", r.URL.Path,
			"code", forgejson.ErrorCode(err), "provider", forge.ProviderOf(err), "error", err)
	}
	body, mErr := forgejson.MarshalError(err)
	if mErr != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, forge.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, forge.ErrNotFound):
		return http.StatusNotFound
	}
	switch forge.ErrorKindOf(err) {
	case forge.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case forge.KindUnavailable, forge.KindTransient:
		return http.StatusServiceUnavailable
	case forge.KindMalformed, forge.KindRecoveryExhausted:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
