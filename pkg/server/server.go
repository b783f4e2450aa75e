// Package server exposes the assistant over HTTP: a server-push answer stream
// plus small budget and cache maintenance endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dg-workos/opsassist/pkg/answer"
	"github.com/dg-workos/opsassist/pkg/budget"
	cachesqlite "github.com/dg-workos/opsassist/pkg/cache/sqlite"
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
)

// sweepInterval is how often expired answer rows are removed in the background.
const sweepInterval = time.Hour

// Server is the assistant HTTP server.
type Server struct {
	cfg      *config.Config
	streamer *answer.Streamer
	budget   *budget.Budget
	cache    *cachesqlite.Cache
	log      *zap.Logger
	mux      *http.ServeMux
}

// New creates a Server wired with all dependencies.
func New(cfg *config.Config, st *answer.Streamer, b *budget.Budget, c *cachesqlite.Cache, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, streamer: st, budget: b, cache: c, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/assistant/ask", s.handleAsk)
	s.mux.HandleFunc("GET /api/assistant/budget", s.handleBudget)
	s.mux.HandleFunc("POST /api/assistant/cache/sweep", s.handleSweep)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown and a periodic
// cache sweep.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("opsassist listening", zap.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) sweepLoop(ctx context.Context) {
	if s.cache == nil {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.cache.SweepExpired(ctx)
			if err != nil {
				s.log.Warn("cache sweep failed", zap.Error(err))
			} else if n > 0 {
				s.log.Info("swept expired answers", zap.Int64("removed", n))
			}
		}
	}
}

// askRequest is the answer endpoint payload.
type askRequest struct {
	Question    string `json:"question"`
	CurrentPage string `json:"currentPage"`
}

// sseEmitter forwards answer events as server-sent events, one flush per event.
type sseEmitter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (e *sseEmitter) send(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	e.f.Flush()
	return nil
}

func (e *sseEmitter) Meta(ev models.MetaEvent) error   { return e.send("meta", ev) }
func (e *sseEmitter) Text(ev models.TextEvent) error   { return e.send("text", ev) }
func (e *sseEmitter) Done(ev models.DoneEvent) error   { return e.send("done", ev) }
func (e *sseEmitter) Error(ev models.ErrorEvent) error { return e.send("error", ev) }

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeJSONError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.CurrentPage == "" {
		req.CurrentPage = "home"
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	em := &sseEmitter{w: w, f: flusher}
	if err := s.streamer.Answer(r.Context(), req.Question, req.CurrentPage, em); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.log.Warn("answer stream ended with error", zap.Error(err))
	}
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.budget.Status())
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "cache disabled")
		return
	}
	n, err := s.cache.SweepExpired(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "sweep failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"removed":%d}`, n)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
