package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"chessai/game"
	"chessai/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// FindMoveRequest asks for a move in the position given by FEN. Omitted
// budget fields keep the server's configuration. UseTimeLimit false runs the
// search on the rollout budget alone.
type FindMoveRequest struct {
	FEN          string `json:"fen"`
	MaxRollouts  int    `json:"max_rollouts,omitempty"`
	UseTimeLimit *bool  `json:"use_time_limit,omitempty"`
	TimeLimitMs  int64  `json:"time_limit_ms,omitempty"`
}

type FindMoveResponse struct {
	Move       string `json:"move"` // UCI notation, "0000" when not found
	Found      bool   `json:"found"`
	Rollouts   int    `json:"rollouts"`
	DurationMs int64  `json:"duration_ms"`
}

// Server answers move requests with one searcher, one search at a time.
type Server struct {
	mu       sync.Mutex
	searcher searcher.Searcher
	cfg      searcher.Config
}

func NewServer(s searcher.Searcher, cfg searcher.Config) *Server {
	return &Server{searcher: s, cfg: cfg}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/findmove", s.handleFindMove)
	return r
}

// StartAgentServer serves s on addr until the listener fails.
func StartAgentServer(addr string, s *Server) error {
	log.Info().Msgf("[AgentServer] Starting agent server on %s ...", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload FindMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request: %w", err))
		return
	}
	state, err := game.FromFEN(payload.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := s.cfg
	if payload.MaxRollouts > 0 {
		cfg.MaxRollouts = payload.MaxRollouts
	}
	if payload.UseTimeLimit != nil {
		cfg.UseTimeLimit = *payload.UseTimeLimit
	}
	if payload.TimeLimitMs > 0 {
		cfg.UseTimeLimit = true
		cfg.TimeLimit = time.Duration(payload.TimeLimitMs) * time.Millisecond
	}
	if cfg.UseTimeLimit && cfg.TimeLimit <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("time limit enabled without a duration"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.searcher.Start(state, cfg)
	var result searcher.Result
	select {
	case result = <-results:
	case <-r.Context().Done():
		// Client gave up; stop early and drain
		s.searcher.Cancel()
		result = <-results
	}

	writeJSON(w, http.StatusOK, FindMoveResponse{
		Move:       result.Move.String(),
		Found:      result.Found(),
		Rollouts:   result.Rollouts,
		DurationMs: result.Duration.Milliseconds(),
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("handled request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
