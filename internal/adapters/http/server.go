// Package http exposes the labeling controller as a JSON API.
//
// It is a thin presentation layer: every handler calls into the controller
// and returns the refreshed view, mirroring the render-after-action contract
// of the interactive CLI.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Controller defines the interface for the Tally labeling core.
type Controller interface {
	Start(ctx context.Context) (*session.Session, error)
	Current(s *session.Session) *domain.Row
	Label(ctx context.Context, s *session.Session, id string, value domain.Label) error
	Skip(s *session.Session) string
	Reset(ctx context.Context, s *session.Session) error
	Progress() domain.Progress
}

// Server holds the single annotator session of the HTTP frontend.
// Handlers are serialized: one action runs to completion, including its
// reload-mutate-rewrite cycle, before the next is accepted.
type Server struct {
	Controller Controller

	logger  *slog.Logger
	metrics *metrics

	mu      sync.Mutex
	session *session.Session
}

// NewHandler creates the HTTP handler for the controller.
func NewHandler(ctrl Controller, logger *slog.Logger) http.Handler {
	s := &Server{
		Controller: ctrl,
		logger:     logger,
		metrics:    newMetrics(),
	}

	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/item", s.handleItem)
	r.Post("/item/{id}/label", s.handleLabel)
	r.Post("/skip", s.handleSkip)
	r.Post("/reset", s.handleReset)
	r.Get("/progress", s.handleProgress)
	r.Handle("/metrics", s.metrics.handler())
	return r
}

// ItemResponse is the wire shape of the item currently presented.
type ItemResponse struct {
	ID        string `json:"id,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	Response  string `json:"response,omitempty"`
	Position  int    `json:"position,omitempty"` // 1-based "Item N of M"
	Total     int    `json:"total"`
	Exhausted bool   `json:"exhausted"`
}

// ProgressResponse mirrors domain.Progress on the wire.
type ProgressResponse struct {
	Labeled   int  `json:"labeled"`
	Remaining int  `json:"remaining"`
	Total     int  `json:"total"`
	Complete  bool `json:"complete"`
}

type labelRequest struct {
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ensureSession(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.itemView())
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ensureSession(w, r) {
		return
	}

	var body labelRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	value, err := domain.ParseLabel(body.Value)
	if err != nil || !value.IsSet() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "value must be \"Yes\" or \"No\""})
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.Controller.Label(r.Context(), s.session, id, value); err != nil {
		s.writeActionError(w, err)
		return
	}

	s.metrics.labels.WithLabelValues(string(value)).Inc()
	s.observeProgress()
	writeJSON(w, http.StatusOK, s.itemView())
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ensureSession(w, r) {
		return
	}

	s.Controller.Skip(s.session)
	s.metrics.skips.Inc()
	writeJSON(w, http.StatusOK, s.itemView())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ensureSession(w, r) {
		return
	}

	if err := s.Controller.Reset(r.Context(), s.session); err != nil {
		s.writeActionError(w, err)
		return
	}

	s.metrics.resets.Inc()
	s.observeProgress()
	writeJSON(w, http.StatusOK, s.itemView())
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ensureSession(w, r) {
		return
	}

	p := s.Controller.Progress()
	writeJSON(w, http.StatusOK, ProgressResponse{
		Labeled:   p.Labeled,
		Remaining: p.Remaining,
		Total:     p.Total,
		Complete:  p.Complete(),
	})
}

// ensureSession lazily starts the annotator session. Load-time failures
// surface as 503: labeling is blocked until the dataset is fixed.
// Callers must hold s.mu.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) bool {
	if s.session != nil {
		return true
	}

	sess, err := s.Controller.Start(r.Context())
	if err != nil {
		s.logger.Error("session start failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return false
	}

	s.session = sess
	s.observeProgress()
	return true
}

// writeActionError maps a single-action failure. The current item stays
// presented; the label attempt is treated as not-applied.
func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrRowNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// itemView builds the current-item payload. Callers must hold s.mu.
func (s *Server) itemView() ItemResponse {
	p := s.Controller.Progress()
	row := s.Controller.Current(s.session)
	if row == nil {
		return ItemResponse{Total: p.Total, Exhausted: true}
	}
	return ItemResponse{
		ID:       row.ID,
		Prompt:   row.Prompt,
		Response: row.Response,
		Position: p.Labeled + 1,
		Total:    p.Total,
	}
}

func (s *Server) observeProgress() {
	s.metrics.remaining.Set(float64(s.Controller.Progress().Remaining))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
