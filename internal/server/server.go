// Package server implements the activity service HTTP API.
//
// The service backs the export flows: it serves an activity's task list and
// receives share beacons. Routes:
//
//	GET  /healthz
//	GET  /api/activities/{activityID}
//	GET  /api/activities/{activityID}/tasks
//	POST /api/activities/{activityID}/track-share
//	POST /api/activities
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
)

// Server is the activity service.
type Server struct {
	store  Store
	logger *log.Logger
	router chi.Router
}

// New creates a Server over the given store.
func New(store Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{store: store, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/activities", func(r chi.Router) {
		r.Post("/", s.handleCreateActivity)
		r.Route("/{activityID}", func(r chi.Router) {
			r.Get("/", s.handleGetActivity)
			r.Get("/tasks", s.handleListTasks)
			r.Post("/track-share", s.handleTrackShare)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var a Activity
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, err, "decode activity"))
		return
	}
	if a.Title == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidRequest, "title is required"))
		return
	}

	created, err := s.store.CreateActivity(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.GetActivity(r.Context(), chi.URLParam(r, "activityID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), chi.URLParam(r, "activityID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []card.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// shareEvent mirrors the client beacon payload.
type shareEvent struct {
	Platform string `json:"platform"`
	Count    int    `json:"count,omitempty"`
}

func (s *Server) handleTrackShare(w http.ResponseWriter, r *http.Request) {
	var ev shareEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidRequest, err, "decode share event"))
		return
	}
	if ev.Platform == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidRequest, "platform is required"))
		return
	}

	id := chi.URLParam(r, "activityID")
	if err := s.store.RecordShare(r.Context(), id, ev.Platform, ev.Count); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("share recorded", "activity", id, "platform", ev.Platform, "count", ev.Count)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidPlatform, errors.ErrCodeInvalidPack:
		status = http.StatusBadRequest
	case errors.ErrCodeActivityNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
