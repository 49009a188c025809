// Package server implements the HTTP API for merging and serving
// diagrams. It wraps the shared pipeline runner and a diagram store
// behind a small JSON API.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/YasminAwad/Text2BPMN/pkg/buildinfo"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
	"github.com/YasminAwad/Text2BPMN/pkg/observability"
	"github.com/YasminAwad/Text2BPMN/pkg/pipeline"
	"github.com/YasminAwad/Text2BPMN/pkg/store"
)

// maxBodyBytes caps request bodies; process models are small.
const maxBodyBytes = 4 << 20

// Server handles the diagram API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server around a runner and a store.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/diagrams", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/artifacts/{format}", s.handleArtifact)
		r.Delete("/{id}", s.handleDelete)
	})

	return r
}

// createRequest is the POST /v1/diagrams body.
type createRequest struct {
	Name    string           `json:"name,omitempty"`
	Process model.Process    `json:"process"`
	Options pipeline.Options `json:"options,omitempty"`
}

// createResponse summarizes a stored merge.
type createResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"createdAt"`
	Formats   []string           `json:"formats"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cacheInfo"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	result, err := s.runner.Execute(r.Context(), &req.Process, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := req.Name
	if name == "" {
		name = req.Process.Name
	}
	rec := store.Record{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Process:   req.Process,
		Artifacts: result.Artifacts,
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}

	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}

	writeJSON(w, http.StatusCreated, createResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Formats:   formats,
		Stats:     result.Stats,
		CacheInfo: result.CacheInfo,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": recs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	formats := make([]string, 0, len(rec.Artifacts))
	for f := range rec.Artifacts {
		formats = append(formats, f)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        rec.ID,
		"name":      rec.Name,
		"createdAt": rec.CreatedAt,
		"process":   rec.Process,
		"formats":   formats,
	})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := chi.URLParam(r, "format")
	data, ok := rec.Artifacts[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound,
			"diagram %s has no %q artifact", rec.ID, format))
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logRequests emits one structured log line per request and feeds the
// server observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatBPMN:
		return "application/xml"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses and writes a JSON error
// body with the user-facing message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeInvalidModel, errors.ErrCodeMissingReference,
		errors.ErrCodeEmptyLane, errors.ErrCodeInconsistentOrder:
		status = http.StatusUnprocessableEntity
	}

	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(errors.GetCode(err)),
			"message": errors.UserMessage(err),
		},
	})
}
