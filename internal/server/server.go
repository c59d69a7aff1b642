// Package server exposes the remote drop API: a small REST surface that
// runs the same ingest→apply→commit path as the overlay, so files can be
// pushed onto a grid from another machine or a script.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/griddock/griddock/pkg/deck"
	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/ingest"
	"github.com/griddock/griddock/pkg/store"
)

// Server serves the remote drop API over one profile store.
type Server struct {
	store    store.Store
	ingestor *ingest.Ingestor
	layout   geometry.Layout
	logger   *log.Logger

	// mu serializes drop commits: a batch computes placements against the
	// page it loaded, so the load→apply→commit cycle must not interleave.
	mu sync.Mutex
}

// New creates a server. If logger is nil, the default logger is used.
func New(st store.Store, ing *ingest.Ingestor, layout geometry.Layout, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, ingestor: ing, layout: layout, logger: logger}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/profiles", s.handleListProfiles)
		r.Get("/profiles/{name}", s.handleGetProfile)
		r.Get("/profiles/{name}/pages/{page}", s.handleGetPage)
		r.Post("/profiles/{name}/pages/{page}/drop", s.handleDrop)
	})
	return r
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("remote drop API listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		s.logger.Info("remote drop API stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

// =============================================================================
// Read Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"profiles": names})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProfile(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProfile(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	pageIdx, err := pageParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	page, err := p.PageAt(pageIdx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// loadProfile resolves the {name} URL parameter against the store.
func (s *Server) loadProfile(r *http.Request) (deck.Profile, error) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateProfileName(name); err != nil {
		return deck.Profile{}, err
	}
	return s.store.Get(r.Context(), name)
}

// pageParam parses the {page} URL parameter.
func pageParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "page")
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, errors.New(errors.ErrCodeInvalidPage, "invalid page index %q", raw)
	}
	return idx, nil
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto HTTP statuses and the JSON error
// envelope.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if stderrors.Is(err, store.ErrNotFound) {
		code = errors.ErrCodeProfileNotFound
	}

	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	respondJSON(w, status, body)
}

// statusFor maps error code categories to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidPosition,
		errors.ErrCodeInvalidProfile, errors.ErrCodeInvalidPage, errors.ErrCodeInvalidAction,
		errors.ErrCodeInvalidBackend:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeProfileNotFound, errors.ErrCodePageNotFound,
		errors.ErrCodeButtonNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeGridFull:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
