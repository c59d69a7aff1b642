package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/griddock/griddock/pkg/drag"
	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/geometry"
	"github.com/griddock/griddock/pkg/ingest"
)

// dropRequest is one remote drop. Pointer coordinates are grid-relative
// (the grid's top-left cell starts at 0,0); omitting the pointer places
// files in the first free cells.
type dropRequest struct {
	Files   []string        `json:"files"`
	Pointer *geometry.Point `json:"pointer,omitempty"`
}

// fileOutcome is the per-file result in a drop response.
type fileOutcome struct {
	Path   string         `json:"path"`
	Status string         `json:"status"`
	Cell   *geometry.Cell `json:"cell,omitempty"`
	Action string         `json:"action,omitempty"`
	Icon   string         `json:"icon,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type dropResponse struct {
	BatchID  string        `json:"batch_id"`
	Profile  string        `json:"profile"`
	Page     int           `json:"page"`
	Placed   int           `json:"placed"`
	Skipped  int           `json:"skipped"`
	Summary  string        `json:"summary"`
	Outcomes []fileOutcome `json:"outcomes"`
}

// handleDrop ingests a remote drop batch into one page: the same
// load→ingest→apply→commit cycle the overlay runs, minus the drag tracker —
// the request's optional pointer stands in for the drop position.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	name := chi.URLParam(r, "name")
	if err := errors.ValidateProfileName(name); err != nil {
		s.respondError(w, r, err)
		return
	}
	pageIdx, err := pageParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// A pointer that resolves to no cell leaves fallback scanning; (-1,-1)
	// lies outside every layout this server hands out.
	snap := drag.Snapshot{Pointer: geometry.Point{X: -1, Y: -1}}
	if req.Pointer != nil {
		snap.Pointer = *req.Pointer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.Get(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	page, err := profile.PageAt(pageIdx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Grid dimensions follow the profile; the configured layout contributes
	// only the cell pixel geometry pointer coordinates resolve against.
	layout := s.layout
	layout.Rows, layout.Cols = profile.Rows, profile.Cols

	result, err := s.ingestor.Batch(r.Context(), ingest.BatchRequest{
		Files:    req.Files,
		Snapshot: snap,
		Layout:   layout,
		Page:     page,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if len(result.Placements) > 0 {
		applied, err := page.Apply(result.Placements)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		next, err := profile.ReplacePage(pageIdx, applied)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if err := s.store.Set(r.Context(), next); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	resp := dropResponse{
		BatchID:  result.BatchID,
		Profile:  name,
		Page:     pageIdx,
		Placed:   result.Stats.Placed + result.Stats.Relocated,
		Skipped:  result.Stats.Skipped,
		Summary:  result.Summary(),
		Outcomes: make([]fileOutcome, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		fo := fileOutcome{
			Path:   o.Path,
			Status: o.Status,
			Cell:   o.Cell,
			Action: o.Action,
			Icon:   o.Icon.Ref,
		}
		if o.Err != nil {
			fo.Error = errors.UserMessage(o.Err)
		}
		resp.Outcomes = append(resp.Outcomes, fo)
	}
	respondJSON(w, http.StatusOK, resp)
}
