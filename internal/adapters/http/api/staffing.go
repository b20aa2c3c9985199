package api

import (
	"errors"
	"net/http"

	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/types"
)

// StaffingHandler handles deficit and hiring requests.
type StaffingHandler struct {
	deps StaffingDependencies
}

// NewStaffingHandler creates a new staffing handler.
func NewStaffingHandler(deps StaffingDependencies) *StaffingHandler {
	return &StaffingHandler{deps: deps}
}

type deficitResponse struct {
	Song     string         `json:"song,omitempty"`
	Complete bool           `json:"complete"`
	Missing  map[string]int `json:"missing"`
}

type hireSongResponse struct {
	Song     string           `json:"song"`
	Complete bool             `json:"complete"`
	Hired    []types.Contract `json:"hired"`
	Error    *errorResponse   `json:"error,omitempty"`
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

// HandleShowDeficit handles GET /sessions/{id}/deficit requests.
func (h *StaffingHandler) HandleShowDeficit(w http.ResponseWriter, r *http.Request) {
	const op = "api.show_deficit"
	d, err := h.deps.ShowDeficit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, deficitResponse{Complete: len(d) == 0, Missing: nonNil(d)})
}

// HandleSongDeficit handles GET /sessions/{id}/songs/{title}/deficit requests.
func (h *StaffingHandler) HandleSongDeficit(w http.ResponseWriter, r *http.Request) {
	const op = "api.song_deficit"
	title := r.PathValue("title")
	d, err := h.deps.SongDeficit(r.Context(), r.PathValue("id"), title)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, deficitResponse{Song: title, Complete: len(d) == 0, Missing: nonNil(d)})
}

// HandleHireSong handles POST /sessions/{id}/songs/{title}/hire requests.
// A partially staffed song answers 422 with the contracts that were created.
func (h *StaffingHandler) HandleHireSong(w http.ResponseWriter, r *http.Request) {
	const op = "api.hire_song"
	title := r.PathValue("title")
	hired, err := h.deps.HireSong(r.Context(), r.PathValue("id"), title)
	if hired == nil {
		hired = []types.Contract{}
	}
	switch {
	case errors.Is(err, allocation.ErrNoCandidateAvailable):
		status, code := classify(err)
		writeJSON(w, status, hireSongResponse{
			Song:  title,
			Hired: hired,
			Error: &errorResponse{Code: code, Message: Wrap(op, err).Error()},
		})
	case err != nil:
		writeUpstreamError(w, op, err)
	default:
		writeJSON(w, http.StatusOK, hireSongResponse{Song: title, Complete: true, Hired: hired})
	}
}

// HandleHireShow handles POST /sessions/{id}/hire requests.
func (h *StaffingHandler) HandleHireShow(w http.ResponseWriter, r *http.Request) {
	const op = "api.hire_show"
	res, err := h.deps.HireShow(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
