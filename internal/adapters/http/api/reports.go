package api

import "net/http"

// ReportsHandler handles report and training estimate requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleReport handles GET /sessions/{id}/report requests.
func (h *ReportsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report"
	rep, err := h.deps.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleTrainings handles GET /sessions/{id}/trainings requests.
func (h *ReportsHandler) HandleTrainings(w http.ResponseWriter, r *http.Request) {
	const op = "api.trainings"
	est, err := h.deps.Trainings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
