package api

import "net/http"

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

type sessionResponse struct {
	ID string `json:"id"`
}

// HandleOpen handles POST /sessions requests.
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_session"
	id, err := h.deps.OpenSession(r.Context())
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id})
}

// HandleClose handles DELETE /sessions/{id} requests.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_session"
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
