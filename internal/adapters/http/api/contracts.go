package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ContractsHandler handles training and contract management requests.
type ContractsHandler struct {
	deps ContractDependencies
}

// NewContractsHandler creates a new contracts handler.
func NewContractsHandler(deps ContractDependencies) *ContractsHandler {
	return &ContractsHandler{deps: deps}
}

type trainRequest struct {
	Role string `json:"role"`
}

func (t trainRequest) validate() error {
	if strings.TrimSpace(t.Role) == "" {
		return errors.New("missing role")
	}
	return nil
}

type trainResponse struct {
	Performer string `json:"performer"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

type removeAllResponse struct {
	Performer string `json:"performer"`
	Removed   int    `json:"removed"`
}

// HandleTrain handles POST /sessions/{id}/candidates/{name}/train requests.
func (h *ContractsHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	const op = "api.train"
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	name := r.PathValue("name")
	if err := h.deps.Train(r.Context(), r.PathValue("id"), name, req.Role); err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, trainResponse{Performer: name, Role: req.Role, Status: "trained"})
}

// HandleRemove handles DELETE /sessions/{id}/contracts/{contract} requests.
func (h *ContractsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_contract"
	removed, err := h.deps.RemoveContract(r.Context(), r.PathValue("id"), r.PathValue("contract"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

// HandleRemoveAll handles DELETE /sessions/{id}/candidates/{name}/contracts requests.
func (h *ContractsHandler) HandleRemoveAll(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_all_contracts"
	name := r.PathValue("name")
	n, err := h.deps.RemoveAllContracts(r.Context(), r.PathValue("id"), name)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, removeAllResponse{Performer: name, Removed: n})
}

// HandleList handles GET /sessions/{id}/contracts requests.
func (h *ContractsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_contracts"
	hired, err := h.deps.Contracts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, hired)
}
