// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/sinfonia/internal/adapters/mq/queue"
	"github.com/okian/sinfonia/internal/adapters/report"
	"github.com/okian/sinfonia/internal/adapters/repository"
	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/internal/domain/types"
)

// SessionDependencies opens and closes staffing sessions.
type SessionDependencies interface {
	OpenSession(ctx context.Context) (string, error)
	CloseSession(ctx context.Context, id string) error
}

// StaffingDependencies queries deficits and hires.
type StaffingDependencies interface {
	SongDeficit(ctx context.Context, id, title string) (map[string]int, error)
	ShowDeficit(ctx context.Context, id string) (map[string]int, error)
	HireSong(ctx context.Context, id, title string) ([]types.Contract, error)
	HireShow(ctx context.Context, id string) (types.ShowResult, error)
}

// ContractDependencies trains candidates and manages contracts.
type ContractDependencies interface {
	Train(ctx context.Context, id, name, role string) error
	RemoveContract(ctx context.Context, id, contractID string) (types.Contract, error)
	RemoveAllContracts(ctx context.Context, id, name string) (int, error)
	Contracts(ctx context.Context, id string) (types.Hired, error)
}

// ReportDependencies exposes read-only summaries.
type ReportDependencies interface {
	Report(ctx context.Context, id string) (report.Report, error)
	Trainings(ctx context.Context, id string) (types.TrainingEstimate, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	StaffingDependencies
	ContractDependencies
	ReportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	staffingHandler  *StaffingHandler
	contractsHandler *ContractsHandler
	reportsHandler   *ReportsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionsHandler:  NewSessionsHandler(deps),
		staffingHandler:  NewStaffingHandler(deps),
		contractsHandler: NewContractsHandler(deps),
		reportsHandler:   NewReportsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, pattern))
	}

	route("GET /healthz", s.healthHandler.HandleHealth)
	route("GET /metrics", s.healthHandler.HandleHealth)
	route("GET /stats", s.statsHandler.HandleStats)

	route("POST /sessions", s.sessionsHandler.HandleOpen)
	route("DELETE /sessions/{id}", s.sessionsHandler.HandleClose)

	route("GET /sessions/{id}/deficit", s.staffingHandler.HandleShowDeficit)
	route("GET /sessions/{id}/songs/{title}/deficit", s.staffingHandler.HandleSongDeficit)
	route("POST /sessions/{id}/songs/{title}/hire", s.staffingHandler.HandleHireSong)
	route("POST /sessions/{id}/hire", s.staffingHandler.HandleHireShow)

	route("POST /sessions/{id}/candidates/{name}/train", s.contractsHandler.HandleTrain)
	route("DELETE /sessions/{id}/candidates/{name}/contracts", s.contractsHandler.HandleRemoveAll)
	route("DELETE /sessions/{id}/contracts/{contract}", s.contractsHandler.HandleRemove)
	route("GET /sessions/{id}/contracts", s.contractsHandler.HandleList)

	route("GET /sessions/{id}/report", s.reportsHandler.HandleReport)
	route("GET /sessions/{id}/trainings", s.reportsHandler.HandleTrainings)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps upstream errors to an HTTP status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, concert.ErrSongNotFound):
		return http.StatusNotFound, "song_not_found"
	case errors.Is(err, concert.ErrNotFound):
		return http.StatusNotFound, "candidate_not_found"
	case errors.Is(err, concert.ErrContractNotFound):
		return http.StatusNotFound, "contract_not_found"
	case errors.Is(err, performer.ErrAlreadyHired):
		return http.StatusConflict, "already_hired"
	case errors.Is(err, performer.ErrTrainingNoOp):
		return http.StatusConflict, "training_no_op"
	case errors.Is(err, allocation.ErrNoCandidateAvailable):
		return http.StatusUnprocessableEntity, "no_candidate"
	case errors.Is(err, repository.ErrCapacity):
		return http.StatusTooManyRequests, "session_limit"
	case errors.Is(err, training.ErrSolverFailure):
		return http.StatusBadGateway, "solver_failure"
	case errors.Is(err, queue.ErrFull):
		return http.StatusServiceUnavailable, "solver_busy"
	case errors.Is(err, queue.ErrClosed):
		return http.StatusServiceUnavailable, "solver_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "solver_timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeUpstreamError(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		err = WrapKind(op, ErrInternal, err)
	} else {
		err = Wrap(op, err)
	}
	writeError(w, status, code, err)
}
