// Package api declares HTTP contracts and route registration helpers for
// the faction command surface. Each endpoint mirrors one chat command; the
// chat front end itself lives outside this service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/factionops/scopebot/internal/app"
	"github.com/factionops/scopebot/internal/domain/eligibility"
	"github.com/factionops/scopebot/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Status(ctx context.Context) (name string, scope int, err error)
	Balance(ctx context.Context, memberRef string) (model.MemberBalance, error)
	BalanceRequest(ctx context.Context, memberRef string, amount int64) (string, error)
	AssignmentReport(ctx context.Context) (string, error)
	Eligibility(ctx context.Context, memberID string) (eligibility.Suggestion, bool, error)
	Delinquents(ctx context.Context) ([]app.TransferLink, error)
	CompleteDelinquent(ctx context.Context, row int) error
	ClearDelinquent(ctx context.Context, row int) error
}

// Server wires HTTP routes for the command API.
type Server struct {
	healthHandler      *HealthHandler
	statusHandler      *StatusHandler
	balanceHandler     *BalanceHandler
	assignmentsHandler *AssignmentsHandler
	eligibilityHandler *EligibilityHandler
	delinquentsHandler *DelinquentsHandler
	statsHandler       *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statusHandler:      NewStatusHandler(deps),
		balanceHandler:     NewBalanceHandler(deps),
		assignmentsHandler: NewAssignmentsHandler(deps),
		eligibilityHandler: NewEligibilityHandler(deps),
		delinquentsHandler: NewDelinquentsHandler(deps),
		statsHandler:       NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/status", MetricsMiddleware(s.statusHandler.HandleStatus, "status"))
	mux.HandleFunc("/balance", MetricsMiddleware(s.balanceHandler.HandleGetBalance, "balance"))
	mux.HandleFunc("/balance-request", MetricsMiddleware(s.balanceHandler.HandlePostRequest, "balance_request"))
	mux.HandleFunc("/assignments", MetricsMiddleware(s.assignmentsHandler.HandleGetReport, "assignments"))
	mux.HandleFunc("/eligibility/", MetricsMiddleware(s.eligibilityHandler.HandleGetEligibility, "eligibility"))
	mux.HandleFunc("/delinquents", MetricsMiddleware(s.delinquentsHandler.HandleList, "delinquents"))
	mux.HandleFunc("/delinquents/", MetricsMiddleware(s.delinquentsHandler.HandleAction, "delinquents_action"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
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

// writeCommandError maps service sentinels onto the short human-readable
// errors the requester sees; everything else is a 502 from a collaborator.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrNoTornID), errors.Is(err, app.ErrBadAmount):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, app.ErrUnknownMember), errors.Is(err, app.ErrNotEvaluable):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_balance", err)
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	}
}
