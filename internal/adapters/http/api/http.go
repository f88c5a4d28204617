// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pullflow/collab-dev/internal/adapters/store"
	service "github.com/pullflow/collab-dev/internal/app"
)

// Report mirrors the read shape returned by report queries.
type Report = service.Report

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Repositories lists every repository with collected data.
	Repositories(ctx context.Context) ([]string, error)

	// Report computes the full metric report for one repository.
	Report(ctx context.Context, owner, name string) (*Report, error)

	// ReportMetric computes a single named metric for one repository.
	ReportMetric(ctx context.Context, owner, name, metric string) (any, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	reposHandler  *ReposHandler
	reportHandler *ReportHandler
	healthHandler *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		reposHandler:  NewReposHandler(deps),
		reportHandler: NewReportHandler(deps),
		healthHandler: NewHealthHandler(),
	}
}

// Register attaches all API routes to the router.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Recoverer)
		r.Get("/repos", MetricsMiddleware(s.reposHandler.HandleListRepos, "repos"))
		r.Get("/report/{owner}/{repo}", MetricsMiddleware(s.reportHandler.HandleReport, "report"))
		r.Get("/report/{owner}/{repo}/{metric}", MetricsMiddleware(s.reportHandler.HandleReportMetric, "report_metric"))
	})
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

// writeUpstreamError translates service errors into HTTP responses.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "repository_not_found", err)
	case errors.Is(err, service.ErrUnknownMetric):
		writeError(w, http.StatusNotFound, "unknown_metric", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
