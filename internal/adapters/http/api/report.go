// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ReportHandler handles metric report requests.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleReport handles GET /api/report/{owner}/{repo} requests.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	report, err := h.deps.Report(r.Context(), owner, repo)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type metricResponse struct {
	Repository string `json:"repository"`
	Metric     string `json:"metric"`
	Result     any    `json:"result"`
}

// HandleReportMetric handles GET /api/report/{owner}/{repo}/{metric}
// requests. A null result means the metric has no data for this
// repository; that is not an error.
func (h *ReportHandler) HandleReportMetric(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	metric := chi.URLParam(r, "metric")

	result, err := h.deps.ReportMetric(r.Context(), owner, repo, metric)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metricResponse{
		Repository: owner + "/" + repo,
		Metric:     metric,
		Result:     result,
	})
}
