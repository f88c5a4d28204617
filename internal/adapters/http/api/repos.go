// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ReposHandler handles repository listing requests.
type ReposHandler struct {
	deps Dependencies
}

// NewReposHandler creates a new repository listing handler.
func NewReposHandler(deps Dependencies) *ReposHandler {
	return &ReposHandler{deps: deps}
}

type reposResponse struct {
	Repositories []string `json:"repositories"`
}

// HandleListRepos handles GET /api/repos requests.
func (h *ReposHandler) HandleListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.deps.Repositories(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if repos == nil {
		repos = []string{}
	}
	writeJSON(w, http.StatusOK, reposResponse{Repositories: repos})
}
