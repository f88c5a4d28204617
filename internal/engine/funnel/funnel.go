// Package funnel computes the created -> reviewed -> approved PR funnel.
package funnel

import (
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
)

// Result holds the funnel stage counts for one repository. The stages are
// monotonically non-increasing: approved <= reviewed <= total.
type Result struct {
	TotalPRs     int     `json:"total_prs"`
	ReviewedPRs  int     `json:"reviewed_prs"`
	ApprovedPRs  int     `json:"approved_prs"`
	ReviewRate   float64 `json:"review_rate"`
	ApprovalRate float64 `json:"approval_rate"`
}

// Compute counts PRs at each funnel stage. Returns nil for an empty index.
func Compute(ix *prindex.Index) *Result {
	total := ix.Len()
	if total == 0 {
		return nil
	}
	reviewed, approved := 0, 0
	for _, pr := range ix.PRs() {
		if pr.HasReviewAction() {
			reviewed++
		}
		if pr.Has(model.ReviewApproved) {
			approved++
		}
	}
	res := &Result{
		TotalPRs:    total,
		ReviewedPRs: reviewed,
		ApprovedPRs: approved,
		ReviewRate:  float64(reviewed) / float64(total) * 100,
	}
	if reviewed > 0 {
		res.ApprovalRate = float64(approved) / float64(reviewed) * 100
	}
	return res
}
