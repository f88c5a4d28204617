// Package coverage computes how many merged PRs received any review at all.
package coverage

import (
	"github.com/pullflow/collab-dev/internal/domain/prindex"
)

// Result holds the review coverage counts for one repository.
type Result struct {
	TotalPRs         int     `json:"total_prs"`
	ReviewedPRs      int     `json:"reviewed_prs"`
	UnreviewedPRs    int     `json:"unreviewed_prs"`
	ReviewPercentage float64 `json:"review_percentage"`
}

// Compute counts PRs whose event set contains any reviewer response.
// Returns nil for an empty index.
func Compute(ix *prindex.Index) *Result {
	total := ix.Len()
	if total == 0 {
		return nil
	}
	reviewed := 0
	for _, pr := range ix.PRs() {
		if pr.HasReviewAction() {
			reviewed++
		}
	}
	return &Result{
		TotalPRs:         total,
		ReviewedPRs:      reviewed,
		UnreviewedPRs:    total - reviewed,
		ReviewPercentage: float64(reviewed) / float64(total) * 100,
	}
}
