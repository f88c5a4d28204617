// Package turnaround computes review turnaround: the elapsed time between
// a review being requested (or the PR being created, when nobody was
// asked) and the first responsive reviewer action.
package turnaround

import (
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/internal/domain/stats"
)

// Result holds the turnaround aggregates for one repository. The within_*
// fields are cumulative percentages of samples at or under each threshold.
type Result struct {
	MedianHours float64 `json:"median_hours"`
	TotalPRs    int     `json:"total_prs"`
	ReviewedPRs int     `json:"reviewed_prs"`
	ReviewRate  float64 `json:"review_rate"`
	Within1h    float64 `json:"within_1h"`
	Within4h    float64 `json:"within_4h"`
	Within24h   float64 `json:"within_24h"`
}

// Compute derives one turnaround sample per PR:
//
//   - With review requests: walk them in time order and, for each, look
//     for the first later event whose actor is the requested reviewer and
//     whose type is a review action. The first request that finds a match
//     supplies the sample; remaining requests are ignored. Requests with
//     no recorded reviewer are skipped.
//   - Without review requests: the sample is creation to the first review
//     action, if one exists.
//   - A PR matching neither case contributes no sample.
//
// Returns nil when no PR yields a sample.
func Compute(ix *prindex.Index) *Result {
	totalPRs := 0
	var samples []float64

	for _, pr := range ix.PRs() {
		created, ok := pr.Created()
		if !ok {
			continue
		}
		totalPRs++

		if pr.Has(model.ReviewRequested) {
			if hours, ok := matchRequestedReview(pr); ok {
				samples = append(samples, hours)
			}
			continue
		}

		for _, e := range pr.Events {
			if e.Type.IsReviewAction() {
				samples = append(samples, e.Time.Sub(created.Time).Hours())
				break
			}
		}
	}

	if len(samples) == 0 {
		return nil
	}

	res := &Result{
		MedianHours: stats.Median(samples),
		TotalPRs:    totalPRs,
		ReviewedPRs: len(samples),
		Within1h:    share(samples, 1),
		Within4h:    share(samples, 4),
		Within24h:   share(samples, 24),
	}
	if totalPRs > 0 {
		res.ReviewRate = float64(len(samples)) / float64(totalPRs) * 100
	}
	return res
}

// matchRequestedReview finds the turnaround of the first review request
// that received a response from its requested reviewer.
func matchRequestedReview(pr *prindex.PR) (float64, bool) {
	for _, req := range pr.Events {
		if req.Type != model.ReviewRequested || req.TargetUser == "" {
			continue
		}
		for _, e := range pr.Events {
			if e.Time.After(req.Time) && e.Actor == req.TargetUser && e.Type.IsReviewAction() {
				return e.Time.Sub(req.Time).Hours(), true
			}
		}
	}
	return 0, false
}

// share returns the percentage of samples at or under limit hours.
func share(samples []float64, limit float64) float64 {
	n := 0
	for _, s := range samples {
		if s <= limit {
			n++
		}
	}
	return float64(n) / float64(len(samples)) * 100
}
