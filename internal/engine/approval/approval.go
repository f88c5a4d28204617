// Package approval computes the time from the first review request on a
// pull request to its first approval, overall and broken down by PR size.
package approval

import (
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/internal/domain/sizing"
	"github.com/pullflow/collab-dev/internal/domain/stats"
)

// SizeBucket aggregates approval times for one PR size category.
type SizeBucket struct {
	Category    string  `json:"size_category"`
	Label       string  `json:"label"`
	MedianHours float64 `json:"median_hours"`
	MeanHours   float64 `json:"mean_hours"`
	PRCount     int     `json:"pr_count"`
	AvgLines    float64 `json:"avg_lines"`
}

// Result holds the approval time aggregates for one repository.
type Result struct {
	OverallMedianHours float64      `json:"overall_median_hours"`
	SizeStats          []SizeBucket `json:"size_stats"`
}

type sample struct {
	hours float64
	lines int
}

// Compute aggregates approval times over all PRs that have both a review
// request and an approval. The first request is matched against the first
// approval regardless of reviewer; a negative duration from out-of-order
// requests across multiple reviewers is kept as-is. Returns nil when no
// PR has a matched pair.
func Compute(ix *prindex.Index) *Result {
	var all []float64
	bySize := make(map[sizing.Category][]sample)

	for _, pr := range ix.PRs() {
		requested, ok := pr.First(model.ReviewRequested)
		if !ok {
			continue
		}
		approved, ok := pr.First(model.ReviewApproved)
		if !ok {
			continue
		}
		hours := approved.Time.Sub(requested.Time).Hours()
		all = append(all, hours)
		cat := sizing.Categorize(pr.LinesChanged)
		bySize[cat] = append(bySize[cat], sample{hours: hours, lines: pr.LinesChanged})
	}

	if len(all) == 0 {
		return nil
	}

	res := &Result{OverallMedianHours: stats.Median(all)}
	for _, cat := range sizing.Categories() {
		samples := bySize[cat]
		if len(samples) == 0 {
			continue
		}
		hours := make([]float64, len(samples))
		var lines float64
		for i, s := range samples {
			hours[i] = s.hours
			lines += float64(s.lines)
		}
		res.SizeStats = append(res.SizeStats, SizeBucket{
			Category:    string(cat),
			Label:       cat.Label(),
			MedianHours: stats.Round1(stats.Median(hours)),
			MeanHours:   stats.Round1(stats.Mean(hours)),
			PRCount:     len(samples),
			AvgLines:    stats.Round1(lines / float64(len(samples))),
		})
	}
	return res
}
