// Package mergetime computes the distribution of time from PR creation
// to merge.
package mergetime

import (
	"sort"

	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/internal/domain/stats"
)

// Result holds the merge time distribution for one repository. Durations
// is the full sorted sample list, exposed so the presentation layer can
// draw an empirical CDF without recomputing it.
type Result struct {
	MedianHours float64   `json:"median_hours"`
	P25Hours    float64   `json:"p25_hours"`
	P50Hours    float64   `json:"p50_hours"`
	P75Hours    float64   `json:"p75_hours"`
	Durations   []float64 `json:"durations_hours"`
}

// Compute aggregates creation-to-merge durations over all PRs with both
// a pr_created and a pr_merged event. Returns nil when no PR matches.
func Compute(ix *prindex.Index) *Result {
	var durations []float64
	for _, pr := range ix.PRs() {
		created, ok := pr.First(model.PRCreated)
		if !ok {
			continue
		}
		merged, ok := pr.First(model.PRMerged)
		if !ok {
			continue
		}
		durations = append(durations, merged.Time.Sub(created.Time).Hours())
	}
	if len(durations) == 0 {
		return nil
	}
	sort.Float64s(durations)
	return &Result{
		MedianHours: stats.Median(durations),
		P25Hours:    stats.Percentile(durations, 25),
		P50Hours:    stats.Percentile(durations, 50),
		P75Hours:    stats.Percentile(durations, 75),
		Durations:   durations,
	}
}
