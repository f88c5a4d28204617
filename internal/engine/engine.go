// Package engine assembles the metric modules into a registry and runs
// them over a repository's event log. Each metric is an independent pure
// function over the shared PR index; a failure or empty result in one
// never affects the others.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/internal/engine/approval"
	"github.com/pullflow/collab-dev/internal/engine/botactivity"
	"github.com/pullflow/collab-dev/internal/engine/contribution"
	"github.com/pullflow/collab-dev/internal/engine/coverage"
	"github.com/pullflow/collab-dev/internal/engine/flow"
	"github.com/pullflow/collab-dev/internal/engine/funnel"
	"github.com/pullflow/collab-dev/internal/engine/mergetime"
	"github.com/pullflow/collab-dev/internal/engine/turnaround"
	"github.com/pullflow/collab-dev/pkg/logger"
	"github.com/pullflow/collab-dev/pkg/metrics"
)

// Metric is one registered metric module. Compute returns nil when the
// input yields no data for this metric; that is a defined empty state,
// not an error.
type Metric struct {
	Name    string
	Compute func(ix *prindex.Index) any
}

// Registry returns the metric modules in report display order. New
// metrics are added here, not to a dispatch chain.
func Registry() []Metric {
	return []Metric{
		{Name: "contribution", Compute: func(ix *prindex.Index) any { return result(contribution.Compute(ix)) }},
		{Name: "bot_analysis", Compute: func(ix *prindex.Index) any { return result(botactivity.Compute(ix)) }},
		{Name: "review_funnel", Compute: func(ix *prindex.Index) any { return result(funnel.Compute(ix)) }},
		{Name: "review_coverage", Compute: func(ix *prindex.Index) any { return result(coverage.Compute(ix)) }},
		{Name: "review_turnaround", Compute: func(ix *prindex.Index) any { return result(turnaround.Compute(ix)) }},
		{Name: "approval_time", Compute: func(ix *prindex.Index) any { return result(approval.Compute(ix)) }},
		{Name: "merge_time", Compute: func(ix *prindex.Index) any { return result(mergetime.Compute(ix)) }},
		{Name: "pr_sankey", Compute: func(ix *prindex.Index) any { return result(flow.Compute(ix)) }},
	}
}

// result unwraps a typed nil into an untyped nil so that callers and the
// JSON encoder see a plain null for the no-data state.
func result[T any](r *T) any {
	if r == nil {
		return nil
	}
	return r
}

// ComputeAll builds the PR index once and evaluates every registered
// metric over it concurrently. The metrics are read-only over the index,
// so no coordination beyond the final join is needed. A panicking metric
// is contained: it is logged, counted, and reported as no-data while the
// rest of the report proceeds.
func ComputeAll(ctx context.Context, events []model.Event) map[string]any {
	ix := prindex.Build(events)
	reg := Registry()
	results := make(map[string]any, len(reg))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, m := range reg {
		wg.Add(1)
		go func(m Metric) {
			defer wg.Done()
			r := compute(ctx, m, ix)
			mu.Lock()
			results[m.Name] = r
			mu.Unlock()
		}(m)
	}
	wg.Wait()

	return results
}

// ComputeOne evaluates a single metric over an event log.
func ComputeOne(ctx context.Context, m Metric, events []model.Event) any {
	return compute(ctx, m, prindex.Build(events))
}

// compute evaluates a single metric, containing panics per the
// independence contract between metric modules.
func compute(ctx context.Context, m Metric, ix *prindex.Index) (out any) {
	start := time.Now()
	defer func() {
		metrics.RecordMetricComputeDuration(m.Name, float64(time.Since(start).Milliseconds()))
		if r := recover(); r != nil {
			metrics.RecordMetricComputeError(m.Name)
			logger.Get().Error(ctx, "metric computation failed",
				logger.String("metric", m.Name),
				logger.Any("panic", r),
			)
			out = nil
		}
	}()

	out = m.Compute(ix)
	if out == nil {
		metrics.RecordMetricEmptyResult(m.Name)
	}
	return out
}
