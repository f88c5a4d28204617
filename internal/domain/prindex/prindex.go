// Package prindex builds the shared per-PR view of a repository's event
// log. The event store hands back a flat, irregularly ordered collection
// of rows; every metric module needs the same reshaping of it: events
// grouped by pull request, time-sorted within each group, with the set
// of event types present computed once. Building that view here keeps
// each metric a pure function over the index instead of a repeated
// full-table scan.
package prindex

import (
	"sort"

	"github.com/pullflow/collab-dev/internal/domain/model"
)

// PR is the indexed view of a single pull request.
type PR struct {
	Number int

	// Events holds every row of the PR sorted ascending by time.
	// The sort is stable, so rows carrying identical timestamps keep
	// their ingestion order.
	Events []model.Event

	// LinesChanged is lines added plus lines deleted, taken once per PR.
	// The diff stats repeat on every row of a PR; the max per column is
	// used so a stray zeroed row cannot shrink the size.
	LinesChanged int

	types map[model.EventType]bool
}

// Has reports whether the PR contains at least one event of type t.
func (p *PR) Has(t model.EventType) bool {
	return p.types[t]
}

// HasAny reports whether the PR contains an event of any of the given types.
func (p *PR) HasAny(types ...model.EventType) bool {
	for _, t := range types {
		if p.types[t] {
			return true
		}
	}
	return false
}

// HasReviewAction reports whether the PR received any reviewer response:
// an approval, a change request, or a review comment.
func (p *PR) HasReviewAction() bool {
	return p.HasAny(model.ReviewApproved, model.ReviewChangesRequested, model.ReviewCommented)
}

// First returns the earliest event of type t, if any.
func (p *PR) First(t model.EventType) (model.Event, bool) {
	for _, e := range p.Events {
		if e.Type == t {
			return e, true
		}
	}
	return model.Event{}, false
}

// Created returns the pr_created event, if present.
func (p *PR) Created() (model.Event, bool) {
	return p.First(model.PRCreated)
}

// Index groups a repository's event log by pull request.
type Index struct {
	prs      []*PR
	byNumber map[int]*PR
}

// Build constructs the index from a flat event collection. The input is
// never mutated. An empty input yields an empty index, not nil.
func Build(events []model.Event) *Index {
	byNumber := make(map[int]*PR)
	for _, e := range events {
		pr, ok := byNumber[e.PRNumber]
		if !ok {
			pr = &PR{
				Number: e.PRNumber,
				types:  make(map[model.EventType]bool),
			}
			byNumber[e.PRNumber] = pr
		}
		pr.Events = append(pr.Events, e)
		pr.types[e.Type] = true
	}

	prs := make([]*PR, 0, len(byNumber))
	for _, pr := range byNumber {
		sort.SliceStable(pr.Events, func(i, j int) bool {
			return pr.Events[i].Time.Before(pr.Events[j].Time)
		})
		added, deleted := 0, 0
		for _, e := range pr.Events {
			if e.LinesAdded > added {
				added = e.LinesAdded
			}
			if e.LinesDeleted > deleted {
				deleted = e.LinesDeleted
			}
		}
		pr.LinesChanged = added + deleted
		prs = append(prs, pr)
	}
	sort.Slice(prs, func(i, j int) bool { return prs[i].Number < prs[j].Number })

	return &Index{prs: prs, byNumber: byNumber}
}

// Len returns the number of distinct pull requests in the index.
func (ix *Index) Len() int {
	return len(ix.prs)
}

// PRs returns the indexed pull requests in ascending PR number order.
// Callers must not modify the returned slice.
func (ix *Index) PRs() []*PR {
	return ix.prs
}

// Get returns the indexed view of PR number n, if present.
func (ix *Index) Get(n int) (*PR, bool) {
	pr, ok := ix.byNumber[n]
	return pr, ok
}
