// Package flow builds the Sankey-style PR flow graph: stage-to-stage
// transition counts from creation through review to merge.
package flow

import (
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
)

// Node names of the flow graph, in presentation order.
const (
	NodeCreated   = "PRs Created"
	NodeRequested = "Review Requested"
	NodeNoReview  = "No Review"
	NodeDirect    = "Direct Review"
	NodeApproved  = "Approved"
	NodeCommented = "Commented"
	NodeMerged    = "Merged"
)

// Link is one edge of the flow graph.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// Result holds the flow graph for one repository. Links with value zero
// are dropped before output.
type Result struct {
	Nodes []string `json:"nodes"`
	Links []Link   `json:"links"`
}

// Compute partitions PRs through four stages. At stage one every PR goes
// to exactly one of Review Requested, Direct Review (review action with
// no request), or No Review, so the three values sum to the PR total. At
// stage two each upstream path splits into Approved and Commented, with
// the unaccounted remainder going to Approved for the requested path and
// to Commented for the direct path. The links into Merged deliberately
// use the global approved and commented counts rather than the per-path
// partitions, mirroring the accounting of the original report.
// Returns nil for an empty index.
func Compute(ix *prindex.Index) *Result {
	total := ix.Len()
	if total == 0 {
		return nil
	}

	var (
		requested    int // has a review_requested event
		direct       int // review action without a request
		approved     int // has an approval, globally
		commented    int // commented but never approved, globally
		approvedReq  int // approved and requested
		commentedReq int // commented, requested, never approved
		approvedDir  int // approved without a request
		commentedDir int // commented without a request, never approved
	)

	for _, pr := range ix.PRs() {
		hasReq := pr.Has(model.ReviewRequested)
		hasApproval := pr.Has(model.ReviewApproved)
		hasComment := pr.Has(model.ReviewCommented)

		if hasReq {
			requested++
		} else if pr.HasReviewAction() {
			direct++
		}
		if hasApproval {
			approved++
			if hasReq {
				approvedReq++
			} else {
				approvedDir++
			}
		} else if hasComment {
			commented++
			if hasReq {
				commentedReq++
			} else {
				commentedDir++
			}
		}
	}
	noReview := total - requested - direct

	links := []Link{
		{NodeCreated, NodeRequested, requested},
		{NodeCreated, NodeNoReview, noReview},
		{NodeCreated, NodeDirect, direct},
	}
	if requested > 0 {
		// PRs that were requested but saw no approval or comment are
		// folded into the Approved edge rather than split proportionally.
		remainder := requested - approvedReq - commentedReq
		links = append(links,
			Link{NodeRequested, NodeApproved, approvedReq + remainder},
			Link{NodeRequested, NodeCommented, commentedReq},
		)
	}
	if direct > 0 {
		// The direct-review remainder goes to Commented instead.
		remainder := direct - approvedDir - commentedDir
		links = append(links,
			Link{NodeDirect, NodeApproved, approvedDir},
			Link{NodeDirect, NodeCommented, commentedDir + remainder},
		)
	}
	links = append(links,
		Link{NodeApproved, NodeMerged, approved},
		Link{NodeCommented, NodeMerged, commented},
		Link{NodeNoReview, NodeMerged, noReview},
	)

	kept := links[:0]
	for _, l := range links {
		if l.Value > 0 {
			kept = append(kept, l)
		}
	}

	return &Result{
		Nodes: []string{
			NodeCreated, NodeRequested, NodeNoReview, NodeDirect,
			NodeApproved, NodeCommented, NodeMerged,
		},
		Links: kept,
	}
}
