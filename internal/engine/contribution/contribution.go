// Package contribution breaks down who opens pull requests: bots vs.
// humans, and among humans the core team vs. the community.
package contribution

import (
	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/internal/domain/stats"
)

// Result holds the contribution breakdown for one repository. Percentages
// are of the total and rounded to one decimal.
type Result struct {
	TotalPRs            int     `json:"total_prs"`
	CorePRs             int     `json:"core_prs"`
	CommunityPRs        int     `json:"community_prs"`
	BotPRs              int     `json:"bot_prs"`
	CorePercentage      float64 `json:"core_percentage"`
	CommunityPercentage float64 `json:"community_percentage"`
	BotPercentage       float64 `json:"bot_percentage"`
}

// Compute classifies each PR by its pr_created event: bot authors first,
// then core team vs. community among humans. PRs without a pr_created
// event are not counted. Returns nil when no PR qualifies.
func Compute(ix *prindex.Index) *Result {
	total, core, community, bots := 0, 0, 0, 0
	for _, pr := range ix.PRs() {
		created, ok := pr.Created()
		if !ok {
			continue
		}
		total++
		switch {
		case created.IsBot:
			bots++
		case created.IsCoreTeam:
			core++
		default:
			community++
		}
	}
	if total == 0 {
		return nil
	}
	pct := func(n int) float64 {
		return stats.Round1(float64(n) / float64(total) * 100)
	}
	return &Result{
		TotalPRs:            total,
		CorePRs:             core,
		CommunityPRs:        community,
		BotPRs:              bots,
		CorePercentage:      pct(core),
		CommunityPercentage: pct(community),
		BotPercentage:       pct(bots),
	}
}
