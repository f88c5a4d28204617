// Package botactivity counts pull requests opened by automated agents
// and produces a per-bot leaderboard.
package botactivity

import (
	"sort"

	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/internal/domain/stats"
)

// BotCount is one leaderboard row: a bot actor and how many PRs it opened.
type BotCount struct {
	Actor   string `json:"actor"`
	PRCount int    `json:"pr_count"`
}

// Result holds the bot activity breakdown for one repository. Only PRs
// whose pr_created event names an actor are counted.
type Result struct {
	TotalPRs        int        `json:"total_prs"`
	BotPRs          int        `json:"bot_prs"`
	HumanPRs        int        `json:"human_prs"`
	BotPercentage   float64    `json:"bot_percentage"`
	HumanPercentage float64    `json:"human_percentage"`
	Breakdown       []BotCount `json:"bot_breakdown"`
}

// Compute classifies PR authors as bots or humans and ranks bot actors by
// PR count, descending. Returns nil when no PR has an attributed author.
func Compute(ix *prindex.Index) *Result {
	total, bots := 0, 0
	perBot := make(map[string]int)
	for _, pr := range ix.PRs() {
		created, ok := pr.Created()
		if !ok || created.Actor == "" {
			continue
		}
		total++
		if created.IsBot {
			bots++
			perBot[created.Actor]++
		}
	}
	if total == 0 {
		return nil
	}

	breakdown := make([]BotCount, 0, len(perBot))
	for actor, n := range perBot {
		breakdown = append(breakdown, BotCount{Actor: actor, PRCount: n})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].PRCount != breakdown[j].PRCount {
			return breakdown[i].PRCount > breakdown[j].PRCount
		}
		return breakdown[i].Actor < breakdown[j].Actor
	})

	humans := total - bots
	return &Result{
		TotalPRs:        total,
		BotPRs:          bots,
		HumanPRs:        humans,
		BotPercentage:   stats.Round1(float64(bots) / float64(total) * 100),
		HumanPercentage: stats.Round1(float64(humans) / float64(total) * 100),
		Breakdown:       breakdown,
	}
}
