// Package seed generates synthetic pull request histories and writes
// them into the CSV data directory, so the dashboard can be exercised
// without a GitHub token.
package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/pullflow/collab-dev/internal/adapters/store"
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/pkg/logger"
)

const randomFloatDivisor = 1000000

// Shares of generated PRs per author class.
const (
	botShare       = 0.15
	communityShare = 0.25
)

// Review path probabilities.
const (
	requestedShare        = 0.70 // PRs that go through a review request
	directReviewShare     = 0.15 // reviewed without a request
	approvalShare         = 0.75 // of reviewed PRs
	changesRequestedShare = 0.10 // of reviewed PRs
	commentShare          = 0.40 // PRs that pick up an issue comment
)

var coreAuthors = []string{"alice", "bob", "carol", "dave", "erin"}

var botAuthors = []string{"dependabot[bot]", "renovate", "github-actions[bot]"}

var prTitles = []string{
	"Fix flaky retry in fetch loop",
	"Add pagination to list endpoint",
	"Refactor config loading",
	"Bump dependencies",
	"Handle empty event log",
	"Improve error messages",
	"Add request timeouts",
	"Cache repository listing",
}

// Config controls what gets generated.
type Config struct {
	Owner  string
	Name   string
	NumPRs int
	// Start is the creation time of the first PR. PRs are spaced a few
	// hours apart from here.
	Start time.Time
}

// Stats summarizes a seed run.
type Stats struct {
	PRs    int
	Events int
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick(options []string) string {
	return options[int(getRandomFloat()*float64(len(options)))%len(options)]
}

// communityAuthor invents a unique drive-by contributor name.
func communityAuthor() string {
	return "user-" + uuid.New().String()[:8]
}

// Run generates PR histories and writes them through the store.
func Run(ctx context.Context, dataDir string, cfg *Config) (*Stats, error) {
	if cfg.NumPRs <= 0 {
		return nil, fmt.Errorf("numPRs must be positive, got %d", cfg.NumPRs)
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now().UTC().Add(-time.Duration(cfg.NumPRs) * 6 * time.Hour)
	}

	log := logger.Named("seed")
	st := store.New(dataDir, store.WithLogger(log))

	slug := cfg.Owner + "/" + cfg.Name
	if err := st.SaveRepository(ctx, cfg.Owner, cfg.Name, store.RepositoryInfo{
		Slug:         slug,
		Name:         cfg.Name,
		Organization: cfg.Owner,
		Description:  "Synthetic repository generated by the seed tool",
		URL:          "https://github.com/" + slug,
	}); err != nil {
		return nil, err
	}

	stats := &Stats{}
	var prs []store.PullRequest
	for i := 0; i < cfg.NumPRs; i++ {
		number := i + 1
		created := cfg.Start.Add(time.Duration(i) * 6 * time.Hour)

		events := buildPR(number, created, slug)
		if err := st.SavePREvents(ctx, cfg.Owner, cfg.Name, number, events); err != nil {
			return nil, err
		}

		first, last := events[0], events[len(events)-1]
		prs = append(prs, store.PullRequest{
			Number:    number,
			Title:     first.PRTitle,
			URL:       first.PRURL,
			Author:    first.Actor,
			CreatedAt: first.Time,
			MergedAt:  last.Time,
			Additions: first.LinesAdded,
			Deletions: first.LinesDeleted,
		})
		stats.PRs++
		stats.Events += len(events)
	}

	if err := st.SavePullRequests(ctx, cfg.Owner, cfg.Name, prs); err != nil {
		return nil, err
	}
	if _, err := st.ConsolidateEvents(ctx, cfg.Owner, cfg.Name); err != nil {
		return nil, err
	}

	log.Info(ctx, "seeded repository",
		logger.String("repository", slug),
		logger.Int("prs", stats.PRs),
		logger.Int("events", stats.Events),
	)
	return stats, nil
}

// buildPR generates one merged PR's event history. Every PR ends merged;
// the review path in between varies.
func buildPR(number int, created time.Time, slug string) []model.Event {
	author, isBot, isCore := pickAuthor()

	// Size spread across the bucket boundaries.
	added := int(getRandomFloat() * 1500)
	deleted := int(getRandomFloat() * 200)

	base := model.Event{
		PRNumber:     number,
		Actor:        author,
		LinesAdded:   added,
		LinesDeleted: deleted,
		IsBot:        isBot,
		IsCoreTeam:   isCore,
		PRTitle:      pick(prTitles),
		PRURL:        fmt.Sprintf("https://github.com/%s/pull/%d", slug, number),
	}

	at := created
	event := func(t model.EventType, actor, target string, offset time.Duration) model.Event {
		at = at.Add(offset)
		e := base
		e.Time = at
		e.Type = t
		e.Actor = actor
		e.TargetUser = target
		e.IsBot = actor == author && isBot
		return e
	}

	events := []model.Event{event(model.PRCreated, author, "", 0)}
	events = append(events, event(model.CommitPushed, author, "", minutes(5+getRandomFloat()*30)))

	reviewer := pick(coreAuthors)
	for reviewer == author {
		reviewer = pick(coreAuthors)
	}

	r := getRandomFloat()
	switch {
	case r < requestedShare:
		events = append(events, event(model.ReviewRequested, author, reviewer, minutes(10+getRandomFloat()*120)))
		events = append(events, reviewOutcome(event, reviewer)...)
	case r < requestedShare+directReviewShare:
		events = append(events, reviewOutcome(event, reviewer)...)
	default:
		// Merged without review.
	}

	if getRandomFloat() < commentShare {
		events = append(events, event(model.CommentAdded, pick(coreAuthors), "", minutes(15+getRandomFloat()*180)))
	}

	events = append(events, event(model.PRMerged, author, "", minutes(30+getRandomFloat()*600)))
	return events
}

// reviewOutcome emits the review events that follow a request (or a
// direct review), spread over minutes to days.
func reviewOutcome(event func(model.EventType, string, string, time.Duration) model.Event, reviewer string) []model.Event {
	wait := minutes(20 + getRandomFloat()*2880)

	r := getRandomFloat()
	switch {
	case r < approvalShare:
		return []model.Event{event(model.ReviewApproved, reviewer, "", wait)}
	case r < approvalShare+changesRequestedShare:
		changes := event(model.ReviewChangesRequested, reviewer, "", wait)
		approve := event(model.ReviewApproved, reviewer, "", minutes(60+getRandomFloat()*720))
		return []model.Event{changes, approve}
	default:
		return []model.Event{event(model.ReviewCommented, reviewer, "", wait)}
	}
}

func pickAuthor() (name string, isBot, isCore bool) {
	r := getRandomFloat()
	switch {
	case r < botShare:
		return pick(botAuthors), true, false
	case r < botShare+communityShare:
		return communityAuthor(), false, false
	default:
		return pick(coreAuthors), false, true
	}
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
