// Package github fetches merged pull requests and their timelines from
// the GitHub API and converts them into domain events.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/pullflow/collab-dev/internal/adapters/store"
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/pkg/logger"
	"github.com/pullflow/collab-dev/pkg/metrics"
)

// coreTeamAssociations are the author associations treated as core team.
var coreTeamAssociations = map[string]bool{
	"OWNER":        true,
	"MEMBER":       true,
	"COLLABORATOR": true,
}

// Fetcher talks to the GitHub API for one configured token.
type Fetcher struct {
	client   *gh.Client
	logger   logger.Logger
	pageSize int
}

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithLogger sets a custom logger for the fetcher.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithPageSize sets the list page size used for API calls.
func WithPageSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = gh.NewClient(c)
	}
}

// WithBaseURL points the client at a different API endpoint. Used by tests.
func WithBaseURL(rawURL string) Option {
	return func(f *Fetcher) {
		client, err := f.client.WithEnterpriseURLs(rawURL, rawURL)
		if err == nil {
			f.client = client
		}
	}
}

// New creates a Fetcher. An empty token yields an unauthenticated client
// with GitHub's anonymous rate limits.
func New(ctx context.Context, token string, opts ...Option) *Fetcher {
	var hc *http.Client
	if token != "" {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	f := &Fetcher{
		client:   gh.NewClient(hc),
		pageSize: 100,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Named("github")
	}
	return f
}

// Repository fetches repository info for the store.
func (f *Fetcher) Repository(ctx context.Context, owner, name string) (store.RepositoryInfo, error) {
	metrics.RecordCollectorRequest()
	repo, resp, err := f.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		metrics.RecordCollectorError()
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return store.RepositoryInfo{}, fmt.Errorf("%w: %s/%s", ErrRepositoryNotFound, owner, name)
		}
		return store.RepositoryInfo{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return store.RepositoryInfo{
		Slug:         owner + "/" + name,
		Name:         repo.GetName(),
		Organization: owner,
		Description:  repo.GetDescription(),
		URL:          repo.GetHTMLURL(),
	}, nil
}

// MergedPullRequests lists recently updated merged PRs, newest first,
// up to limit.
func (f *Fetcher) MergedPullRequests(ctx context.Context, owner, name string, limit int) ([]store.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: f.pageSize},
	}

	var merged []store.PullRequest
	for {
		metrics.RecordCollectorRequest()
		prs, resp, err := f.client.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			metrics.RecordCollectorError()
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		for _, pr := range prs {
			if pr.MergedAt == nil {
				continue
			}
			merged = append(merged, store.PullRequest{
				Number:    pr.GetNumber(),
				Title:     pr.GetTitle(),
				URL:       pr.GetHTMLURL(),
				Author:    pr.GetUser().GetLogin(),
				CreatedAt: pr.GetCreatedAt().Time,
				MergedAt:  pr.GetMergedAt().Time,
				Additions: pr.GetAdditions(),
				Deletions: pr.GetDeletions(),
			})
			if limit > 0 && len(merged) >= limit {
				return merged, nil
			}
		}
		if resp.NextPage == 0 {
			return merged, nil
		}
		opts.Page = resp.NextPage
	}
}

// PullRequestEvents fetches one PR's full timeline and converts it into
// domain events. The first event is always the creation event.
func (f *Fetcher) PullRequestEvents(ctx context.Context, owner, name string, number int) ([]model.Event, error) {
	metrics.RecordCollectorRequest()
	pr, _, err := f.client.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		metrics.RecordCollectorError()
		return nil, fmt.Errorf("%w: pr #%d: %w", ErrFetch, number, err)
	}

	base := model.Event{
		PRNumber:     number,
		LinesAdded:   pr.GetAdditions(),
		LinesDeleted: pr.GetDeletions(),
		IsCoreTeam:   coreTeamAssociations[pr.GetAuthorAssociation()],
		PRTitle:      pr.GetTitle(),
		PRURL:        pr.GetHTMLURL(),
	}

	events := []model.Event{creationEvent(base, pr)}

	commits, err := f.commitEvents(ctx, owner, name, number, base)
	if err != nil {
		return nil, err
	}
	events = append(events, commits...)

	timeline, err := f.timelineEvents(ctx, owner, name, number, base)
	if err != nil {
		return nil, err
	}
	events = append(events, timeline...)

	reviews, err := f.reviewEvents(ctx, owner, name, number, base)
	if err != nil {
		return nil, err
	}
	events = append(events, reviews...)

	comments, err := f.commentEvents(ctx, owner, name, number, base)
	if err != nil {
		return nil, err
	}
	events = append(events, comments...)

	metrics.RecordEventsCollected(len(events))
	f.logger.Debug(ctx, "collected pr timeline",
		logger.String("repository", owner+"/"+name),
		logger.Int("pr_number", number),
		logger.Int("events", len(events)),
	)
	return events, nil
}

func creationEvent(base model.Event, pr *gh.PullRequest) model.Event {
	e := base
	e.Time = pr.GetCreatedAt().Time
	e.Type = model.PRCreated
	e.Actor = pr.GetUser().GetLogin()
	e.IsBot = IsBotActor(e.Actor)
	return e
}

func (f *Fetcher) commitEvents(ctx context.Context, owner, name string, number int, base model.Event) ([]model.Event, error) {
	opts := &gh.ListOptions{PerPage: f.pageSize}
	var events []model.Event
	for {
		metrics.RecordCollectorRequest()
		commits, resp, err := f.client.PullRequests.ListCommits(ctx, owner, name, number, opts)
		if err != nil {
			metrics.RecordCollectorError()
			return nil, fmt.Errorf("%w: pr #%d commits: %w", ErrFetch, number, err)
		}
		for _, c := range commits {
			e := base
			e.Time = commitTime(c)
			e.Type = model.CommitPushed
			e.Actor = c.GetAuthor().GetLogin()
			e.IsBot = IsBotActor(e.Actor)
			events = append(events, e)
		}
		if resp.NextPage == 0 {
			return events, nil
		}
		opts.Page = resp.NextPage
	}
}

func commitTime(c *gh.RepositoryCommit) time.Time {
	if t := c.GetCommit().GetCommitter().GetDate(); !t.IsZero() {
		return t.Time
	}
	return c.GetCommit().GetAuthor().GetDate().Time
}

// timelineEvents extracts review requests and the merge event from the
// issue timeline.
func (f *Fetcher) timelineEvents(ctx context.Context, owner, name string, number int, base model.Event) ([]model.Event, error) {
	opts := &gh.ListOptions{PerPage: f.pageSize}
	var events []model.Event
	for {
		metrics.RecordCollectorRequest()
		items, resp, err := f.client.Issues.ListIssueTimeline(ctx, owner, name, number, opts)
		if err != nil {
			metrics.RecordCollectorError()
			return nil, fmt.Errorf("%w: pr #%d timeline: %w", ErrFetch, number, err)
		}
		for _, item := range items {
			switch item.GetEvent() {
			case "review_requested":
				e := base
				e.Time = item.GetCreatedAt().Time
				e.Type = model.ReviewRequested
				e.Actor = item.GetActor().GetLogin()
				e.TargetUser = item.GetReviewer().GetLogin()
				e.IsBot = IsBotActor(e.Actor)
				events = append(events, e)
			case "merged":
				e := base
				e.Time = item.GetCreatedAt().Time
				e.Type = model.PRMerged
				e.Actor = item.GetActor().GetLogin()
				e.IsBot = IsBotActor(e.Actor)
				events = append(events, e)
			}
		}
		if resp.NextPage == 0 {
			return events, nil
		}
		opts.Page = resp.NextPage
	}
}

func (f *Fetcher) reviewEvents(ctx context.Context, owner, name string, number int, base model.Event) ([]model.Event, error) {
	opts := &gh.ListOptions{PerPage: f.pageSize}
	var events []model.Event
	for {
		metrics.RecordCollectorRequest()
		reviews, resp, err := f.client.PullRequests.ListReviews(ctx, owner, name, number, opts)
		if err != nil {
			metrics.RecordCollectorError()
			return nil, fmt.Errorf("%w: pr #%d reviews: %w", ErrFetch, number, err)
		}
		for _, r := range reviews {
			t, ok := reviewEventType(r.GetState())
			if !ok {
				continue
			}
			e := base
			e.Time = r.GetSubmittedAt().Time
			e.Type = t
			e.Actor = r.GetUser().GetLogin()
			e.IsBot = IsBotActor(e.Actor)
			events = append(events, e)
		}
		if resp.NextPage == 0 {
			return events, nil
		}
		opts.Page = resp.NextPage
	}
}

// reviewEventType maps a review state to the event type recorded for it.
func reviewEventType(state string) (model.EventType, bool) {
	switch strings.ToUpper(state) {
	case "APPROVED":
		return model.ReviewApproved, true
	case "CHANGES_REQUESTED":
		return model.ReviewChangesRequested, true
	case "COMMENTED":
		return model.ReviewCommented, true
	default:
		return "", false
	}
}

func (f *Fetcher) commentEvents(ctx context.Context, owner, name string, number int, base model.Event) ([]model.Event, error) {
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: f.pageSize}}
	var events []model.Event
	for {
		metrics.RecordCollectorRequest()
		comments, resp, err := f.client.Issues.ListComments(ctx, owner, name, number, opts)
		if err != nil {
			metrics.RecordCollectorError()
			return nil, fmt.Errorf("%w: pr #%d comments: %w", ErrFetch, number, err)
		}
		for _, c := range comments {
			e := base
			e.Time = c.GetCreatedAt().Time
			e.Type = model.CommentAdded
			e.Actor = c.GetUser().GetLogin()
			e.IsBot = IsBotActor(e.Actor)
			events = append(events, e)
		}
		if resp.NextPage == 0 {
			return events, nil
		}
		opts.Page = resp.NextPage
	}
}
