// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the collector CLI.
package service

import (
	"context"
	"sync"
	"time"

	githubadapter "github.com/pullflow/collab-dev/internal/adapters/github"
	"github.com/pullflow/collab-dev/internal/adapters/store"
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/engine"
	"github.com/pullflow/collab-dev/pkg/logger"
	"github.com/pullflow/collab-dev/pkg/metrics"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListRepositories(ctx context.Context) ([]string, error)
	LoadEvents(ctx context.Context, owner, name string) ([]model.Event, error)
	SaveRepository(ctx context.Context, owner, name string, info store.RepositoryInfo) error
	SavePullRequests(ctx context.Context, owner, name string, prs []store.PullRequest) error
	SavePREvents(ctx context.Context, owner, name string, prNumber int, events []model.Event) error
	HasPREvents(owner, name string, prNumber int) bool
	ConsolidateEvents(ctx context.Context, owner, name string) (int, error)
}

// Fetcher is the GitHub surface the collector needs.
type Fetcher interface {
	Repository(ctx context.Context, owner, name string) (store.RepositoryInfo, error)
	MergedPullRequests(ctx context.Context, owner, name string, limit int) ([]store.PullRequest, error)
	PullRequestEvents(ctx context.Context, owner, name string, number int) ([]model.Event, error)
}

// Report is a full metric report for one repository.
type Report struct {
	Repository  string         `json:"repository"`
	EventCount  int            `json:"event_count"`
	Metrics     map[string]any `json:"metrics"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// CollectResult summarizes one collector run.
type CollectResult struct {
	Repository string `json:"repository"`
	NewPRs     int    `json:"new_prs"`
	SkippedPRs int    `json:"skipped_prs"`
	Events     int    `json:"events"`
}

// Service computes reports from stored event logs and runs collection.
type Service struct {
	mu sync.RWMutex

	store   Store
	fetcher Fetcher

	// Configuration
	dataDir     string
	githubToken string
	maxPRs      int
	pageSize    int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the root of the CSV data directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithGitHubToken sets the token used for collection.
func WithGitHubToken(token string) Option {
	return func(s *Service) {
		s.githubToken = token
	}
}

// WithMaxPRs bounds how many merged PRs one collector run fetches.
func WithMaxPRs(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPRs = n
		}
	}
}

// WithPageSize sets the GitHub list page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a store. Used by tests.
func WithStore(st Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithFetcher injects a fetcher. Used by tests.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:  "./data",
		maxPRs:   10,
		pageSize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = store.New(s.dataDir)
	}

	s.started = true
	s.logger.Info(ctx, "collaboration metrics service started",
		logger.String("dataDir", s.dataDir),
		logger.Int("maxPRs", s.maxPRs),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "collaboration metrics service stopped")
}

func (s *Service) checkStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Repositories lists every repository with collected data.
func (s *Service) Repositories(ctx context.Context) ([]string, error) {
	if err := s.checkStarted(); err != nil {
		return nil, err
	}
	return s.store.ListRepositories(ctx)
}

// Report loads a repository's event log and computes every registered
// metric over it.
func (s *Service) Report(ctx context.Context, owner, name string) (*Report, error) {
	if err := s.checkStarted(); err != nil {
		return nil, err
	}

	start := time.Now()
	metrics.RecordReportRequest()

	events, err := s.store.LoadEvents(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Repository:  owner + "/" + name,
		EventCount:  len(events),
		Metrics:     engine.ComputeAll(ctx, events),
		GeneratedAt: time.Now().UTC(),
	}

	elapsed := time.Since(start)
	metrics.RecordReportDuration(float64(elapsed.Milliseconds()))
	s.logger.Info(ctx, "report computed",
		logger.String("repository", report.Repository),
		logger.Int("events", len(events)),
		logger.Any("duration", elapsed),
	)
	return report, nil
}

// ReportMetric computes a single named metric for a repository.
func (s *Service) ReportMetric(ctx context.Context, owner, name, metric string) (any, error) {
	if err := s.checkStarted(); err != nil {
		return nil, err
	}

	var found *engine.Metric
	for _, m := range engine.Registry() {
		if m.Name == metric {
			m := m
			found = &m
			break
		}
	}
	if found == nil {
		return nil, ErrUnknownMetric
	}

	events, err := s.store.LoadEvents(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return engine.ComputeOne(ctx, *found, events), nil
}

// Collect fetches a repository's merged PRs and their timelines from
// GitHub and persists them. PRs whose events were already collected are
// skipped, then the per-PR files are consolidated into the event log the
// engine reads.
func (s *Service) Collect(ctx context.Context, owner, name string) (*CollectResult, error) {
	if err := s.checkStarted(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.fetcher == nil {
		s.fetcher = githubadapter.New(ctx, s.githubToken,
			githubadapter.WithPageSize(s.pageSize),
			githubadapter.WithLogger(s.logger),
		)
	}
	fetcher := s.fetcher
	s.mu.Unlock()

	info, err := fetcher.Repository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRepository(ctx, owner, name, info); err != nil {
		return nil, err
	}

	prs, err := fetcher.MergedPullRequests(ctx, owner, name, s.maxPRs)
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePullRequests(ctx, owner, name, prs); err != nil {
		return nil, err
	}

	result := &CollectResult{Repository: owner + "/" + name}
	for _, pr := range prs {
		if s.store.HasPREvents(owner, name, pr.Number) {
			result.SkippedPRs++
			continue
		}
		events, err := fetcher.PullRequestEvents(ctx, owner, name, pr.Number)
		if err != nil {
			return nil, err
		}
		if err := s.store.SavePREvents(ctx, owner, name, pr.Number, events); err != nil {
			return nil, err
		}
		result.NewPRs++
	}

	total, err := s.store.ConsolidateEvents(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	result.Events = total

	s.logger.Info(ctx, "collection finished",
		logger.String("repository", result.Repository),
		logger.Int("newPRs", result.NewPRs),
		logger.Int("skippedPRs", result.SkippedPRs),
		logger.Int("events", result.Events),
	)
	return result, nil
}
