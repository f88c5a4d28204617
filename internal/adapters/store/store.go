// Package store persists and loads repository event logs as CSV files.
//
// Layout under the data directory:
//
//	data/<owner>/<repo>/repository.csv     repository info
//	data/<owner>/<repo>/pull_requests.csv  one row per merged PR
//	data/<owner>/<repo>/pr_<n>/events.csv  per-PR timeline events
//	data/<owner>/<repo>/all_events.csv     consolidated event log
//
// The consolidated log is the engine's input. The reader is tolerant:
// malformed rows are skipped and logged, never fatal.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/pkg/logger"
	"github.com/pullflow/collab-dev/pkg/metrics"
)

// File names inside a repository directory.
const (
	repositoryFile   = "repository.csv"
	pullRequestsFile = "pull_requests.csv"
	eventsFile       = "events.csv"
	allEventsFile    = "all_events.csv"
)

const dirPerm = 0o755

// eventHeader is the column order written for event rows.
var eventHeader = []string{
	"time", "pr_number", "event_type", "actor", "target_user",
	"lines_added", "lines_deleted", "is_bot", "is_core_team",
	"pr_title", "pr_url",
}

// RepositoryInfo describes one tracked repository.
type RepositoryInfo struct {
	Slug         string // owner/name
	Name         string
	Organization string
	Description  string
	URL          string
}

// PullRequest is the summary row persisted for each merged PR.
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	Author    string
	CreatedAt time.Time
	MergedAt  time.Time
	Additions int
	Deletions int
}

// Store reads and writes the CSV data directory.
type Store struct {
	dataDir string
	logger  logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store rooted at dataDir.
func New(dataDir string, opts ...Option) *Store {
	s := &Store{dataDir: dataDir}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("store")
	}
	return s
}

// repoDir returns the repository directory, creating it if needed.
func (s *Store) repoDir(owner, name string) (string, error) {
	dir := filepath.Join(s.dataDir, owner, name)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return dir, nil
}

// ListRepositories returns every repository in the data directory as
// "owner/name" slugs, sorted. A repository counts once it has a
// repository.csv or a consolidated event log.
func (s *Store) ListRepositories(_ context.Context) ([]string, error) {
	owners, err := os.ReadDir(s.dataDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	var repos []string
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		names, err := os.ReadDir(filepath.Join(s.dataDir, owner.Name()))
		if err != nil {
			continue
		}
		for _, name := range names {
			if !name.IsDir() {
				continue
			}
			dir := filepath.Join(s.dataDir, owner.Name(), name.Name())
			if fileExists(filepath.Join(dir, repositoryFile)) || fileExists(filepath.Join(dir, allEventsFile)) {
				repos = append(repos, owner.Name()+"/"+name.Name())
			}
		}
	}
	sort.Strings(repos)
	metrics.UpdateRepositoriesTracked(len(repos))
	return repos, nil
}

// LoadEvents reads the consolidated event log for one repository.
// Returns ErrNotFound when the repository has no consolidated log yet.
func (s *Store) LoadEvents(ctx context.Context, owner, name string) ([]model.Event, error) {
	start := time.Now()
	path := filepath.Join(s.dataDir, owner, name, allEventsFile)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, name)
	}
	if err != nil {
		metrics.RecordLoadError()
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	events, err := s.readEvents(ctx, f)
	if err != nil {
		metrics.RecordLoadError()
		return nil, err
	}

	metrics.RecordEventsLoaded(len(events))
	metrics.RecordLoadDuration(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "loaded event log",
		logger.String("repository", owner+"/"+name),
		logger.Int("events", len(events)),
	)
	return events, nil
}

// readEvents decodes event rows, skipping rows that fail to parse.
func (s *Store) readEvents(ctx context.Context, r io.Reader) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range []string{"time", "pr_number", "event_type"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrRead, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var events []model.Event
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.RecordRowSkipped()
			s.logger.Warn(ctx, "skipping unreadable csv row", logger.Error(err))
			continue
		}

		ts, err := time.Parse(time.RFC3339, field(row, "time"))
		if err != nil {
			metrics.RecordRowSkipped()
			s.logger.Warn(ctx, "skipping row with bad timestamp",
				logger.String("time", field(row, "time")), logger.Error(err))
			continue
		}
		prNumber, err := strconv.Atoi(field(row, "pr_number"))
		if err != nil {
			metrics.RecordRowSkipped()
			s.logger.Warn(ctx, "skipping row with bad pr_number",
				logger.String("pr_number", field(row, "pr_number")), logger.Error(err))
			continue
		}

		events = append(events, model.Event{
			Time:         ts,
			PRNumber:     prNumber,
			Type:         model.EventType(field(row, "event_type")),
			Actor:        field(row, "actor"),
			TargetUser:   field(row, "target_user"),
			LinesAdded:   atoiOrZero(field(row, "lines_added")),
			LinesDeleted: atoiOrZero(field(row, "lines_deleted")),
			IsBot:        field(row, "is_bot") == "true",
			IsCoreTeam:   field(row, "is_core_team") == "true",
			PRTitle:      field(row, "pr_title"),
			PRURL:        field(row, "pr_url"),
		})
	}
	return events, nil
}

// SaveRepository writes the repository info file.
func (s *Store) SaveRepository(_ context.Context, owner, name string, info RepositoryInfo) error {
	dir, err := s.repoDir(owner, name)
	if err != nil {
		return err
	}
	rows := [][]string{
		{"repository_slug", "name", "organization", "description", "url"},
		{info.Slug, info.Name, info.Organization, info.Description, info.URL},
	}
	return writeCSV(filepath.Join(dir, repositoryFile), rows)
}

// SavePullRequests writes the merged PR summary file.
func (s *Store) SavePullRequests(_ context.Context, owner, name string, prs []PullRequest) error {
	dir, err := s.repoDir(owner, name)
	if err != nil {
		return err
	}
	rows := [][]string{{"pr_number", "pr_title", "pr_url", "author", "created_at", "merged_at", "lines_added", "lines_deleted"}}
	for _, pr := range prs {
		rows = append(rows, []string{
			strconv.Itoa(pr.Number), pr.Title, pr.URL, pr.Author,
			pr.CreatedAt.UTC().Format(time.RFC3339),
			pr.MergedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(pr.Additions), strconv.Itoa(pr.Deletions),
		})
	}
	return writeCSV(filepath.Join(dir, pullRequestsFile), rows)
}

// SavePREvents writes one PR's timeline events.
func (s *Store) SavePREvents(_ context.Context, owner, name string, prNumber int, events []model.Event) error {
	dir, err := s.repoDir(owner, name)
	if err != nil {
		return err
	}
	prDir := filepath.Join(dir, fmt.Sprintf("pr_%d", prNumber))
	if err := os.MkdirAll(prDir, dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return writeCSV(filepath.Join(prDir, eventsFile), eventRows(events))
}

// HasPREvents reports whether events for a PR were already collected.
func (s *Store) HasPREvents(owner, name string, prNumber int) bool {
	path := filepath.Join(s.dataDir, owner, name, fmt.Sprintf("pr_%d", prNumber), eventsFile)
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// ConsolidateEvents merges every per-PR event file into the consolidated
// log the engine reads. Returns the number of events written.
func (s *Store) ConsolidateEvents(ctx context.Context, owner, name string) (int, error) {
	dir := filepath.Join(s.dataDir, owner, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRead, err)
	}

	var all []model.Event
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), eventsFile)
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		events, err := s.readEvents(ctx, f)
		f.Close()
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable event file",
				logger.String("path", path), logger.Error(err))
			continue
		}
		all = append(all, events...)
	}

	if err := writeCSV(filepath.Join(dir, allEventsFile), eventRows(all)); err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "consolidated events",
		logger.String("repository", owner+"/"+name),
		logger.Int("events", len(all)),
	)
	return len(all), nil
}

// eventRows encodes events with the header row prepended.
func eventRows(events []model.Event) [][]string {
	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, eventHeader)
	for _, e := range events {
		rows = append(rows, []string{
			e.Time.UTC().Format(time.RFC3339),
			strconv.Itoa(e.PRNumber),
			string(e.Type),
			e.Actor,
			e.TargetUser,
			strconv.Itoa(e.LinesAdded),
			strconv.Itoa(e.LinesDeleted),
			strconv.FormatBool(e.IsBot),
			strconv.FormatBool(e.IsCoreTeam),
			e.PRTitle,
			e.PRURL,
		})
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
