// Command collect fetches a repository's merged pull requests and their
// timelines from GitHub and writes them into the CSV data directory.
//
// Usage:
//
//	collect -repo owner/name [-n 25] [-data ./data]
//
// The GitHub token is read from GITHUB_TOKEN (or COLLABDEV_GITHUB_TOKEN).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/pullflow/collab-dev/internal/app"
	"github.com/pullflow/collab-dev/internal/config"
	"github.com/pullflow/collab-dev/pkg/logger"
)

const collectTimeout = 15 * time.Minute

func main() {
	var (
		repoFlag = flag.String("repo", "", "Repository to collect, as owner/name")
		maxPRs   = flag.Int("n", 0, "Maximum merged PRs to collect (0 uses the configured default)")
		dataDir  = flag.String("data", "", "Data directory (overrides configuration)")
	)
	flag.Parse()

	if err := run(*repoFlag, *maxPRs, *dataDir); err != nil {
		os.Stderr.WriteString("collect failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(repo string, maxPRs int, dataDir string) error {
	if repo == "" && flag.NArg() > 0 {
		repo = flag.Arg(0)
	}
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	if err := logger.Init(); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if maxPRs <= 0 {
		maxPRs = cfg.CollectMaxPRs
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithDataDir(cfg.DataDir),
		app.WithGitHubToken(cfg.GitHubToken),
		app.WithMaxPRs(maxPRs),
		app.WithPageSize(cfg.CollectPageSize),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	result, err := svc.Collect(ctx, owner, name)
	if err != nil {
		return err
	}

	fmt.Printf("collected %s: %d new PRs, %d skipped, %d events in log\n",
		result.Repository, result.NewPRs, result.SkippedPRs, result.Events)
	return nil
}

// splitRepo accepts "owner/name" or a github.com URL.
func splitRepo(repo string) (string, string, error) {
	repo = strings.TrimPrefix(repo, "https://github.com/")
	repo = strings.TrimPrefix(repo, "http://github.com/")
	repo = strings.Trim(repo, "/")
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected owner/name, got %q", repo)
	}
	return parts[0], parts[1], nil
}
