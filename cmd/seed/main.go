// Command seed writes a synthetic repository into the data directory so
// the dashboard and API can be tried without collecting from GitHub.
//
// Usage:
//
//	seed [-repo demo/example] [-n 50] [-data ./data]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pullflow/collab-dev/internal/seed"
	"github.com/pullflow/collab-dev/pkg/logger"
)

const (
	defaultRepo   = "demo/example"
	defaultNumPRs = 50
)

func main() {
	var (
		repo    = flag.String("repo", defaultRepo, "Synthetic repository slug, as owner/name")
		numPRs  = flag.Int("n", defaultNumPRs, "Number of merged PRs to generate")
		dataDir = flag.String("data", "./data", "Data directory to write into")
	)
	flag.Parse()

	if err := run(*repo, *numPRs, *dataDir); err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(repo string, numPRs int, dataDir string) error {
	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("expected owner/name, got %q", repo)
	}

	if err := logger.Init(); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	stats, err := seed.Run(context.Background(), dataDir, &seed.Config{
		Owner:  parts[0],
		Name:   parts[1],
		NumPRs: numPRs,
	})
	if err != nil {
		return err
	}

	fmt.Printf("seeded %s: %d PRs, %d events\n", repo, stats.PRs, stats.Events)
	return nil
}
