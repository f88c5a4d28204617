package service

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pullflow/collab-dev/internal/adapters/store"
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeFetcher serves canned PRs and timelines without the network.
type fakeFetcher struct {
	prs    []store.PullRequest
	events map[int][]model.Event
	calls  int
}

func (f *fakeFetcher) Repository(_ context.Context, owner, name string) (store.RepositoryInfo, error) {
	return store.RepositoryInfo{Slug: owner + "/" + name, Name: name, Organization: owner}, nil
}

func (f *fakeFetcher) MergedPullRequests(_ context.Context, _, _ string, limit int) ([]store.PullRequest, error) {
	if limit > 0 && limit < len(f.prs) {
		return f.prs[:limit], nil
	}
	return f.prs, nil
}

func (f *fakeFetcher) PullRequestEvents(_ context.Context, _, _ string, number int) ([]model.Event, error) {
	f.calls++
	return f.events[number], nil
}

func prHistory(number int, t0 time.Time, author string) []model.Event {
	return []model.Event{
		{Time: t0, PRNumber: number, Type: model.PRCreated, Actor: author, LinesAdded: 20},
		{Time: t0.Add(time.Hour), PRNumber: number, Type: model.ReviewRequested, Actor: author, TargetUser: "bob"},
		{Time: t0.Add(2 * time.Hour), PRNumber: number, Type: model.ReviewApproved, Actor: "bob"},
		{Time: t0.Add(3 * time.Hour), PRNumber: number, Type: model.PRMerged, Actor: author},
	}
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		s := New(WithDataDir(t.TempDir()))
		ctx := context.Background()

		Convey("Calls before Start fail", func() {
			_, err := s.Repositories(ctx)
			So(err, ShouldWrap, ErrNotStarted)
			_, err = s.Report(ctx, "acme", "widgets")
			So(err, ShouldWrap, ErrNotStarted)
		})

		Convey("Start is idempotent", func() {
			So(s.Start(ctx), ShouldBeNil)
			So(s.Start(ctx), ShouldBeNil)
			s.Stop()
		})
	})
}

func TestServiceReport(t *testing.T) {
	Convey("Given a service over a seeded store", t, func() {
		ctx := context.Background()
		st := store.New(t.TempDir())
		t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		So(st.SavePREvents(ctx, "acme", "widgets", 1, prHistory(1, t0, "alice")), ShouldBeNil)
		So(st.SavePREvents(ctx, "acme", "widgets", 2, prHistory(2, t0.Add(24*time.Hour), "carol")), ShouldBeNil)
		_, err := st.ConsolidateEvents(ctx, "acme", "widgets")
		So(err, ShouldBeNil)

		s := New(WithStore(st))
		So(s.Start(ctx), ShouldBeNil)
		defer s.Stop()

		Convey("Repositories lists the seeded repository", func() {
			repos, err := s.Repositories(ctx)
			So(err, ShouldBeNil)
			So(repos, ShouldResemble, []string{"acme/widgets"})
		})

		Convey("Report computes every registered metric", func() {
			report, err := s.Report(ctx, "acme", "widgets")
			So(err, ShouldBeNil)
			So(report.Repository, ShouldEqual, "acme/widgets")
			So(report.EventCount, ShouldEqual, 8)
			for _, name := range []string{
				"contribution", "bot_analysis", "review_funnel", "review_coverage",
				"review_turnaround", "approval_time", "merge_time", "pr_sankey",
			} {
				So(report.Metrics, ShouldContainKey, name)
				So(report.Metrics[name], ShouldNotBeNil)
			}
		})

		Convey("Report for an uncollected repository fails with ErrNotFound", func() {
			_, err := s.Report(ctx, "acme", "gadgets")
			So(err, ShouldWrap, store.ErrNotFound)
		})

		Convey("ReportMetric computes one metric", func() {
			result, err := s.ReportMetric(ctx, "acme", "widgets", "review_coverage")
			So(err, ShouldBeNil)
			So(result, ShouldNotBeNil)
		})

		Convey("ReportMetric rejects unknown names", func() {
			_, err := s.ReportMetric(ctx, "acme", "widgets", "velocity")
			So(err, ShouldWrap, ErrUnknownMetric)
		})
	})
}

func TestServiceCollect(t *testing.T) {
	Convey("Given a service with a fake fetcher", t, func() {
		ctx := context.Background()
		st := store.New(t.TempDir())
		t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		fetcher := &fakeFetcher{
			prs: []store.PullRequest{
				{Number: 1, Title: "Add parser", Author: "alice", CreatedAt: t0, MergedAt: t0.Add(3 * time.Hour)},
				{Number: 2, Title: "Fix retry", Author: "carol", CreatedAt: t0.Add(time.Hour), MergedAt: t0.Add(30 * time.Hour)},
			},
			events: map[int][]model.Event{
				1: prHistory(1, t0, "alice"),
				2: prHistory(2, t0.Add(24*time.Hour), "carol"),
			},
		}

		s := New(WithStore(st), WithFetcher(fetcher), WithMaxPRs(10))
		So(s.Start(ctx), ShouldBeNil)
		defer s.Stop()

		Convey("Collect stores PRs, events, and the consolidated log", func() {
			result, err := s.Collect(ctx, "acme", "widgets")
			So(err, ShouldBeNil)
			So(result.NewPRs, ShouldEqual, 2)
			So(result.SkippedPRs, ShouldEqual, 0)
			So(result.Events, ShouldEqual, 8)

			events, err := st.LoadEvents(ctx, "acme", "widgets")
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 8)

			Convey("A second run skips already collected PRs", func() {
				again, err := s.Collect(ctx, "acme", "widgets")
				So(err, ShouldBeNil)
				So(again.NewPRs, ShouldEqual, 0)
				So(again.SkippedPRs, ShouldEqual, 2)
				So(fetcher.calls, ShouldEqual, 2)
			})
		})
	})
}
