package seed

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pullflow/collab-dev/internal/adapters/store"
	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
	"github.com/pullflow/collab-dev/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestBuildPR(t *testing.T) {
	Convey("Given generated PR histories", t, func() {
		created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

		for number := 1; number <= 50; number++ {
			events := buildPR(number, created, "demo/example")

			So(events[0].Type, ShouldEqual, model.PRCreated)
			So(events[len(events)-1].Type, ShouldEqual, model.PRMerged)

			last := events[0].Time
			for _, e := range events {
				So(e.PRNumber, ShouldEqual, number)
				So(e.Time.Before(last), ShouldBeFalse)
				last = e.Time
			}
		}
	})
}

func TestRun(t *testing.T) {
	Convey("Given a seed run into an empty data directory", t, func() {
		dir := t.TempDir()
		ctx := context.Background()

		stats, err := Run(ctx, dir, &Config{Owner: "demo", Name: "example", NumPRs: 20})
		So(err, ShouldBeNil)
		So(stats.PRs, ShouldEqual, 20)
		So(stats.Events, ShouldBeGreaterThanOrEqualTo, 20*3)

		st := store.New(dir)

		Convey("The repository is listable", func() {
			repos, err := st.ListRepositories(ctx)
			So(err, ShouldBeNil)
			So(repos, ShouldResemble, []string{"demo/example"})
		})

		Convey("The consolidated log covers every PR, each created and merged", func() {
			events, err := st.LoadEvents(ctx, "demo", "example")
			So(err, ShouldBeNil)

			ix := prindex.Build(events)
			So(ix.Len(), ShouldEqual, 20)
			for _, pr := range ix.PRs() {
				So(pr.Has(model.PRCreated), ShouldBeTrue)
				So(pr.Has(model.PRMerged), ShouldBeTrue)
			}
		})

		Convey("Rejects a non-positive PR count", func() {
			_, err := Run(ctx, dir, &Config{Owner: "demo", Name: "example", NumPRs: 0})
			So(err, ShouldNotBeNil)
		})
	})
}
