package prindex

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pullflow/collab-dev/internal/domain/model"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func ev(pr int, t model.EventType, offset time.Duration) model.Event {
	return model.Event{Time: t0.Add(offset), PRNumber: pr, Type: t}
}

func TestBuild(t *testing.T) {
	Convey("Given an interleaved, unordered event log", t, func() {
		events := []model.Event{
			ev(2, model.PRMerged, 5*time.Hour),
			ev(1, model.ReviewApproved, 2*time.Hour),
			ev(2, model.PRCreated, time.Hour),
			ev(1, model.PRCreated, 0),
			ev(1, model.ReviewRequested, time.Hour),
		}
		ix := Build(events)

		Convey("PRs come back grouped and numbered ascending", func() {
			So(ix.Len(), ShouldEqual, 2)
			prs := ix.PRs()
			So(prs[0].Number, ShouldEqual, 1)
			So(prs[1].Number, ShouldEqual, 2)
		})

		Convey("Events within a PR are time-sorted", func() {
			pr, ok := ix.Get(1)
			So(ok, ShouldBeTrue)
			So(pr.Events, ShouldHaveLength, 3)
			So(pr.Events[0].Type, ShouldEqual, model.PRCreated)
			So(pr.Events[1].Type, ShouldEqual, model.ReviewRequested)
			So(pr.Events[2].Type, ShouldEqual, model.ReviewApproved)
		})

		Convey("The input slice is not reordered", func() {
			So(events[0].PRNumber, ShouldEqual, 2)
			So(events[0].Type, ShouldEqual, model.PRMerged)
		})

		Convey("Get misses for unknown numbers", func() {
			_, ok := ix.Get(99)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty log", t, func() {
		ix := Build(nil)
		So(ix, ShouldNotBeNil)
		So(ix.Len(), ShouldEqual, 0)
		So(ix.PRs(), ShouldBeEmpty)
	})
}

func TestBuildStableOrder(t *testing.T) {
	Convey("Given two events with the same timestamp", t, func() {
		a := ev(1, model.ReviewApproved, time.Hour)
		b := ev(1, model.ReviewCommented, time.Hour)
		ix := Build([]model.Event{a, b})

		Convey("Ingestion order is kept", func() {
			pr, _ := ix.Get(1)
			So(pr.Events[0].Type, ShouldEqual, model.ReviewApproved)
			So(pr.Events[1].Type, ShouldEqual, model.ReviewCommented)
		})
	})
}

func TestPRQueries(t *testing.T) {
	Convey("Given an indexed PR", t, func() {
		events := []model.Event{
			ev(1, model.PRCreated, 0),
			ev(1, model.ReviewRequested, time.Hour),
			ev(1, model.ReviewCommented, 2*time.Hour),
			ev(1, model.ReviewApproved, 3*time.Hour),
		}
		ix := Build(events)
		pr, _ := ix.Get(1)

		Convey("Has and HasAny report the type set", func() {
			So(pr.Has(model.ReviewApproved), ShouldBeTrue)
			So(pr.Has(model.PRMerged), ShouldBeFalse)
			So(pr.HasAny(model.PRMerged, model.ReviewRequested), ShouldBeTrue)
			So(pr.HasAny(model.PRMerged, model.CommitPushed), ShouldBeFalse)
		})

		Convey("HasReviewAction sees reviewer responses only", func() {
			So(pr.HasReviewAction(), ShouldBeTrue)

			bare := Build([]model.Event{
				ev(2, model.PRCreated, 0),
				ev(2, model.ReviewRequested, time.Hour),
				ev(2, model.CommentAdded, 2*time.Hour),
			})
			p2, _ := bare.Get(2)
			So(p2.HasReviewAction(), ShouldBeFalse)
		})

		Convey("First returns the earliest event of a type", func() {
			first, ok := pr.First(model.ReviewCommented)
			So(ok, ShouldBeTrue)
			So(first.Time.Equal(t0.Add(2*time.Hour)), ShouldBeTrue)

			_, ok = pr.First(model.PRMerged)
			So(ok, ShouldBeFalse)
		})

		Convey("Created finds the pr_created event", func() {
			created, ok := pr.Created()
			So(ok, ShouldBeTrue)
			So(created.Time.Equal(t0), ShouldBeTrue)
		})
	})
}

func TestLinesChanged(t *testing.T) {
	Convey("Given rows with repeated diff stats and one zeroed row", t, func() {
		events := []model.Event{
			{Time: t0, PRNumber: 1, Type: model.PRCreated, LinesAdded: 120, LinesDeleted: 30},
			{Time: t0.Add(time.Hour), PRNumber: 1, Type: model.ReviewRequested},
			{Time: t0.Add(2 * time.Hour), PRNumber: 1, Type: model.PRMerged, LinesAdded: 120, LinesDeleted: 30},
		}
		ix := Build(events)

		Convey("The max per column is used", func() {
			pr, _ := ix.Get(1)
			So(pr.LinesChanged, ShouldEqual, 150)
		})
	})
}
