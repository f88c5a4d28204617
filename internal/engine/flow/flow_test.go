package flow

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func pr(number int, types ...model.EventType) []model.Event {
	events := []model.Event{{Time: t0, PRNumber: number, Type: model.PRCreated}}
	for i, t := range types {
		events = append(events, model.Event{
			Time: t0.Add(time.Duration(i+1) * time.Hour), PRNumber: number, Type: t,
		})
	}
	return events
}

func link(res *Result, source, target string) (int, bool) {
	for _, l := range res.Links {
		if l.Source == source && l.Target == target {
			return l.Value, true
		}
	}
	return 0, false
}

func TestCompute(t *testing.T) {
	Convey("Given PRs across every path", t, func() {
		var events []model.Event
		// Requested and approved.
		events = append(events, pr(1, model.ReviewRequested, model.ReviewApproved, model.PRMerged)...)
		events = append(events, pr(2, model.ReviewRequested, model.ReviewApproved, model.PRMerged)...)
		// Requested, commented, never approved.
		events = append(events, pr(3, model.ReviewRequested, model.ReviewCommented, model.PRMerged)...)
		// Requested, no response at all.
		events = append(events, pr(4, model.ReviewRequested, model.PRMerged)...)
		// Direct review: approved without a request.
		events = append(events, pr(5, model.ReviewApproved, model.PRMerged)...)
		// Direct review: commented without a request.
		events = append(events, pr(6, model.ReviewCommented, model.PRMerged)...)
		// No review.
		events = append(events, pr(7, model.PRMerged)...)

		res := Compute(prindex.Build(events))
		So(res, ShouldNotBeNil)

		Convey("Stage one partitions every PR exactly once", func() {
			requested, _ := link(res, NodeCreated, NodeRequested)
			direct, _ := link(res, NodeCreated, NodeDirect)
			noReview, _ := link(res, NodeCreated, NodeNoReview)
			So(requested, ShouldEqual, 4)
			So(direct, ShouldEqual, 2)
			So(noReview, ShouldEqual, 1)
			So(requested+direct+noReview, ShouldEqual, 7)
		})

		Convey("The unanswered request folds into the approved edge", func() {
			v, ok := link(res, NodeRequested, NodeApproved)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3) // 2 approved + 1 unanswered remainder
			v, _ = link(res, NodeRequested, NodeCommented)
			So(v, ShouldEqual, 1)
		})

		Convey("The direct path sends its remainder to commented", func() {
			v, _ := link(res, NodeDirect, NodeApproved)
			So(v, ShouldEqual, 1)
			v, _ = link(res, NodeDirect, NodeCommented)
			So(v, ShouldEqual, 1)
		})

		Convey("Merge edges carry the global approved and commented counts", func() {
			v, _ := link(res, NodeApproved, NodeMerged)
			So(v, ShouldEqual, 3) // PRs 1, 2, 5
			v, _ = link(res, NodeCommented, NodeMerged)
			So(v, ShouldEqual, 2) // PRs 3, 6
			v, _ = link(res, NodeNoReview, NodeMerged)
			So(v, ShouldEqual, 1)
		})

		Convey("No zero-valued links survive", func() {
			for _, l := range res.Links {
				So(l.Value, ShouldBeGreaterThan, 0)
			}
		})

		Convey("The node list is fixed and ordered", func() {
			So(res.Nodes, ShouldResemble, []string{
				NodeCreated, NodeRequested, NodeNoReview, NodeDirect,
				NodeApproved, NodeCommented, NodeMerged,
			})
		})
	})

	Convey("Given only unreviewed PRs", t, func() {
		var events []model.Event
		events = append(events, pr(1, model.PRMerged)...)
		events = append(events, pr(2, model.PRMerged)...)
		res := Compute(prindex.Build(events))

		Convey("Only the no-review path appears", func() {
			v, ok := link(res, NodeCreated, NodeNoReview)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 2)
			_, ok = link(res, NodeCreated, NodeRequested)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty log", t, func() {
		So(Compute(prindex.Build(nil)), ShouldBeNil)
	})
}
