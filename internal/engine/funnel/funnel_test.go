package funnel

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pullflow/collab-dev/internal/domain/model"
	"github.com/pullflow/collab-dev/internal/domain/prindex"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestCompute(t *testing.T) {
	Convey("Given 4 PRs: approved, commented only, unreviewed, approved", t, func() {
		events := []model.Event{
			{Time: t0, PRNumber: 1, Type: model.PRCreated},
			{Time: t0.Add(time.Hour), PRNumber: 1, Type: model.ReviewApproved},

			{Time: t0, PRNumber: 2, Type: model.PRCreated},
			{Time: t0.Add(time.Hour), PRNumber: 2, Type: model.ReviewCommented},

			{Time: t0, PRNumber: 3, Type: model.PRCreated},
			{Time: t0.Add(time.Hour), PRNumber: 3, Type: model.PRMerged},

			{Time: t0, PRNumber: 4, Type: model.PRCreated},
			{Time: t0.Add(time.Hour), PRNumber: 4, Type: model.ReviewApproved},
		}
		res := Compute(prindex.Build(events))

		Convey("The stages narrow monotonically", func() {
			So(res, ShouldNotBeNil)
			So(res.TotalPRs, ShouldEqual, 4)
			So(res.ReviewedPRs, ShouldEqual, 3)
			So(res.ApprovedPRs, ShouldEqual, 2)
			So(res.ApprovedPRs, ShouldBeLessThanOrEqualTo, res.ReviewedPRs)
			So(res.ReviewedPRs, ShouldBeLessThanOrEqualTo, res.TotalPRs)
		})

		Convey("Rates are taken against the previous stage", func() {
			So(res.ReviewRate, ShouldEqual, 75.0)
			So(res.ApprovalRate, ShouldAlmostEqual, 100.0*2/3, 0.0001)
		})
	})

	Convey("Given no reviewed PRs at all", t, func() {
		events := []model.Event{
			{Time: t0, PRNumber: 1, Type: model.PRCreated},
			{Time: t0.Add(time.Hour), PRNumber: 1, Type: model.PRMerged},
		}
		res := Compute(prindex.Build(events))

		Convey("The approval rate is zero, not NaN", func() {
			So(res.ReviewRate, ShouldEqual, 0.0)
			So(res.ApprovalRate, ShouldEqual, 0.0)
		})
	})

	Convey("Given an empty log", t, func() {
		So(Compute(prindex.Build(nil)), ShouldBeNil)
	})
}
