package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEventType(t *testing.T) {
	Convey("Given the collector event types", t, func() {
		Convey("Reviewer responses are review actions", func() {
			So(ReviewApproved.IsReviewAction(), ShouldBeTrue)
			So(ReviewChangesRequested.IsReviewAction(), ShouldBeTrue)
			So(ReviewCommented.IsReviewAction(), ShouldBeTrue)
		})

		Convey("Other lifecycle events are not review actions", func() {
			for _, et := range []EventType{PRCreated, CommitPushed, ReviewRequested, PRMerged, CommentAdded} {
				So(et.IsReviewAction(), ShouldBeFalse)
			}
		})

		Convey("A review request is not a review action", func() {
			// Asking for a review is not the reviewer responding.
			So(ReviewRequested.IsReviewAction(), ShouldBeFalse)
		})

		Convey("Known covers exactly the collector-emitted types", func() {
			for _, et := range []EventType{
				PRCreated, CommitPushed, ReviewRequested, ReviewApproved,
				ReviewChangesRequested, ReviewCommented, PRMerged, CommentAdded,
			} {
				So(et.Known(), ShouldBeTrue)
			}
			So(EventType("review_dismissed").Known(), ShouldBeFalse)
			So(EventType("").Known(), ShouldBeFalse)
		})
	})
}
