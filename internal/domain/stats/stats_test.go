package stats

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMedian(t *testing.T) {
	Convey("Given sample sets", t, func() {
		Convey("Odd length returns the middle element", func() {
			So(Median([]float64{3, 1, 2}), ShouldEqual, 2)
		})

		Convey("Even length averages the two middle elements", func() {
			So(Median([]float64{4, 6}), ShouldEqual, 5)
			So(Median([]float64{1, 2, 3, 4}), ShouldEqual, 2.5)
		})

		Convey("Input order does not matter and input is not mutated", func() {
			values := []float64{9, 1, 5}
			So(Median(values), ShouldEqual, 5)
			So(values, ShouldResemble, []float64{9, 1, 5})
		})

		Convey("Empty input returns 0", func() {
			So(Median(nil), ShouldEqual, 0)
		})
	})
}

func TestPercentile(t *testing.T) {
	Convey("Given a sorted sample set", t, func() {
		values := []float64{1, 2, 3, 4, 5}

		Convey("Quartiles interpolate between closest ranks", func() {
			So(Percentile(values, 25), ShouldEqual, 2.0)
			So(Percentile(values, 50), ShouldEqual, 3.0)
			So(Percentile(values, 75), ShouldEqual, 4.0)
		})

		Convey("Non-rank percentiles interpolate linearly", func() {
			So(Percentile([]float64{1, 2}, 50), ShouldEqual, 1.5)
			So(Percentile([]float64{0, 10}, 30), ShouldEqual, 3.0)
		})

		Convey("Edges clamp to the extremes", func() {
			So(Percentile(values, 0), ShouldEqual, 1)
			So(Percentile(values, 100), ShouldEqual, 5)
		})

		Convey("Degenerate inputs", func() {
			So(Percentile(nil, 50), ShouldEqual, 0)
			So(Percentile([]float64{7}, 75), ShouldEqual, 7)
		})
	})
}

func TestMeanAndRound(t *testing.T) {
	Convey("Given samples", t, func() {
		So(Mean([]float64{1, 2, 3}), ShouldEqual, 2)
		So(Mean(nil), ShouldEqual, 0)

		So(Round1(1.25), ShouldEqual, 1.3)
		So(Round1(1.24), ShouldEqual, 1.2)
		// math.Round rounds halves away from zero.
		So(Round1(-1.25), ShouldEqual, -1.3)
	})
}
