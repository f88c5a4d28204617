package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSplitRepo(t *testing.T) {
	Convey("Given repository arguments", t, func() {
		Convey("owner/name parses", func() {
			owner, name, err := splitRepo("acme/widgets")
			So(err, ShouldBeNil)
			So(owner, ShouldEqual, "acme")
			So(name, ShouldEqual, "widgets")
		})

		Convey("A github.com URL parses", func() {
			owner, name, err := splitRepo("https://github.com/acme/widgets")
			So(err, ShouldBeNil)
			So(owner, ShouldEqual, "acme")
			So(name, ShouldEqual, "widgets")
		})

		Convey("Trailing slashes are tolerated", func() {
			owner, name, err := splitRepo("acme/widgets/")
			So(err, ShouldBeNil)
			So(owner, ShouldEqual, "acme")
			So(name, ShouldEqual, "widgets")
		})

		Convey("Malformed input fails", func() {
			for _, bad := range []string{"", "acme", "acme/widgets/extra", "/widgets"} {
				_, _, err := splitRepo(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})
}
