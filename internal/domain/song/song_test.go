package song_test

import (
	"testing"

	"github.com/okian/sinfonia/internal/domain/song"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequiredRoleCounts(t *testing.T) {
	Convey("Given a song with a repeated role", t, func() {
		s := song.New("Bohemian Rhapsody", []string{"lead vocal", "piano", "lead vocal", "bass"})

		Convey("Then counts group the multiset", func() {
			So(s.RequiredRoleCounts(), ShouldResemble, song.RoleCounts{"lead vocal": 2, "piano": 1, "bass": 1})
			So(s.RequiredRoleCounts().Total(), ShouldEqual, 4)
		})

		Convey("Then distinct roles keep first appearance order", func() {
			So(s.Roles(), ShouldResemble, []string{"lead vocal", "piano", "bass"})
		})

		Convey("Then an absent role counts zero", func() {
			So(s.RequiredRoleCounts()["drums"], ShouldEqual, 0)
		})
	})

	Convey("Given a song with no roles", t, func() {
		s := song.New("Silence", nil)
		So(s.RequiredRoleCounts(), ShouldBeEmpty)
		So(s.Roles(), ShouldBeEmpty)
	})
}

func TestRoleCounts(t *testing.T) {
	Convey("Given two role count maps", t, func() {
		a := song.RoleCounts{"bass": 1, "piano": 2}
		b := song.RoleCounts{"piano": 1, "drums": 3}

		Convey("When adding them", func() {
			sum := a.Clone()
			sum.Add(b)

			Convey("Then counts add role-wise and the source is untouched", func() {
				So(sum, ShouldResemble, song.RoleCounts{"bass": 1, "piano": 3, "drums": 3})
				So(a, ShouldResemble, song.RoleCounts{"bass": 1, "piano": 2})
				So(sum.Sorted(), ShouldResemble, []string{"bass", "drums", "piano"})
			})
		})
	})
}
