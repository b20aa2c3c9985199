package types_test

import (
	"testing"

	"github.com/okian/sinfonia/internal/domain/contract"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
	types "github.com/okian/sinfonia/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromContract(t *testing.T) {
	Convey("Given a ledger with two hires", t, func() {
		ledger := contract.NewLedger()
		annie := performer.NewExternal("Annie Lennox", []string{"lead vocal"}, nil, 100, 1)
		elton := performer.NewExternal("Elton John", []string{"piano"}, nil, 1000, 2)
		s := song.New("Somebody to Love", []string{"lead vocal", "piano"})
		first := ledger.Hire(annie, s, "lead vocal", 100)
		ledger.Hire(elton, s, "piano", 1000)

		Convey("When converting one contract", func() {
			v := types.FromContract(first)

			Convey("Then every field is carried over", func() {
				So(v, ShouldResemble, types.Contract{
					ID:        first.ID(),
					Performer: "Annie Lennox",
					Song:      "Somebody to Love",
					Role:      "lead vocal",
					Price:     100,
				})
			})
		})

		Convey("When converting the ledger", func() {
			vs := types.FromContracts(ledger.All())

			Convey("Then hire order is kept", func() {
				So(vs, ShouldHaveLength, 2)
				So(vs[0].Performer, ShouldEqual, "Annie Lennox")
				So(vs[1].Performer, ShouldEqual, "Elton John")
			})
		})

		Convey("When converting nothing", func() {
			So(types.FromContracts(nil), ShouldNotBeNil)
			So(types.FromContracts(nil), ShouldBeEmpty)
		})
	})
}
