package allocation_test

import (
	"errors"
	"testing"

	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/contract"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	brian, john                 *performer.House
	elton, george, bowie, annie *performer.External
	somebody, pressure          *song.Song
	houses                      []*performer.House
	candidates                  []*performer.External
	ledger                      *contract.Ledger
	engine                      *allocation.Engine
}

func newFixture() *fixture {
	f := &fixture{}
	f.brian = performer.NewHouse("Brian May", []string{"electric guitar", "backing vocal"}, []string{"Queen"})
	f.john = performer.NewHouse("John Deacon", []string{"bass"}, []string{"Queen"})
	f.houses = []*performer.House{f.brian, f.john}

	f.elton = performer.NewExternal("Elton John", []string{"lead vocal", "piano"}, []string{"Elton John Band"}, 1000, 2)
	f.george = performer.NewExternal("George Michael", []string{"lead vocal"}, []string{"Wham!"}, 800, 2)
	f.bowie = performer.NewExternal("David Bowie", []string{"lead vocal"}, []string{"Tin Machine", "Queen"}, 1500, 2)
	f.annie = performer.NewExternal("Annie Lennox", []string{"lead vocal"}, []string{"Eurythmics"}, 100, 1)
	f.candidates = []*performer.External{f.elton, f.george, f.bowie, f.annie}

	f.somebody = song.New("Somebody to Love", []string{"lead vocal", "electric guitar", "bass", "piano"})
	f.pressure = song.New("Under Pressure", []string{"lead vocal", "lead vocal", "bass"})

	f.ledger = contract.NewLedger()
	f.engine = allocation.New(f.houses, f.candidates, f.ledger)
	return f
}

func TestDeficit(t *testing.T) {
	Convey("Given the reference roster", t, func() {
		f := newFixture()

		Convey("When computing the deficit of a song", func() {
			d := f.engine.Deficit(f.somebody)

			Convey("Then house performers cover guitar and bass", func() {
				So(d, ShouldResemble, song.RoleCounts{"lead vocal": 1, "piano": 1})
			})
		})

		Convey("When a role is required twice", func() {
			d := f.engine.Deficit(f.pressure)

			Convey("Then both slots are counted", func() {
				So(d, ShouldResemble, song.RoleCounts{"lead vocal": 2})
			})
		})

		Convey("When contracts exceed the requirement", func() {
			f.ledger.Hire(f.george, f.somebody, "lead vocal", 800)
			f.ledger.Hire(f.bowie, f.somebody, "lead vocal", 750)
			f.ledger.Hire(f.elton, f.somebody, "drums", 1000)

			Convey("Then counts never go negative and unknown roles are ignored", func() {
				So(f.engine.Deficit(f.somebody), ShouldResemble, song.RoleCounts{"piano": 1})
			})
		})

		Convey("When contracts belong to another song", func() {
			f.ledger.Hire(f.george, f.pressure, "lead vocal", 800)

			Convey("Then they do not count", func() {
				So(f.engine.Deficit(f.somebody), ShouldResemble, song.RoleCounts{"lead vocal": 1, "piano": 1})
			})
		})

		Convey("When computing the whole show", func() {
			total := f.engine.DeficitTotal([]*song.Song{f.somebody, f.pressure})

			Convey("Then it is the role-wise sum of song deficits", func() {
				expected := f.engine.Deficit(f.somebody)
				expected.Add(f.engine.Deficit(f.pressure))
				So(total, ShouldResemble, expected)
				So(total, ShouldResemble, song.RoleCounts{"lead vocal": 3, "piano": 1})
			})
		})
	})

	Convey("Given a house performer who plays several missing roles", t, func() {
		multi := performer.NewHouse("Multi", []string{"piano", "bass"}, nil)
		s := song.New("Duet", []string{"bass", "piano"})
		e := allocation.New([]*performer.House{multi}, nil, contract.NewLedger())

		Convey("Then the first role in declaration order is absorbed", func() {
			So(e.Deficit(s), ShouldResemble, song.RoleCounts{"bass": 1})
		})
	})

	Convey("Given no house performers and no contracts", t, func() {
		s := song.New("Solo", []string{"lead vocal"})
		e := allocation.New(nil, nil, contract.NewLedger())

		Convey("Then the deficit equals the requirement", func() {
			So(e.Deficit(s), ShouldResemble, s.RequiredRoleCounts())
		})
	})
}

func TestEffectivePrice(t *testing.T) {
	Convey("Given candidates with and without shared history", t, func() {
		f := newFixture()

		So(f.engine.EffectivePrice(f.bowie), ShouldEqual, 750.0)
		So(f.engine.EffectivePrice(f.george), ShouldEqual, 800.0)

		Convey("When a candidate shares several affiliations the discount stays binary", func() {
			both := performer.NewExternal("Both", []string{"drums"}, []string{"Queen", "Wham!"}, 400, 1)
			wham := performer.NewHouse("Andrew", []string{"guitar"}, []string{"Wham!"})
			e := allocation.New([]*performer.House{f.brian, wham}, nil, f.ledger)
			So(e.EffectivePrice(both), ShouldEqual, 200.0)
		})

		Convey("When the candidate was trained the discount applies to the grown price", func() {
			So(f.bowie.Train("piano"), ShouldBeNil)
			So(f.engine.EffectivePrice(f.bowie), ShouldEqual, 1125.0)
		})
	})
}

func TestHireForSong(t *testing.T) {
	Convey("Given the reference roster", t, func() {
		f := newFixture()

		Convey("When hiring for a song", func() {
			hired, err := f.engine.HireForSong(f.somebody)

			Convey("Then the cheapest candidates are hired", func() {
				So(err, ShouldBeNil)
				So(hired, ShouldHaveLength, 2)
				So(hired[0].Performer(), ShouldEqual, f.annie)
				So(hired[0].Role(), ShouldEqual, "lead vocal")
				So(hired[0].Price(), ShouldEqual, 100.0)
				So(hired[1].Performer(), ShouldEqual, f.elton)
				So(hired[1].Role(), ShouldEqual, "piano")
				So(hired[1].Price(), ShouldEqual, 1000.0)
			})

			Convey("Then the song is fully staffed", func() {
				So(f.engine.Deficit(f.somebody), ShouldBeEmpty)
				So(f.ledger.TotalCost(), ShouldEqual, 1100.0)
				So(f.annie.Hired(), ShouldBeTrue)
				So(f.elton.Hired(), ShouldBeTrue)
				So(f.george.Hired(), ShouldBeFalse)
			})

			Convey("And hiring again is a no-op", func() {
				again, err := f.engine.HireForSong(f.somebody)
				So(err, ShouldBeNil)
				So(again, ShouldBeEmpty)
				So(f.ledger.Len(), ShouldEqual, 2)
			})
		})

		Convey("When a role needs two slots in one song", func() {
			hired, err := f.engine.HireForSong(f.pressure)

			Convey("Then two different performers are hired", func() {
				So(err, ShouldBeNil)
				So(hired, ShouldHaveLength, 2)
				So(hired[0].Performer(), ShouldEqual, f.annie)
				So(hired[1].Performer(), ShouldEqual, f.bowie)
				So(hired[1].Price(), ShouldEqual, 750.0)
			})
		})

		Convey("When the cheapest candidate reached its song cap", func() {
			_, err := f.engine.HireForSong(f.somebody)
			So(err, ShouldBeNil)
			other := song.New("Radio Ga Ga", []string{"lead vocal"})
			hired, err := f.engine.HireForSong(other)

			Convey("Then the next cheapest is hired", func() {
				So(err, ShouldBeNil)
				So(hired, ShouldHaveLength, 1)
				So(hired[0].Performer(), ShouldEqual, f.bowie)
				So(f.ledger.SongsAssigned(f.annie), ShouldEqual, 1)
			})
		})

		Convey("When no candidate can play a role", func() {
			s := song.New("Drum Solo", []string{"lead vocal", "drums", "piano"})
			hired, err := f.engine.HireForSong(s)

			Convey("Then it fails naming the role and song", func() {
				So(errors.Is(err, allocation.ErrNoCandidateAvailable), ShouldBeTrue)
				var nc *allocation.NoCandidateError
				So(errors.As(err, &nc), ShouldBeTrue)
				So(nc.Role, ShouldEqual, "drums")
				So(nc.Song, ShouldEqual, "Drum Solo")
			})

			Convey("And earlier hires of the call stay in the ledger", func() {
				So(hired, ShouldHaveLength, 1)
				So(f.ledger.Len(), ShouldEqual, 1)
				So(f.engine.Deficit(s), ShouldResemble, song.RoleCounts{"drums": 1, "piano": 1})
			})
		})
	})

	Convey("Given two candidates with equal effective price", t, func() {
		first := performer.NewExternal("First", []string{"bass"}, nil, 500, 1)
		second := performer.NewExternal("Second", []string{"bass"}, []string{"Queen"}, 1000, 1)
		house := performer.NewHouse("House", []string{"drums"}, []string{"Queen"})
		ledger := contract.NewLedger()
		e := allocation.New([]*performer.House{house}, []*performer.External{first, second}, ledger)
		s := song.New("Tie", []string{"bass"})

		hired, err := e.HireForSong(s)

		Convey("Then the earlier candidate wins", func() {
			So(err, ShouldBeNil)
			So(hired[0].Performer(), ShouldEqual, first)
		})
	})

	Convey("Given a candidate capped at k songs", t, func() {
		capped := performer.NewExternal("Capped", []string{"bass"}, nil, 10, 2)
		ledger := contract.NewLedger()
		e := allocation.New(nil, []*performer.External{capped}, ledger)
		setlist := []*song.Song{
			song.New("One", []string{"bass"}),
			song.New("Two", []string{"bass"}),
			song.New("Three", []string{"bass"}),
		}

		sum := e.HireForShow(setlist)

		Convey("Then it never appears in more than k songs", func() {
			So(ledger.SongsAssigned(capped), ShouldEqual, 2)
			So(sum.Processed, ShouldEqual, 2)
			So(sum.Failed, ShouldEqual, 1)
		})
	})
}

func TestHireForShow(t *testing.T) {
	Convey("Given one satisfiable and one unsatisfiable song", t, func() {
		f := newFixture()
		impossible := song.New("Drum Solo", []string{"drums"})
		complete := song.New("Bass Line", []string{"bass"})
		setlist := []*song.Song{impossible, f.somebody, complete}

		var sum allocation.ShowSummary
		So(func() { sum = f.engine.HireForShow(setlist) }, ShouldNotPanic)

		Convey("Then the satisfiable song is staffed", func() {
			So(f.engine.Deficit(f.somebody), ShouldBeEmpty)
			So(f.ledger.ForSong(f.somebody), ShouldHaveLength, 2)
		})

		Convey("Then the failing song keeps its deficit", func() {
			So(f.engine.Deficit(impossible), ShouldResemble, song.RoleCounts{"drums": 1})
		})

		Convey("Then the summary counts outcomes and spend", func() {
			So(sum.Processed, ShouldEqual, 1)
			So(sum.Failed, ShouldEqual, 1)
			So(sum.Skipped, ShouldEqual, 1)
			So(sum.Spent, ShouldEqual, 1100.0)
			So(sum.Hired, ShouldHaveLength, 2)
			So(sum.Failures, ShouldHaveLength, 1)
			So(sum.Failures[0].Role, ShouldEqual, "drums")
		})
	})
}
