package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/sinfonia/internal/app"
	"github.com/okian/sinfonia/internal/adapters/repository"
	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSolver struct {
	n   int
	err error
}

func (s stubSolver) MinimumTrainings(ctx context.Context, _ training.Request) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.n, s.err
}

func queenConcert(context.Context) (*concert.Concert, error) {
	houses := []*performer.House{
		performer.NewHouse("Brian May", []string{"electric guitar", "backing vocal"}, []string{"Queen"}),
		performer.NewHouse("Roger Taylor", []string{"drums"}, []string{"Queen"}),
		performer.NewHouse("John Deacon", []string{"bass"}, []string{"Queen"}),
	}
	candidates := []*performer.External{
		performer.NewExternal("Elton John", []string{"lead vocal", "piano"}, []string{"Elton John Band"}, 1000, 2),
		performer.NewExternal("David Bowie", []string{"lead vocal"}, []string{"Tin Machine", "Queen"}, 1500, 2),
		performer.NewExternal("Annie Lennox", []string{"lead vocal"}, []string{"Eurythmics"}, 100, 1),
	}
	setlist := []*song.Song{
		song.New("Somebody to Love", []string{"lead vocal", "electric guitar", "bass", "drums", "piano"}),
		song.New("Under Pressure", []string{"lead vocal", "lead vocal", "bass", "drums"}),
		song.New("Flash", []string{"synthesizer"}),
	}
	return concert.New(setlist, houses, candidates), nil
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithLogger(logger.Nop()),
		service.WithSource(queenConcert),
		service.WithSolver(stubSolver{n: 2}),
		service.WithTrainingUnitCost(40),
	}
	return service.New(append(base, opts...)...)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService()
		ctx := context.Background()

		Convey("When used before Start", func() {
			_, err := svc.OpenSession(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats(ctx)["started"], ShouldEqual, false)
		})

		Convey("When started and stopped", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats(ctx)["started"], ShouldEqual, true)
			So(svc.GetStats(ctx)["sessions"], ShouldEqual, 0)

			svc.Stop()
			svc.Stop()
			So(svc.GetStats(ctx)["started"], ShouldEqual, false)

			Convey("Then it can be started again with a fresh store", func() {
				So(svc.Start(ctx), ShouldBeNil)
				defer svc.Stop()
				id, err := svc.OpenSession(ctx)
				So(err, ShouldBeNil)
				So(id, ShouldNotBeEmpty)
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service bounded to one session", t, func() {
		svc := newService(service.WithMaxSessions(1))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		id, err := svc.OpenSession(ctx)
		So(err, ShouldBeNil)

		Convey("When opening a second session", func() {
			_, err := svc.OpenSession(ctx)
			So(errors.Is(err, repository.ErrCapacity), ShouldBeTrue)
		})

		Convey("When closing the session", func() {
			So(svc.CloseSession(ctx, id), ShouldBeNil)

			Convey("Then it is gone", func() {
				_, err := svc.ShowDeficit(ctx, id)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(svc.CloseSession(ctx, id), repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the source fails", func() {
			boom := errors.New("roster unreadable")
			broken := newService(service.WithSource(func(context.Context) (*concert.Concert, error) {
				return nil, boom
			}))
			So(broken.Start(ctx), ShouldBeNil)
			defer broken.Stop()

			_, err := broken.OpenSession(ctx)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}

func TestService_Staffing(t *testing.T) {
	Convey("Given an open session", t, func() {
		svc := newService()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		id, err := svc.OpenSession(ctx)
		So(err, ShouldBeNil)

		Convey("When querying deficits", func() {
			d, err := svc.SongDeficit(ctx, id, "somebody to love")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, map[string]int{"lead vocal": 1, "piano": 1})

			total, err := svc.ShowDeficit(ctx, id)
			So(err, ShouldBeNil)
			So(total, ShouldResemble, map[string]int{"lead vocal": 3, "piano": 1, "synthesizer": 1})

			_, err = svc.SongDeficit(ctx, id, "Bohemian Rhapsody")
			So(errors.Is(err, concert.ErrSongNotFound), ShouldBeTrue)
		})

		Convey("When hiring one song", func() {
			hired, err := svc.HireSong(ctx, id, "Somebody to Love")

			Convey("Then the cheapest candidates are contracted", func() {
				So(err, ShouldBeNil)
				So(hired, ShouldHaveLength, 2)
				So(hired[0].Performer, ShouldEqual, "Annie Lennox")
				So(hired[0].Price, ShouldEqual, 100.0)
				So(hired[1].Performer, ShouldEqual, "Elton John")
				So(hired[1].Role, ShouldEqual, "piano")

				list, err := svc.Contracts(ctx, id)
				So(err, ShouldBeNil)
				So(list.TotalCost, ShouldEqual, 1100.0)
				So(list.Contracts[1].SongsAssigned, ShouldEqual, 1)
			})
		})

		Convey("When hiring a song nobody can fill", func() {
			hired, err := svc.HireSong(ctx, id, "Flash")

			Convey("Then the failure names the role and song", func() {
				So(hired, ShouldBeEmpty)
				var nc *allocation.NoCandidateError
				So(errors.As(err, &nc), ShouldBeTrue)
				So(nc.Role, ShouldEqual, "synthesizer")
				So(nc.Song, ShouldEqual, "Flash")
			})
		})

		Convey("When hiring the show", func() {
			res, err := svc.HireShow(ctx, id)

			Convey("Then failures are summarized, not raised", func() {
				So(err, ShouldBeNil)
				So(res.Processed, ShouldEqual, 2)
				So(res.Failed, ShouldEqual, 1)
				So(res.Skipped, ShouldEqual, 0)
				So(res.Failures, ShouldHaveLength, 1)
				// Annie 100 and Elton 1000, then Bowie 750 and Elton 1000 for Under Pressure.
				So(res.Spent, ShouldEqual, 2850.0)
			})

			Convey("And the report matches the contracts", func() {
				r, err := svc.Report(ctx, id)
				So(err, ShouldBeNil)
				So(r.TotalCost, ShouldEqual, 2850.0)
				So(r.Songs[2].Complete, ShouldBeFalse)
				So(r.Songs[2].Missing, ShouldResemble, map[string]int{"synthesizer": 1})
			})

			Convey("And hiring again skips complete songs", func() {
				again, err := svc.HireShow(ctx, id)
				So(err, ShouldBeNil)
				So(again.Skipped, ShouldEqual, 2)
				So(again.Hired, ShouldBeEmpty)
			})
		})

		Convey("When training and removing contracts", func() {
			So(svc.Train(ctx, id, "David Bowie", "synthesizer"), ShouldBeNil)
			So(errors.Is(svc.Train(ctx, id, "David Bowie", "synthesizer"), performer.ErrTrainingNoOp), ShouldBeTrue)
			So(errors.Is(svc.Train(ctx, id, "Freddie Mercury", "piano"), concert.ErrNotFound), ShouldBeTrue)

			hired, err := svc.HireSong(ctx, id, "Flash")
			So(err, ShouldBeNil)
			So(hired, ShouldHaveLength, 1)
			// Bowie shares history with Queen: 1500 * 1.5 * 0.5.
			So(hired[0].Price, ShouldEqual, 1125.0)

			So(errors.Is(svc.Train(ctx, id, "David Bowie", "piano"), performer.ErrAlreadyHired), ShouldBeTrue)

			removed, err := svc.RemoveContract(ctx, id, hired[0].ID)
			So(err, ShouldBeNil)
			So(removed.Performer, ShouldEqual, "David Bowie")

			_, err = svc.RemoveContract(ctx, id, hired[0].ID)
			So(errors.Is(err, concert.ErrContractNotFound), ShouldBeTrue)

			// Removal does not make the performer trainable again.
			So(errors.Is(svc.Train(ctx, id, "David Bowie", "piano"), performer.ErrAlreadyHired), ShouldBeTrue)
		})

		Convey("When removing all contracts of a performer", func() {
			_, err := svc.HireShow(ctx, id)
			So(err, ShouldBeNil)

			n, err := svc.RemoveAllContracts(ctx, id, "elton john")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			list, err := svc.Contracts(ctx, id)
			So(err, ShouldBeNil)
			So(list.TotalCost, ShouldEqual, 850.0)

			_, err = svc.RemoveAllContracts(ctx, id, "Nobody")
			So(errors.Is(err, concert.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Trainings(t *testing.T) {
	Convey("Given an open session", t, func() {
		ctx := context.Background()

		Convey("When the solver answers", func() {
			svc := newService()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			id, _ := svc.OpenSession(ctx)

			est, err := svc.Trainings(ctx, id)
			So(err, ShouldBeNil)
			So(est.Trainings, ShouldEqual, 2)
			So(est.UnitCost, ShouldEqual, 40.0)
			So(est.Cost, ShouldEqual, 80.0)
		})

		Convey("When the solver fails", func() {
			svc := newService(service.WithSolver(stubSolver{err: training.ErrSolverFailure}))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			id, _ := svc.OpenSession(ctx)

			_, err := svc.Trainings(ctx, id)
			So(errors.Is(err, training.ErrSolverFailure), ShouldBeTrue)
		})

		Convey("When the session is unknown", func() {
			svc := newService(service.WithSolverTimeout(time.Second))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			_, err := svc.Trainings(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_SolverPool(t *testing.T) {
	Convey("Given services with and without a solver pool", t, func() {
		ctx := context.Background()
		pooled := newService(service.WithSolverWorkers(2), service.WithSolverQueue(8))
		direct := newService(service.WithSolverWorkers(0))
		So(pooled.Start(ctx), ShouldBeNil)
		So(direct.Start(ctx), ShouldBeNil)
		defer pooled.Stop()
		defer direct.Stop()

		Convey("When estimating trainings", func() {
			pid, _ := pooled.OpenSession(ctx)
			did, _ := direct.OpenSession(ctx)

			viaPool, err := pooled.Trainings(ctx, pid)
			So(err, ShouldBeNil)
			viaSolver, err := direct.Trainings(ctx, did)
			So(err, ShouldBeNil)

			Convey("Then both paths agree", func() {
				So(viaPool, ShouldResemble, viaSolver)
				So(pooled.GetStats(ctx)["solverWorkers"], ShouldEqual, 2)
				So(direct.GetStats(ctx)["solverWorkers"], ShouldEqual, 0)
			})
		})

		Convey("When the pooled service restarts", func() {
			pooled.Stop()
			So(pooled.Start(ctx), ShouldBeNil)
			id, err := pooled.OpenSession(ctx)
			So(err, ShouldBeNil)

			est, err := pooled.Trainings(ctx, id)
			So(err, ShouldBeNil)
			So(est.Trainings, ShouldEqual, 2)
		})
	})
}
