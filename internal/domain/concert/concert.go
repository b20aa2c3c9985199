// Package concert is the aggregate root: it owns the setlist, the roster and
// the contract ledger, and exposes the staffing use cases.
//
// A Concert is not safe for concurrent use; callers serialize access.
package concert

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/sinfonia/internal/domain/allocation"
	"github.com/okian/sinfonia/internal/domain/contract"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
	"github.com/okian/sinfonia/internal/domain/training"
)

// SongStatus is the per-song view handed to exporters.
type SongStatus struct {
	Title     string
	Complete  bool
	Deficit   song.RoleCounts // nil when complete
	Contracts []*contract.Contract
}

// Status is the whole-show view handed to exporters.
type Status struct {
	Songs     []SongStatus
	TotalCost float64
}

// TrainingEstimate is the solver answer priced at a unit cost.
type TrainingEstimate struct {
	Trainings int
	UnitCost  float64
	Cost      float64
}

// Concert owns one staffing session.
type Concert struct {
	setlist    []*song.Song
	houses     []*performer.House
	candidates []*performer.External
	ledger     *contract.Ledger
	engine     *allocation.Engine
}

// New builds a concert from loaded data. Slice order is significant.
func New(setlist []*song.Song, houses []*performer.House, candidates []*performer.External) *Concert {
	ledger := contract.NewLedger()
	return &Concert{
		setlist:    setlist,
		houses:     houses,
		candidates: candidates,
		ledger:     ledger,
		engine:     allocation.New(houses, candidates, ledger),
	}
}

// Setlist returns the songs in show order.
func (c *Concert) Setlist() []*song.Song { return slices.Clone(c.setlist) }

// Houses returns the house performers in load order.
func (c *Concert) Houses() []*performer.House { return slices.Clone(c.houses) }

// Candidates returns the external candidates in load order.
func (c *Concert) Candidates() []*performer.External { return slices.Clone(c.candidates) }

// Contracts returns all contracts in hire order.
func (c *Concert) Contracts() []*contract.Contract { return c.ledger.All() }

// ContractsOf returns the contracts held by p.
func (c *Concert) ContractsOf(p *performer.External) []*contract.Contract {
	return c.ledger.ForPerformer(p)
}

// SongsAssigned counts the distinct songs p is hired for.
func (c *Concert) SongsAssigned(p *performer.External) int {
	return c.ledger.SongsAssigned(p)
}

// Song finds a setlist entry by case-insensitive title.
func (c *Concert) Song(title string) (*song.Song, error) {
	for _, s := range c.setlist {
		if strings.EqualFold(s.Title(), title) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", title, ErrSongNotFound)
}

// Candidate finds an external candidate by case-insensitive name.
func (c *Concert) Candidate(name string) (*performer.External, error) {
	for _, p := range c.candidates {
		if strings.EqualFold(p.Name(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// Contract finds a contract by ID.
func (c *Concert) Contract(id string) (*contract.Contract, bool) {
	return c.ledger.Find(id)
}

// Deficit returns the unmet roles of s.
func (c *Concert) Deficit(s *song.Song) song.RoleCounts {
	return c.engine.Deficit(s)
}

// DeficitTotal returns the unmet roles across the whole setlist.
func (c *Concert) DeficitTotal() song.RoleCounts {
	return c.engine.DeficitTotal(c.setlist)
}

// EffectivePrice is what hiring p would cost right now.
func (c *Concert) EffectivePrice(p *performer.External) float64 {
	return c.engine.EffectivePrice(p)
}

// HireForSong staffs s greedily. See allocation.Engine.HireForSong.
func (c *Concert) HireForSong(s *song.Song) ([]*contract.Contract, error) {
	return c.engine.HireForSong(s)
}

// HireForShow staffs every incomplete song and never fails.
func (c *Concert) HireForShow() allocation.ShowSummary {
	return c.engine.HireForShow(c.setlist)
}

// TrainPerformer teaches the named candidate a new role.
func (c *Concert) TrainPerformer(name, role string) error {
	p, err := c.Candidate(name)
	if err != nil {
		return err
	}
	return p.Train(role)
}

// RemoveContract drops one contract. The performer stays hired.
func (c *Concert) RemoveContract(k *contract.Contract) bool {
	return c.ledger.Remove(k)
}

// RemoveContractByID drops the contract with the given ID.
func (c *Concert) RemoveContractByID(id string) (*contract.Contract, error) {
	k, ok := c.ledger.Find(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrContractNotFound)
	}
	c.ledger.Remove(k)
	return k, nil
}

// RemoveAllContractsOf drops every contract of p. The performer stays hired.
func (c *Concert) RemoveAllContractsOf(p *performer.External) int {
	return c.ledger.RemoveAllOf(p)
}

// TotalCost sums the prices paid over all contracts.
func (c *Concert) TotalCost() float64 {
	return c.ledger.TotalCost()
}

// Status reports every song's staffing state in setlist order.
func (c *Concert) Status() Status {
	st := Status{
		Songs:     make([]SongStatus, 0, len(c.setlist)),
		TotalCost: c.ledger.TotalCost(),
	}
	for _, s := range c.setlist {
		d := c.engine.Deficit(s)
		ss := SongStatus{
			Title:     s.Title(),
			Complete:  len(d) == 0,
			Contracts: c.ledger.ForSong(s),
		}
		if !ss.Complete {
			ss.Deficit = d
		}
		st.Songs = append(st.Songs, ss)
	}
	return st
}

// TrainingRequest builds the solver input from songs and house performers.
func (c *Concert) TrainingRequest() training.Request {
	return training.BuildRequest(c.setlist, c.houses)
}

// MinimumTrainings asks solver how many trainings remove every deficit
// without hiring. Solver errors are returned as-is.
func (c *Concert) MinimumTrainings(ctx context.Context, solver training.Solver) (int, error) {
	return solver.MinimumTrainings(ctx, c.TrainingRequest())
}

// TrainingCost prices the minimum number of trainings at unitCost each.
func (c *Concert) TrainingCost(ctx context.Context, solver training.Solver, unitCost float64) (TrainingEstimate, error) {
	n, err := c.MinimumTrainings(ctx, solver)
	if err != nil {
		return TrainingEstimate{}, err
	}
	return TrainingEstimate{
		Trainings: n,
		UnitCost:  unitCost,
		Cost:      float64(n) * unitCost,
	}, nil
}
