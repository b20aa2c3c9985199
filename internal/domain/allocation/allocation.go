// Package allocation computes unmet roles and hires external candidates
// greedily by effective price.
package allocation

import (
	"errors"

	"github.com/okian/sinfonia/internal/domain/contract"
	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
)

// Pricing constants.
const (
	sharedHistoryDiscount = 0.5
)

// ShowSummary reports the outcome of staffing the whole setlist.
type ShowSummary struct {
	Processed int
	Failed    int
	Skipped   int
	Spent     float64
	Hired     []*contract.Contract
	Failures  []*NoCandidateError
}

// Engine runs deficit and hiring computations over a roster and a ledger.
// It holds references, not copies: ledger changes are seen immediately.
type Engine struct {
	houses     []*performer.House
	candidates []*performer.External
	ledger     *contract.Ledger
}

// New creates an engine. House and candidate order is significant.
func New(houses []*performer.House, candidates []*performer.External, ledger *contract.Ledger) *Engine {
	return &Engine{
		houses:     houses,
		candidates: candidates,
		ledger:     ledger,
	}
}

// Deficit returns the roles of s still unmet after house performers and
// existing contracts are applied. Only positive counts are returned.
//
// Each house performer absorbs at most one slot: the first role in its
// declaration order that still has a positive remaining count.
func (e *Engine) Deficit(s *song.Song) song.RoleCounts {
	remaining := s.RequiredRoleCounts()

	for _, h := range e.houses {
		for _, role := range h.Roles() {
			if remaining[role] > 0 {
				remaining[role]--
				break
			}
		}
	}

	for _, c := range e.ledger.ForSong(s) {
		if remaining[c.Role()] > 0 {
			remaining[c.Role()]--
		}
	}

	for role, n := range remaining {
		if n <= 0 {
			delete(remaining, role)
		}
	}
	return remaining
}

// DeficitTotal sums Deficit role-wise over setlist.
func (e *Engine) DeficitTotal(setlist []*song.Song) song.RoleCounts {
	total := make(song.RoleCounts)
	for _, s := range setlist {
		total.Add(e.Deficit(s))
	}
	return total
}

// EffectivePrice is the candidate's current price, halved when it shares
// history with any house performer.
func (e *Engine) EffectivePrice(c *performer.External) float64 {
	price := c.Price()
	for _, h := range e.houses {
		if c.SharesHistory(h) {
			return price * sharedHistoryDiscount
		}
	}
	return price
}

// eligible reports whether c may take role in s right now.
func (e *Engine) eligible(c *performer.External, s *song.Song, role string) bool {
	if !c.CanPlay(role) {
		return false
	}
	if e.ledger.HoldsSong(c, s) {
		return false
	}
	return e.ledger.SongsAssigned(c) < c.MaxSongs()
}

// cheapest returns the eligible candidate with the strictly lowest effective
// price; ties keep the earliest candidate.
func (e *Engine) cheapest(s *song.Song, role string) (*performer.External, float64, bool) {
	var (
		best      *performer.External
		bestPrice float64
	)
	for _, c := range e.candidates {
		if !e.eligible(c, s, role) {
			continue
		}
		price := e.EffectivePrice(c)
		if best == nil || price < bestPrice {
			best = c
			bestPrice = price
		}
	}
	return best, bestPrice, best != nil
}

// HireForSong fills every unmet slot of s, one unit at a time, roles in
// order of first appearance in the song. It stops at the first slot no
// candidate can fill and returns a *NoCandidateError; contracts created
// before that stay in the ledger.
func (e *Engine) HireForSong(s *song.Song) ([]*contract.Contract, error) {
	deficit := e.Deficit(s)
	var hired []*contract.Contract

	for _, role := range s.Roles() {
		for range deficit[role] {
			c, price, ok := e.cheapest(s, role)
			if !ok {
				return hired, &NoCandidateError{Role: role, Song: s.Title()}
			}
			hired = append(hired, e.ledger.Hire(c, s, role, price))
		}
	}
	return hired, nil
}

// HireForShow runs HireForSong over setlist in order, skipping complete songs.
// A failing song does not stop the rest; failures are summarized.
func (e *Engine) HireForShow(setlist []*song.Song) ShowSummary {
	var sum ShowSummary
	for _, s := range setlist {
		if len(e.Deficit(s)) == 0 {
			sum.Skipped++
			continue
		}
		hired, err := e.HireForSong(s)
		sum.Hired = append(sum.Hired, hired...)
		for _, c := range hired {
			sum.Spent += c.Price()
		}
		if err != nil {
			var nc *NoCandidateError
			if errors.As(err, &nc) {
				sum.Failures = append(sum.Failures, nc)
			}
			sum.Failed++
			continue
		}
		sum.Processed++
	}
	return sum
}
