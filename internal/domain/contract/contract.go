// Package contract records hires of external candidates.
package contract

import (
	"slices"

	"github.com/google/uuid"

	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
)

// Contract binds one external candidate to one song and role at a
// snapshotted price. It is immutable once created.
type Contract struct {
	id        string
	performer *performer.External
	song      *song.Song
	role      string
	price     float64
}

// ID returns the contract identifier.
func (c *Contract) ID() string { return c.id }

// Performer returns the hired candidate.
func (c *Contract) Performer() *performer.External { return c.performer }

// Song returns the song the candidate was hired for.
func (c *Contract) Song() *song.Song { return c.song }

// Role returns the role the candidate was hired for.
func (c *Contract) Role() string { return c.role }

// Price returns the price paid at hiring time.
func (c *Contract) Price() float64 { return c.price }

// Ledger is the ordered collection of contracts. Insertion order is hire order.
type Ledger struct {
	contracts []*Contract
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Hire creates a contract, appends it and marks the candidate hired.
func (l *Ledger) Hire(p *performer.External, s *song.Song, role string, price float64) *Contract {
	c := &Contract{
		id:        uuid.NewString(),
		performer: p,
		song:      s,
		role:      role,
		price:     price,
	}
	p.MarkHired()
	l.contracts = append(l.contracts, c)
	return c
}

// Remove deletes exactly this contract instance. The performer stays hired.
func (l *Ledger) Remove(c *Contract) bool {
	i := slices.Index(l.contracts, c)
	if i < 0 {
		return false
	}
	l.contracts = slices.Delete(l.contracts, i, i+1)
	return true
}

// RemoveAllOf deletes every contract of p and returns how many were removed.
// The performer stays hired.
func (l *Ledger) RemoveAllOf(p *performer.External) int {
	before := len(l.contracts)
	l.contracts = slices.DeleteFunc(l.contracts, func(c *Contract) bool {
		return c.performer == p
	})
	return before - len(l.contracts)
}

// Find returns the contract with the given ID.
func (l *Ledger) Find(id string) (*Contract, bool) {
	for _, c := range l.contracts {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// All returns the contracts in hire order.
func (l *Ledger) All() []*Contract {
	return slices.Clone(l.contracts)
}

// Len returns the number of contracts.
func (l *Ledger) Len() int { return len(l.contracts) }

// ForSong returns the contracts of s in hire order.
func (l *Ledger) ForSong(s *song.Song) []*Contract {
	var out []*Contract
	for _, c := range l.contracts {
		if c.song == s {
			out = append(out, c)
		}
	}
	return out
}

// ForPerformer returns the contracts of p in hire order.
func (l *Ledger) ForPerformer(p *performer.External) []*Contract {
	var out []*Contract
	for _, c := range l.contracts {
		if c.performer == p {
			out = append(out, c)
		}
	}
	return out
}

// HoldsSong reports whether p already has a contract, in any role, for s.
func (l *Ledger) HoldsSong(p *performer.External, s *song.Song) bool {
	return slices.ContainsFunc(l.contracts, func(c *Contract) bool {
		return c.performer == p && c.song == s
	})
}

// SongsAssigned counts the distinct songs p holds contracts for.
func (l *Ledger) SongsAssigned(p *performer.External) int {
	seen := make(map[*song.Song]struct{})
	for _, c := range l.contracts {
		if c.performer == p {
			seen[c.song] = struct{}{}
		}
	}
	return len(seen)
}

// TotalCost sums the prices paid over all contracts.
func (l *Ledger) TotalCost() float64 {
	total := 0.0
	for _, c := range l.contracts {
		total += c.price
	}
	return total
}
