// Package performer models house talent and hireable external candidates.
package performer

import (
	"fmt"
	"math"
	"slices"
)

// Pricing constants.
const (
	trainingGrowth = 1.5
)

// Kind tags the performer variant.
type Kind int

// Performer variants.
const (
	KindHouse Kind = iota + 1
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindHouse:
		return "house"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Key identifies a performer. Names are only unique within a variant.
type Key struct {
	Kind Kind
	Name string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Name)
}

// Performer exposes the capability and cost facts the allocation engine needs.
type Performer interface {
	Key() Key
	Name() string
	CanPlay(role string) bool
	Roles() []string
	Affiliations() []string
	Price() float64
	MaxSongs() int
}

// profile holds the fields shared by both variants.
type profile struct {
	name         string
	roles        []string // declaration order, no duplicates
	affiliations map[string]struct{}
}

func newProfile(name string, roles, affiliations []string) profile {
	p := profile{
		name:         name,
		roles:        make([]string, 0, len(roles)),
		affiliations: make(map[string]struct{}, len(affiliations)),
	}
	for _, r := range roles {
		if !slices.Contains(p.roles, r) {
			p.roles = append(p.roles, r)
		}
	}
	for _, a := range affiliations {
		p.affiliations[a] = struct{}{}
	}
	return p
}

func (p *profile) Name() string { return p.name }

func (p *profile) CanPlay(role string) bool {
	return slices.Contains(p.roles, role)
}

// Roles returns the known roles in declaration order.
func (p *profile) Roles() []string {
	return slices.Clone(p.roles)
}

// Affiliations returns the historical group affiliations, sorted.
func (p *profile) Affiliations() []string {
	out := make([]string, 0, len(p.affiliations))
	for a := range p.affiliations {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// SharesHistory reports whether the performer played in any group the
// house performer also played in.
func (p *profile) SharesHistory(h *House) bool {
	if h == nil {
		return false
	}
	for a := range p.affiliations {
		if _, ok := h.affiliations[a]; ok {
			return true
		}
	}
	return false
}

// House is a label performer: free and always available.
type House struct {
	profile
}

// NewHouse creates a house performer.
func NewHouse(name string, roles, affiliations []string) *House {
	return &House{profile: newProfile(name, roles, affiliations)}
}

// Key returns the variant-tagged identity.
func (h *House) Key() Key { return Key{Kind: KindHouse, Name: h.name} }

// Price is always zero for house performers.
func (h *House) Price() float64 { return 0 }

// MaxSongs is unbounded for house performers.
func (h *House) MaxSongs() int { return math.MaxInt }

// External is a hireable candidate.
type External struct {
	profile
	basePrice float64
	maxSongs  int
	learned   int
	hired     bool
}

// NewExternal creates an external candidate that has not been trained or hired.
func NewExternal(name string, roles, affiliations []string, basePrice float64, maxSongs int) *External {
	return &External{
		profile:   newProfile(name, roles, affiliations),
		basePrice: basePrice,
		maxSongs:  maxSongs,
	}
}

// Key returns the variant-tagged identity.
func (e *External) Key() Key { return Key{Kind: KindExternal, Name: e.name} }

// Price returns the current hiring price: base × 1.5^learned.
func (e *External) Price() float64 {
	return e.basePrice * math.Pow(trainingGrowth, float64(e.learned))
}

// BasePrice returns the price before any training.
func (e *External) BasePrice() float64 { return e.basePrice }

// MaxSongs returns how many distinct songs the candidate may be hired for.
func (e *External) MaxSongs() int { return e.maxSongs }

// Learned returns how many roles were added by training.
func (e *External) Learned() int { return e.learned }

// Hired reports whether a contract was ever created for this candidate.
func (e *External) Hired() bool { return e.hired }

// MarkHired flags the candidate as hired. Only the contract ledger calls it.
func (e *External) MarkHired() { e.hired = true }

// Train teaches the candidate a new role, raising its price by ×1.5.
// Returns ErrAlreadyHired or ErrTrainingNoOp without changing state.
func (e *External) Train(role string) error {
	if e.hired {
		return fmt.Errorf("train %q for %q: %w", role, e.name, ErrAlreadyHired)
	}
	if e.CanPlay(role) {
		return fmt.Errorf("train %q for %q: %w", role, e.name, ErrTrainingNoOp)
	}
	e.roles = append(e.roles, role)
	e.learned++
	return nil
}
