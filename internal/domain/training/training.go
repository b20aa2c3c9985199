// Package training prepares the minimum-training question for an external
// solver: how many trainings would remove every deficit without hiring.
package training

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/sinfonia/internal/domain/performer"
	"github.com/okian/sinfonia/internal/domain/song"
)

// Request is the solver input. Both maps are keyed by normalized role labels.
type Request struct {
	// Demand maps a role to the most slots any single song requires.
	Demand map[string]int
	// Supply maps a role to how many house performers can play it.
	Supply map[string]int
}

// Solver answers the minimum number of trainings for a request.
type Solver interface {
	MinimumTrainings(ctx context.Context, req Request) (int, error)
}

// Normalize turns a role label into a stable identifier: lower case,
// diacritics stripped, whitespace runs joined by underscores.
func Normalize(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), "_")
}

// BuildRequest derives demand from the setlist and supply from house
// performers. Contracts are not considered.
func BuildRequest(setlist []*song.Song, houses []*performer.House) Request {
	req := Request{
		Demand: make(map[string]int),
		Supply: make(map[string]int),
	}
	for _, s := range setlist {
		perSong := make(map[string]int)
		for role, n := range s.RequiredRoleCounts() {
			perSong[Normalize(role)] += n
		}
		for role, n := range perSong {
			req.Demand[role] = max(req.Demand[role], n)
		}
	}
	for _, h := range houses {
		seen := make(map[string]struct{})
		for _, role := range h.Roles() {
			key := Normalize(role)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			req.Supply[key]++
		}
	}
	return req
}
