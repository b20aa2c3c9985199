// Package song defines setlist entries and role multiset accounting.
package song

import (
	"maps"
	"slices"
)

// RoleCounts maps a role to how many slots of it are counted.
// A role absent from the map counts zero.
type RoleCounts map[string]int

// Total returns the number of slots across all roles.
func (rc RoleCounts) Total() int {
	n := 0
	for _, c := range rc {
		n += c
	}
	return n
}

// Add accumulates other into rc role-wise.
func (rc RoleCounts) Add(other RoleCounts) {
	for role, c := range other {
		rc[role] += c
	}
}

// Clone returns an independent copy.
func (rc RoleCounts) Clone() RoleCounts {
	return maps.Clone(rc)
}

// Sorted returns the roles in lexical order.
func (rc RoleCounts) Sorted() []string {
	return slices.Sorted(maps.Keys(rc))
}

// Song is one entry of the setlist.
type Song struct {
	title    string
	required []string
}

// New creates a song. A role may appear several times in required.
func New(title string, required []string) *Song {
	return &Song{title: title, required: slices.Clone(required)}
}

// Title returns the song title.
func (s *Song) Title() string { return s.title }

// Required returns the required-role multiset as loaded.
func (s *Song) Required() []string { return slices.Clone(s.required) }

// Roles returns the distinct required roles in order of first appearance.
func (s *Song) Roles() []string {
	out := make([]string, 0, len(s.required))
	for _, r := range s.required {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

// RequiredRoleCounts groups the required roles by count.
func (s *Song) RequiredRoleCounts() RoleCounts {
	counts := make(RoleCounts, len(s.required))
	for _, r := range s.required {
		counts[r]++
	}
	return counts
}
