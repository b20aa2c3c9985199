// Package repository keeps staffing sessions in memory.
package repository

import (
	"context"
	"time"

	"github.com/okian/sinfonia/internal/domain/concert"
)

// Info describes a stored session.
type Info struct {
	ID        string
	CreatedAt time.Time
	LastUsed  time.Time
}

// Store provides access to staffing sessions.
type Store interface {
	// Create stores c under a fresh ID.
	// Returns ErrCapacity when the session limit is reached.
	Create(ctx context.Context, c *concert.Concert) (string, error)

	// Do runs fn with exclusive access to the session's concert.
	// Returns ErrNotFound if the session is unknown; otherwise fn's error.
	Do(ctx context.Context, id string, fn func(*concert.Concert) error) error

	// Delete drops a session. Returns ErrNotFound if it is unknown.
	Delete(ctx context.Context, id string) error

	// List describes the open sessions, oldest first.
	List(ctx context.Context) []Info

	// Count returns the number of open sessions.
	Count(ctx context.Context) int
}
