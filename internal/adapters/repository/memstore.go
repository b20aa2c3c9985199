package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/pkg/metrics"
)

type session struct {
	mu       sync.Mutex
	concert  *concert.Concert
	created  time.Time
	lastUsed time.Time
	closed   bool
}

// MemStore is an in-memory Store. Each session has its own mutex so calls
// into one concert are serialized while different sessions proceed in
// parallel.
type MemStore struct {
	mu            sync.RWMutex
	sessions      map[string]*session
	maxSessions   int
	idleTTL       time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemStore constructs a session store. When an idle TTL is configured a
// sweeper runs until ctx is done or Close is called.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		sessions:      make(map[string]*session),
		sweepInterval: time.Minute,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idleTTL > 0 {
		s.startSweeper(ctx)
	}
	metrics.UpdateActiveSessions(0)
	return s
}

func (s *MemStore) startSweeper(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.EvictIdle()
			}
		}
	}()
}

// Close stops the sweeper.
func (s *MemStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Create implements Store.Create.
func (s *MemStore) Create(ctx context.Context, c *concert.Concert) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := s.now()
	id := uuid.NewString()

	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "capacity")
		return "", ErrCapacity
	}
	s.sessions[id] = &session{concert: c, created: now, lastUsed: now}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	return id, nil
}

// Do implements Store.Do.
func (s *MemStore) Do(ctx context.Context, id string, fn func(*concert.Concert) error) error {
	start := time.Now()
	defer func() {
		metrics.RecordSessionLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	// Deleted while we waited for the lock.
	if sess.closed {
		return ErrNotFound
	}
	sess.lastUsed = s.now()
	return fn(sess.concert)
}

// Delete implements Store.Delete.
func (s *MemStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	return nil
}

// EvictIdle drops sessions idle longer than the TTL and returns how many
// were dropped. Sessions currently in use are skipped.
func (s *MemStore) EvictIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastUsed.Before(cutoff) {
			sess.closed = true
			delete(s.sessions, id)
			evicted++
		}
		sess.mu.Unlock()
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	return evicted
}

// List implements Store.List.
func (s *MemStore) List(ctx context.Context) []Info {
	s.mu.RLock()
	out := make([]Info, 0, len(s.sessions))
	held := make([]*session, 0, len(s.sessions))
	ids := make([]string, 0, len(s.sessions))
	for id, sess := range s.sessions {
		held = append(held, sess)
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for i, sess := range held {
		sess.mu.Lock()
		if !sess.closed {
			out = append(out, Info{ID: ids[i], CreatedAt: sess.created, LastUsed: sess.lastUsed})
		}
		sess.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Info) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Count implements Store.Count.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

