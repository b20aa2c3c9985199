// Package service provides the staffing service that implements the
// dependencies required by the HTTP API and the planning CLI.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/sinfonia/internal/adapters/loader"
	"github.com/okian/sinfonia/internal/adapters/mq/queue"
	"github.com/okian/sinfonia/internal/adapters/mq/worker"
	"github.com/okian/sinfonia/internal/adapters/repository"
	"github.com/okian/sinfonia/internal/adapters/solver"
	"github.com/okian/sinfonia/internal/config"
	"github.com/okian/sinfonia/internal/domain/concert"
	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/pkg/logger"
	"github.com/okian/sinfonia/pkg/metrics"
)

// Source produces the concert a new session starts from.
type Source func(ctx context.Context) (*concert.Concert, error)

// Service owns the staffing sessions.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	solver training.Solver
	source Source
	pool   *worker.Pool

	// Configuration
	paths         loader.Paths
	unitCost      float64
	maxSessions   int
	idleTTL       time.Duration
	solverTimeout time.Duration
	solverWorkers int
	solverQueue   int

	// State
	started   bool
	ownsStore bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the in-memory session store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSolver replaces the Mangle training solver.
func WithSolver(sv training.Solver) Option {
	return func(s *Service) {
		if sv != nil {
			s.solver = sv
		}
	}
}

// WithLoaderPaths sets the roster files new sessions are loaded from.
func WithLoaderPaths(p loader.Paths) Option {
	return func(s *Service) {
		s.paths = p
	}
}

// WithSource overrides how new sessions obtain their concert. It takes
// precedence over WithLoaderPaths.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithTrainingUnitCost sets the price of one training.
func WithTrainingUnitCost(cost float64) Option {
	return func(s *Service) {
		if cost >= 0 {
			s.unitCost = cost
		}
	}
}

// WithMaxSessions bounds open sessions. Zero means unbounded.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionIdleTTL evicts idle sessions. Zero disables eviction.
func WithSessionIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.idleTTL = ttl
		}
	}
}

// WithSolverTimeout bounds one solver evaluation. Zero means no bound.
func WithSolverTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.solverTimeout = d
		}
	}
}

// WithSolverWorkers runs the solver on a pool of n workers. Zero calls the
// solver directly.
func WithSolverWorkers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.solverWorkers = n
		}
	}
}

// WithSolverQueue bounds the evaluations waiting for a solver worker.
func WithSolverQueue(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.solverQueue = n
		}
	}
}

// ConfigOptions maps process configuration onto service options.
func ConfigOptions(cfg *config.Config) []Option {
	return []Option{
		WithLoaderPaths(loader.Paths{
			Artists:    cfg.ArtistsPath,
			HouseNames: cfg.HouseNamesPath,
			Setlist:    cfg.SetlistPath,
		}),
		WithTrainingUnitCost(cfg.TrainingUnitCost),
		WithMaxSessions(cfg.MaxSessions),
		WithSessionIdleTTL(cfg.SessionIdleTTL),
		WithSolverTimeout(cfg.SolverTimeout),
		WithSolverWorkers(cfg.SolverWorkers),
		WithSolverQueue(cfg.SolverQueue),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		unitCost:      50,
		maxSessions:   64,
		solverTimeout: 5 * time.Second,
		solverWorkers: 4,
		solverQueue:   64,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		paths := s.paths
		s.source = func(ctx context.Context) (*concert.Concert, error) {
			return loader.Load(ctx, paths)
		}
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemStore(ctx,
			repository.WithMaxSessions(s.maxSessions),
			repository.WithIdleTTL(s.idleTTL),
		)
		s.ownsStore = true
	}
	if s.solver == nil {
		s.solver = solver.NewMangle()
	}
	if s.solverWorkers > 0 {
		s.pool = worker.NewPool(s.solverWorkers,
			queue.NewInMemoryQueue(queue.WithCapacity(s.solverQueue)),
			s.solver,
			worker.WithPoolLogger(s.logger.Named("solver-pool")),
		)
		s.pool.Start(context.WithoutCancel(ctx))
	}

	s.started = true
	s.logger.Info(ctx, "staffing service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.Float64("trainingUnitCost", s.unitCost),
		logger.Duration("sessionIdleTTL", s.idleTTL),
		logger.Int("solverWorkers", s.solverWorkers),
	)
	return nil
}

// Stop shuts the service down and drops the store's background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.pool != nil {
		if err := s.pool.Shutdown(context.Background()); err != nil {
			s.logger.Warn(context.Background(), "solver pool shutdown incomplete", logger.Error(err))
		}
		s.pool = nil
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if s.ownsStore {
		s.store = nil
		s.ownsStore = false
	}
	s.started = false
	s.logger.Info(context.Background(), "staffing service stopped")
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// evaluator returns the solver trainings are computed with.
func (s *Service) evaluator() training.Solver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pool != nil {
		return s.pool
	}
	return s.solver
}

// OpenSession loads a fresh concert and stores it under a new session ID.
func (s *Service) OpenSession(ctx context.Context) (string, error) {
	store, err := s.ready()
	if err != nil {
		return "", err
	}
	c, err := s.source(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		s.logger.Error(ctx, "failed to load roster", logger.Error(err))
		return "", err
	}
	return s.openWith(ctx, store, c)
}

// OpenSessionWith stores an already built concert.
func (s *Service) OpenSessionWith(ctx context.Context, c *concert.Concert) (string, error) {
	store, err := s.ready()
	if err != nil {
		return "", err
	}
	return s.openWith(ctx, store, c)
}

func (s *Service) openWith(ctx context.Context, store repository.Store, c *concert.Concert) (string, error) {
	id, err := store.Create(ctx, c)
	if err != nil {
		s.logger.Warn(ctx, "session not opened", logger.Error(err))
		return "", err
	}
	metrics.RecordSessionOpened()
	s.logger.Info(ctx, "session opened",
		logger.String("session", id),
		logger.Int("songs", len(c.Setlist())),
		logger.Int("houses", len(c.Houses())),
		logger.Int("candidates", len(c.Candidates())),
	)
	return id, nil
}

// CloseSession drops a session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "session closed", logger.String("session", id))
	return nil
}

func (s *Service) do(ctx context.Context, id string, fn func(*concert.Concert) error) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	return store.Do(ctx, id, fn)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"maxSessions":      s.maxSessions,
		"trainingUnitCost": s.unitCost,
		"solverWorkers":    s.solverWorkers,
	}
	if s.started {
		n := s.store.Count(ctx)
		stats["sessions"] = n
		metrics.UpdateActiveSessions(n)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	stats["goroutines"] = goroutines
	metrics.UpdateSystemGoroutineCount(goroutines)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)

	return stats
}

