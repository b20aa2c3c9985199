// Package worker runs training solvers on a fixed pool of goroutines fed by
// a bounded queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sinfonia/internal/adapters/mq/queue"
	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/pkg/logger"
	"github.com/okian/sinfonia/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Job outcomes recorded in metrics.
const (
	outcomeSolved    = "solved"
	outcomeFailed    = "failed"
	outcomeCancelled = "cancelled"
	outcomeDropped   = "dropped"
)

// Queue defines how the pool submits and receives jobs.
type Queue interface {
	Enqueue(ctx context.Context, j queue.Job) error
	Dequeue() <-chan queue.Job
	Close() error
}

// Worker evaluates jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker evaluates queued jobs with a solver.
type InMemoryWorker struct {
	jobs   <-chan queue.Job
	solver training.Solver
	name   string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewInMemoryWorker creates a worker reading from jobs.
func NewInMemoryWorker(jobs <-chan queue.Job, solver training.Solver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		jobs:     jobs,
		solver:   solver,
		name:     "solver-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-w.jobs:
			if !ok {
				return
			}
			w.process(j)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(j queue.Job) {
	if err := j.Ctx.Err(); err != nil {
		metrics.RecordSolverJob(outcomeCancelled)
		j.Resolve(0, err)
		return
	}

	n, err := w.solver.MinimumTrainings(j.Ctx, j.Request)
	switch {
	case err == nil:
		metrics.RecordSolverJob(outcomeSolved)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.RecordSolverJob(outcomeCancelled)
	default:
		metrics.RecordSolverJob(outcomeFailed)
		metrics.RecordErrorByComponent("worker", "solver_error")
		w.logger.Debug(j.Ctx, "solver job failed",
			logger.String("job", j.ID),
			logger.Error(err),
		)
	}
	j.Resolve(n, err)
}

// Pool runs a fixed number of workers behind a bounded queue. It is itself a
// training.Solver, so callers see no difference from a direct solver besides
// ErrFull under load.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	started  atomic.Bool
	stopOnce sync.Once
	logger   logger.Logger
}

var _ training.Solver = (*Pool)(nil)

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger shared by the pool and its workers.
func WithPoolLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool of workerCount workers. A count below one means
// one worker per CPU.
func NewPool(workerCount int, q Queue, solver training.Solver, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("solver-pool")
	}
	for i := range workerCount {
		name := "solver-worker-" + strconv.Itoa(i)
		p.workers[i] = NewInMemoryWorker(
			q.Dequeue(),
			solver,
			WithName(name),
			WithLogger(p.logger.Named(name)),
		)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateSolverWorkers(len(p.workers))
}

// MinimumTrainings queues req and waits for a worker's answer or ctx.
func (p *Pool) MinimumTrainings(ctx context.Context, req training.Request) (int, error) {
	j := queue.NewJob(ctx, req)
	if err := p.queue.Enqueue(ctx, j); err != nil {
		return 0, err
	}
	select {
	case res := <-j.Reply:
		return res.Trainings, res.Err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Shutdown closes the queue, stops every worker and fails the jobs left
// behind with queue.ErrClosed.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		if cerr := p.queue.Close(); cerr != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(cerr))
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
		defer cancel()
		for i, w := range p.workers {
			if !p.started.Load() {
				break
			}
			if werr := w.Shutdown(shutdownCtx); werr != nil {
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
				err = werr
			}
		}

		for j := range p.queue.Dequeue() {
			metrics.RecordSolverJob(outcomeDropped)
			j.Resolve(0, queue.ErrClosed)
		}
		metrics.UpdateSolverWorkers(0)
		metrics.UpdateSolverQueueSize(0)
	})
	return err
}
