// Package queue holds minimum-training evaluations waiting for a solver
// worker.
package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/sinfonia/internal/domain/training"
	"github.com/okian/sinfonia/pkg/metrics"
)

const defaultCapacity = 64

// Result is a worker's answer to a Job.
type Result struct {
	Trainings int
	Err       error
}

// Job is one evaluation request. Ctx is the caller's context and bounds the
// evaluation; Reply receives exactly one Result.
type Job struct {
	ID      string
	Ctx     context.Context //nolint:containedctx // job carries its caller's deadline across the queue
	Request training.Request
	Reply   chan Result
}

// NewJob creates a job with a buffered reply channel.
func NewJob(ctx context.Context, req training.Request) Job {
	return Job{
		ID:      uuid.NewString(),
		Ctx:     ctx,
		Request: req,
		Reply:   make(chan Result, 1),
	}
}

// Resolve delivers the job's result. It never blocks.
func (j Job) Resolve(n int, err error) {
	select {
	case j.Reply <- Result{Trainings: n, Err: err}:
	default:
	}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It fails with ErrFull or ErrClosed instead of
	// blocking.
	Enqueue(ctx context.Context, j Job) error

	// Dequeue returns the channel workers read from. It is closed by Close.
	Dequeue() <-chan Job

	// Len returns the number of waiting jobs.
	Len() int

	// Close stops accepting jobs. Jobs already queued stay readable.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of waiting jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	metrics.UpdateSolverQueueSize(0)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordSolverQueueRejected("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordSolverQueueRejected("context_cancelled")
		return err
	}

	select {
	case q.jobs <- j:
		metrics.UpdateSolverQueueSize(len(q.jobs))
		return nil
	default:
		metrics.RecordSolverQueueRejected("queue_full")
		metrics.RecordErrorByComponent("solver_queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns the job channel.
func (q *InMemoryQueue) Dequeue() <-chan Job {
	return q.jobs
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len() int {
	size := len(q.jobs)
	metrics.UpdateSolverQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
