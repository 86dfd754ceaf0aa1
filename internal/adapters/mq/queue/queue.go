// Package queue holds batch report jobs waiting for a worker.
//
// The queue is an in-memory bounded channel. Enqueue never blocks: a full or
// closed queue rejects the job and the caller decides what to do with it.
package queue

import (
	"context"
	"sync"

	"github.com/okian/criatividade/pkg/metrics"
)

const defaultCapacity = 256

// Job is one CSV file to analyze.
type Job struct {
	// Index is the position of the file on the command line; results are
	// reported in this order.
	Index int
	Path  string
	// Selection is passed through to the analysis unchanged; nil keeps every row.
	Selection []string
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns false when the queue is full, closed or
	// ctx is done.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel of jobs. It is closed once the queue is
	// closed and drained.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of queued jobs.
	Len(ctx context.Context) int

	// Close stops accepting jobs. Queued jobs are still delivered.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	metrics.UpdateBatchQueueDepth(0)
	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		return false
	}

	select {
	case q.jobs <- j:
		metrics.UpdateBatchQueueDepth(len(q.jobs))
		return true
	default:
		return false
	}
}

// Dequeue returns a channel that receives jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.UpdateBatchQueueDepth(len(q.jobs))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

// Close stops the queue from accepting jobs. Closing twice is a no-op.
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
