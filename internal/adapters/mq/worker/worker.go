// Package worker runs batch report jobs concurrently.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/criatividade/internal/adapters/mq/queue"
	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/pkg/logger"
	"github.com/okian/criatividade/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Analyzer runs the dashboard pipeline over one upload.
type Analyzer interface {
	Analyze(ctx context.Context, u app.Upload) (*app.Dashboard, error)
}

// Sink receives every finished job, failed ones included.
type Sink interface {
	Emit(ctx context.Context, r Result) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// ReadFunc loads the bytes of a job's file.
type ReadFunc func(path string) ([]byte, error)

// Result is the outcome of one job. Exactly one of Dashboard and Err is set.
type Result struct {
	Job       queue.Job
	Dashboard *app.Dashboard
	Err       error
	Elapsed   time.Duration
}

// InMemoryWorker pulls jobs off a queue and hands results to a sink.
type InMemoryWorker struct {
	jobs     <-chan queue.Job
	analyzer Analyzer
	sink     Sink
	read     ReadFunc
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from jobs.
func NewInMemoryWorker(jobs <-chan queue.Job, analyzer Analyzer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		jobs:     jobs,
		analyzer: analyzer,
		sink:     sink,
		read:     os.ReadFile,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes jobs until the channel closes, ctx is cancelled or Shutdown
// is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error emitting result",
					logger.String("path", job.Path),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker after the job in flight.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	res := Result{Job: job}

	data, err := w.read(job.Path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", job.Path, err)
	} else {
		res.Dashboard, res.Err = w.analyzer.Analyze(ctx, app.Upload{
			FileName:  filepath.Base(job.Path),
			Data:      data,
			Selection: job.Selection,
		})
	}
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		metrics.RecordBatchJob(metrics.OutcomeError)
		w.logger.Warn(ctx, "batch job failed",
			logger.String("worker", w.name),
			logger.String("path", job.Path),
			logger.Error(res.Err),
		)
	} else {
		metrics.RecordBatchJob(metrics.OutcomeOK)
		w.logger.Debug(ctx, "batch job done",
			logger.String("worker", w.name),
			logger.String("path", job.Path),
			logger.Duration("elapsed", res.Elapsed),
		)
	}
	return w.sink.Emit(ctx, res)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	wg      sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses the
// number of CPUs.
func NewPool(ctx context.Context, workerCount int, q Queue, analyzer Analyzer, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	// The pool logs through the logger given to its workers.
	tmpl := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(tmpl)
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  tmpl.logger.Named("worker-pool"),
	}

	jobs := q.Dequeue(ctx)
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(jobs, analyzer, sink, wopts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
	p.logger.Debug(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Shutdown closes the queue when it supports it and waits for the workers.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for _, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
