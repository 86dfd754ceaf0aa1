package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/criatividade/internal/adapters/mq/queue"
	"github.com/okian/criatividade/internal/adapters/mq/worker"
	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/pkg/logger"
)

var errBrokenFile = errors.New("broken file")

type mockAnalyzer struct {
	mu    sync.Mutex
	calls []app.Upload
}

func (m *mockAnalyzer) Analyze(_ context.Context, u app.Upload) (*app.Dashboard, error) {
	m.mu.Lock()
	m.calls = append(m.calls, u)
	m.mu.Unlock()
	if string(u.Data) == "broken" {
		return nil, errBrokenFile
	}
	return &app.Dashboard{FileName: u.FileName, RawRows: len(u.Data)}, nil
}

type collectingSink struct {
	mu      sync.Mutex
	results []worker.Result
	err     error
}

func (s *collectingSink) Emit(_ context.Context, r worker.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return s.err
}

func (s *collectingSink) sorted() []worker.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]worker.Result(nil), s.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].Job.Index < out[j].Job.Index })
	return out
}

// recordingLogger keeps the messages logged through it.
type recordingLogger struct {
	mu   *sync.Mutex
	msgs *[]string
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{mu: &sync.Mutex{}, msgs: &[]string{}}
}

func (l recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.msgs = append(*l.msgs, msg)
}

func (l recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), *l.msgs...)
}

func (l recordingLogger) Info(_ context.Context, msg string, _ ...logger.Field)  { l.record(msg) }
func (l recordingLogger) Error(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l recordingLogger) Debug(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l recordingLogger) Warn(_ context.Context, msg string, _ ...logger.Field)  { l.record(msg) }
func (l recordingLogger) Fatal(_ context.Context, msg string, _ ...logger.Field) { l.record(msg) }
func (l recordingLogger) Named(string) logger.Logger                            { return l }

func files(contents map[string]string) worker.ReadFunc {
	return func(path string) ([]byte, error) {
		c, ok := contents[path]
		if !ok {
			return nil, fmt.Errorf("open %s: no such file", path)
		}
		return []byte(c), nil
	}
}

func TestPool(t *testing.T) {
	convey.Convey("Given a queue of batch jobs", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		analyzer := &mockAnalyzer{}
		sink := &collectingSink{}
		read := files(map[string]string{
			"in/a.csv": "aaaa",
			"in/b.csv": "broken",
			"in/c.csv": "cc",
		})

		for i, p := range []string{"in/a.csv", "in/b.csv", "in/c.csv", "in/missing.csv"} {
			convey.So(q.Enqueue(ctx, queue.Job{Index: i, Path: p, Selection: []string{"Ana"}}), convey.ShouldBeTrue)
		}
		convey.So(q.Close(), convey.ShouldBeNil)

		convey.Convey("When the pool drains it", func() {
			pool := worker.NewPool(ctx, 3, q, analyzer, sink,
				worker.WithReader(read),
				worker.WithLogger(logger.Nop()),
			)
			convey.So(pool.Size(), convey.ShouldEqual, 3)
			pool.Start(ctx)
			pool.Wait()

			convey.Convey("Then every job is emitted once", func() {
				results := sink.sorted()
				convey.So(results, convey.ShouldHaveLength, 4)
				for i, r := range results {
					convey.So(r.Job.Index, convey.ShouldEqual, i)
				}
			})

			convey.Convey("Then successful jobs carry a dashboard named after the file", func() {
				results := sink.sorted()
				convey.So(results[0].Err, convey.ShouldBeNil)
				convey.So(results[0].Dashboard.FileName, convey.ShouldEqual, "a.csv")
				convey.So(results[0].Dashboard.RawRows, convey.ShouldEqual, 4)
				convey.So(results[2].Dashboard.FileName, convey.ShouldEqual, "c.csv")
			})

			convey.Convey("Then failures keep their cause", func() {
				results := sink.sorted()
				convey.So(errors.Is(results[1].Err, errBrokenFile), convey.ShouldBeTrue)
				convey.So(results[1].Dashboard, convey.ShouldBeNil)
				convey.So(results[3].Err, convey.ShouldNotBeNil)
				convey.So(results[3].Err.Error(), convey.ShouldContainSubstring, "in/missing.csv")
			})

			convey.Convey("Then the selection reaches the analyzer", func() {
				analyzer.mu.Lock()
				defer analyzer.mu.Unlock()
				convey.So(analyzer.calls, convey.ShouldHaveLength, 3)
				for _, u := range analyzer.calls {
					convey.So(u.Selection, convey.ShouldResemble, []string{"Ana"})
				}
			})
		})
	})
}

func TestPoolSinkErrors(t *testing.T) {
	convey.Convey("Given a sink that rejects results", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue()
		sink := &collectingSink{err: errors.New("disk full")}
		convey.So(q.Enqueue(ctx, queue.Job{Path: "a.csv"}), convey.ShouldBeTrue)
		convey.So(q.Enqueue(ctx, queue.Job{Index: 1, Path: "b.csv"}), convey.ShouldBeTrue)
		convey.So(q.Close(), convey.ShouldBeNil)

		pool := worker.NewPool(ctx, 1, q, &mockAnalyzer{}, sink,
			worker.WithReader(files(map[string]string{"a.csv": "x", "b.csv": "y"})),
			worker.WithLogger(logger.Nop()),
		)
		pool.Start(ctx)
		pool.Wait()

		convey.Convey("Then the worker keeps going", func() {
			convey.So(sink.sorted(), convey.ShouldHaveLength, 2)
		})
	})
}

func TestPoolShutdown(t *testing.T) {
	convey.Convey("Given a pool waiting on an open queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(ctx, 2, q, &mockAnalyzer{}, &collectingSink{},
			worker.WithLogger(logger.Nop()),
		)
		pool.Start(ctx)

		convey.Convey("When it is shut down", func() {
			sctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := pool.Shutdown(sctx)

			convey.Convey("Then the workers stop and the queue is closed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				pool.Wait()
			})
		})
	})

	convey.Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewInMemoryQueue()
		pool := worker.NewPool(ctx, 2, q, &mockAnalyzer{}, &collectingSink{},
			worker.WithLogger(logger.Nop()),
		)
		pool.Start(ctx)
		cancel()

		convey.Convey("Then Wait returns", func() {
			pool.Wait()
			convey.So(q.IsClosed(), convey.ShouldBeFalse)
		})
	})
}

func TestPoolLogger(t *testing.T) {
	convey.Convey("Given no global logger has been initialised", t, func() {
		ctx := context.Background()

		convey.Convey("Then building workers and pools without a logger does not panic", func() {
			convey.So(func() {
				worker.NewInMemoryWorker(make(chan queue.Job), &mockAnalyzer{}, &collectingSink{})
			}, convey.ShouldNotPanic)
			convey.So(func() {
				q := queue.NewInMemoryQueue()
				_ = q.Close()
				worker.NewPool(ctx, 1, q, &mockAnalyzer{}, &collectingSink{}).Wait()
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When a job fails with a logger option", func() {
			rec := newRecordingLogger()
			q := queue.NewInMemoryQueue()
			convey.So(q.Enqueue(ctx, queue.Job{Path: "gone.csv"}), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)

			pool := worker.NewPool(ctx, 1, q, &mockAnalyzer{}, &collectingSink{},
				worker.WithReader(files(nil)),
				worker.WithLogger(rec),
			)
			pool.Start(ctx)
			pool.Wait()

			convey.Convey("Then the failure is logged through it", func() {
				convey.So(rec.messages(), convey.ShouldContain, "batch job failed")
			})
		})
	})
}
