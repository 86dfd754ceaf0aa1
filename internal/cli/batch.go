package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/criatividade/internal/adapters/mq/queue"
	"github.com/okian/criatividade/internal/adapters/mq/worker"
	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/pkg/logger"
	"github.com/okian/criatividade/pkg/metrics"
)

var errBatchFailed = errors.New("batch had failed files")

type batchOptions struct {
	leaders   []string
	top       int
	delimiter string
	format    string
	outDir    string
	workers   int
}

func newBatchCommand(root *rootOptions) *cobra.Command {
	o := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <file.csv>...",
		Short: "Analyze several CSV files concurrently and write one report per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch o.format {
			case formatMarkdown, formatJSON, formatXLSX:
			default:
				return fmt.Errorf("unsupported --format: %q", o.format)
			}
			if err := uniqueBaseNames(args); err != nil {
				return err
			}
			svc, err := newService(cmd, root.cfg, o.top, o.delimiter)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(o.outDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", o.outDir, err)
			}

			ctx := cmd.Context()
			q := queue.NewInMemoryQueue(queue.WithCapacity(len(args)))
			sel := selection(cmd, o.leaders)
			for i, p := range args {
				if !q.Enqueue(ctx, queue.Job{Index: i, Path: p, Selection: sel}) {
					if err := ctx.Err(); err != nil {
						return err
					}
					return fmt.Errorf("enqueue %s: queue rejected the job", p)
				}
			}
			if err := q.Close(); err != nil {
				return err
			}

			sink := newFileSink(o.outDir, o.format, len(args))
			log := logger.Get().Named("batch")
			pool := worker.NewPool(ctx, o.workers, q, svc, sink, worker.WithLogger(log))
			log.Info(ctx, "batch started",
				logger.Int("files", len(args)),
				logger.Int("workers", pool.Size()),
			)
			pool.Start(ctx)
			pool.Wait()
			if err := ctx.Err(); err != nil {
				return err
			}

			failed, err := sink.summary(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errBatchFailed, failed, len(args))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&o.leaders, "lider", nil, "leader to keep; repeat for several (default: all)")
	f.IntVar(&o.top, "top", 10, "rows in the lowest/highest repetition rankings")
	f.StringVar(&o.delimiter, "delimiter", ";", "field separator: ; , tab |")
	f.StringVar(&o.format, "format", formatMarkdown, "report format: markdown, json or xlsx")
	f.StringVarP(&o.outDir, "out-dir", "o", "", "directory for the reports")
	f.IntVar(&o.workers, "workers", 0, "concurrent analyses (default: number of CPUs)")
	_ = cmd.MarkFlagRequired("out-dir")
	return cmd
}

// uniqueBaseNames rejects inputs whose reports would overwrite each other.
func uniqueBaseNames(paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		stem := reportStem(p)
		if prev, ok := seen[stem]; ok {
			return fmt.Errorf("%s and %s would write the same report", prev, p)
		}
		seen[stem] = p
	}
	return nil
}

func reportStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var reportExt = map[string]string{ //nolint:gochecknoglobals // lookup table
	formatMarkdown: ".md",
	formatJSON:     ".json",
	formatXLSX:     ".xlsx",
}

type fileResult struct {
	worker.Result
	out string
}

// fileSink writes each successful dashboard to its own file and keeps the
// results in command-line order.
type fileSink struct {
	dir    string
	format string

	mu      sync.Mutex
	results []fileResult
}

func newFileSink(dir, format string, n int) *fileSink {
	return &fileSink{dir: dir, format: format, results: make([]fileResult, n)}
}

func (s *fileSink) Emit(_ context.Context, r worker.Result) error {
	fr := fileResult{Result: r}
	var err error
	if r.Err == nil {
		fr.out = filepath.Join(s.dir, reportStem(r.Job.Path)+reportExt[s.format])
		if err = writeFile(fr.out, s.format, r.Dashboard); err != nil {
			fr.Err = err
		} else {
			metrics.RecordExport(s.format)
		}
	}

	s.mu.Lock()
	s.results[r.Job.Index] = fr
	s.mu.Unlock()
	return err
}

// summary prints one line per input and returns how many failed.
func (s *fileSink) summary(w io.Writer) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	failed := 0
	for _, r := range s.results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Job.Path, app.ErrorCode(r.Err), r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\tok\t%d/%d rows\t%s\n", r.Job.Path, r.Dashboard.FilteredRows, r.Dashboard.RawRows, r.out)
	}
	return failed, tw.Flush()
}
