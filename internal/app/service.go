// Package app runs the creativity analysis pipeline for one upload at a time.
package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/criatividade/internal/domain/aggregate"
	"github.com/okian/criatividade/internal/domain/chart"
	"github.com/okian/criatividade/internal/domain/dataset"
	"github.com/okian/criatividade/pkg/logger"
	"github.com/okian/criatividade/pkg/metrics"
)

const defaultPreviewRows = 5

// Service analyzes uploads. It keeps counters only, never uploaded data.
type Service struct {
	// Configuration
	topN        int
	previewRows int
	delimiter   rune

	// Counters
	startedAt time.Time
	uploads   atomic.Int64
	succeeded atomic.Int64
	lastRows  atomic.Int64
	failures  map[string]*atomic.Int64

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

// WithTopN bounds the lowest/highest repetition rankings.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithPreviewRows sets how many raw rows the dashboard previews.
func WithPreviewRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.previewRows = n
		}
	}
}

// WithDelimiter sets the CSV field separator.
func WithDelimiter(d rune) Option {
	return func(s *Service) {
		if d != 0 {
			s.delimiter = d
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topN:        aggregate.DefaultTopN,
		previewRows: defaultPreviewRows,
		delimiter:   dataset.DefaultDelimiter,
		startedAt:   time.Now(),
		failures:    make(map[string]*atomic.Int64, len(Stages)),
		logger:      logger.Nop(),
	}
	for _, st := range Stages {
		s.failures[st] = new(atomic.Int64)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TopN returns the ranking size in use.
func (s *Service) TopN() int { return s.topN }

// Analyze runs load, filter, clean, aggregate and render over u.
// On failure it returns a *StageError and no dashboard.
func (s *Service) Analyze(ctx context.Context, u Upload) (*Dashboard, error) {
	sess, err := s.Run(ctx, u)
	if err != nil {
		return nil, err
	}
	return sess.dashboard(s.previewRows), nil
}

// Run executes the pipeline and returns the populated session.
func (s *Service) Run(ctx context.Context, u Upload) (*Session, error) {
	sess := newSession(u)
	s.uploads.Add(1)
	metrics.RecordUploadSize(sess.Size)

	log := s.logger.Named("pipeline")
	log.Info(ctx, "analysis started",
		logger.String("session", sess.ID),
		logger.String("file", sess.FileName),
		logger.Int("bytes", sess.Size),
		logger.Bool("filtered", u.Selection != nil))

	steps := []struct {
		stage string
		run   func() error
	}{
		{StageLoad, func() error { return s.load(ctx, sess, u.Data) }},
		{StageFilter, func() error { return s.filter(sess, u.Selection) }},
		{StageClean, func() error { return s.clean(sess) }},
		{StageAggregate, func() error { return s.aggregate(sess) }},
		{StageRender, func() error { sess.Charts = chart.Build(sess.Tables); return nil }},
	}
	for _, step := range steps {
		if err := s.stage(ctx, log, sess, step.stage, step.run); err != nil {
			metrics.RecordUpload(metrics.OutcomeError)
			return nil, err
		}
	}

	s.succeeded.Add(1)
	s.lastRows.Store(int64(sess.Raw.Nrow()))
	metrics.RecordUpload(metrics.OutcomeOK)
	metrics.UpdateDatasetRows(sess.Raw.Nrow(), sess.Filtered.Nrow())
	metrics.UpdateSelectedLeaders(len(sess.Selection))

	log.Info(ctx, "analysis finished",
		logger.String("session", sess.ID),
		logger.Int("rows", sess.Raw.Nrow()),
		logger.Int("filtered_rows", sess.Filtered.Nrow()),
		logger.Duration("took", time.Since(sess.StartedAt)))
	return sess, nil
}

func (s *Service) stage(ctx context.Context, log logger.Logger, sess *Session, name string, run func() error) error {
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = run()
	}
	took := time.Since(start)
	metrics.RecordStageLatency(name, took)

	if err != nil {
		se := &StageError{Stage: name, Err: err}
		s.failures[name].Add(1)
		metrics.RecordStageError(name, se.Code())
		log.Warn(ctx, "stage failed",
			logger.String("session", sess.ID),
			logger.String("stage", name),
			logger.String("code", se.Code()),
			logger.Duration("took", took),
			logger.Error(err))
		return se
	}

	log.Debug(ctx, "stage done",
		logger.String("session", sess.ID),
		logger.String("stage", name),
		logger.Duration("took", took))
	return nil
}

func (s *Service) load(ctx context.Context, sess *Session, data []byte) error {
	t, err := dataset.Load(ctx, data, dataset.WithDelimiter(s.delimiter))
	if err != nil {
		return err
	}
	if t.Encoding() != dataset.EncodingUTF8 {
		metrics.RecordEncodingFallback()
	}
	sess.Raw = t
	return nil
}

func (s *Service) filter(sess *Session, requested []string) error {
	leaders, err := dataset.Leaders(sess.Raw)
	if err != nil {
		return err
	}
	sess.Leaders = leaders
	sess.Selection = effectiveSelection(leaders, requested)
	if requested == nil {
		sess.Filtered = sess.Raw
		return nil
	}

	t, err := dataset.Filter(sess.Raw, sess.Selection)
	if err != nil {
		return err
	}
	sess.Filtered = t
	return nil
}

func (s *Service) clean(sess *Session) error {
	t, err := dataset.Clean(sess.Filtered)
	if err != nil {
		return err
	}
	sess.Cleaned = t
	return nil
}

func (s *Service) aggregate(sess *Session) error {
	tables, err := aggregate.Compute(sess.Cleaned, s.topN)
	if err != nil {
		return err
	}
	sess.Tables = tables
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	failures := make(map[string]int64, len(s.failures))
	for st, c := range s.failures {
		failures[st] = c.Load()
	}
	return map[string]interface{}{
		"uploads":       s.uploads.Load(),
		"succeeded":     s.succeeded.Load(),
		"failures":      failures,
		"lastRowCount":  s.lastRows.Load(),
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
		"topN":          s.topN,
		"previewRows":   s.previewRows,
	}
}
