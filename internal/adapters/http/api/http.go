// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/pkg/logger"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

// Analyzer runs the pipeline over one upload.
type Analyzer interface {
	Analyze(ctx context.Context, u app.Upload) (*app.Dashboard, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	analyzeHandler *AnalyzeHandler
	exportHandler  *ExportHandler
}

type options struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// Option configures the Server.
type Option func(*options)

// WithMaxUploadBytes caps the multipart body size.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Analyzer, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{maxUploadBytes: DefaultMaxUploadBytes, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	up := uploadHandler{deps: deps, maxBytes: o.maxUploadBytes, logger: o.logger}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		analyzeHandler: &AnalyzeHandler{uploadHandler: up},
		exportHandler:  &ExportHandler{uploadHandler: up},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/api/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
}

// writePipelineError reports a failed analysis with its stage and code.
func writePipelineError(w http.ResponseWriter, err error) {
	var se *app.StageError
	if !errors.As(err, &se) {
		writeError(w, http.StatusInternalServerError, app.CodeInternal, err)
		return
	}
	status := http.StatusUnprocessableEntity
	switch se.Code() {
	case app.CodeCancelled:
		status = http.StatusServiceUnavailable
	case app.CodeInternal:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{Code: se.Code(), Stage: se.Stage, Message: se.Err.Error()})
}
