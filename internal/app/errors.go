package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/criatividade/internal/domain/dataset"
)

// Pipeline stages, in execution order.
const (
	StageLoad      = "load"
	StageFilter    = "filter"
	StageClean     = "clean"
	StageAggregate = "aggregate"
	StageRender    = "render"
)

// Stages lists every pipeline stage.
var Stages = []string{StageLoad, StageFilter, StageClean, StageAggregate, StageRender}

// Error codes reported to clients and metrics.
const (
	CodeDecode           = "decode_error"
	CodeStructuralParse  = "structural_parse_error"
	CodeColumnConversion = "column_conversion_error"
	CodeMissingColumn    = "missing_column"
	CodeCancelled        = "cancelled"
	CodeInternal         = "internal_error"
)

// StageError is a pipeline failure tagged with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Code classifies the wrapped error.
func (e *StageError) Code() string { return ErrorCode(e.Err) }

// ErrorCode maps a pipeline error onto its taxonomy code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, dataset.ErrDecode):
		return CodeDecode
	case errors.Is(err, dataset.ErrStructuralParse):
		return CodeStructuralParse
	case errors.Is(err, dataset.ErrColumnConversion):
		return CodeColumnConversion
	case errors.Is(err, dataset.ErrMissingColumn):
		return CodeMissingColumn
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	default:
		return CodeInternal
	}
}
