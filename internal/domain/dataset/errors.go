package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds for the pipeline stages. Callers match them with errors.Is.
var (
	ErrDecode           = errors.New("decode error")
	ErrStructuralParse  = errors.New("structural parse error")
	ErrColumnConversion = errors.New("column conversion error")
	ErrMissingColumn    = errors.New("missing column")
	ErrNotCleaned       = errors.New("table not cleaned")
)

// MissingColumnError lists required columns absent from a table.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column: %s", strings.Join(e.Columns, ", "))
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// ConversionError describes the first cell of a column that could not be converted.
// Row is the 1-based data row, header excluded.
type ConversionError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("column conversion error: %s row %d: cannot parse %q: %v", e.Column, e.Row, e.Value, e.Err)
}

// Is reports whether target is ErrColumnConversion.
func (e *ConversionError) Is(target error) bool { return target == ErrColumnConversion }

func (e *ConversionError) Unwrap() error { return e.Err }
