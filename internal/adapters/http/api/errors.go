package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMissingFile      = errors.New("missing file field")
	ErrTooLarge         = errors.New("upload too large")
	ErrMethodNotAllowed = errors.New("method not allowed")
)
