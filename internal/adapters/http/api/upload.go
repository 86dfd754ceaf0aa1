package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/pkg/logger"
)

// Multipart form fields.
const (
	FieldFile   = "file"
	FieldFilter = "filter"
	FieldLider  = "lider"

	multipartMemory = 8 << 20
)

type uploadHandler struct {
	deps     Analyzer
	maxBytes int64
	logger   logger.Logger
}

// analyze parses the form and runs the pipeline. On failure it has already
// written the error response and returns false.
func (h uploadHandler) analyze(w http.ResponseWriter, r *http.Request) (*app.Dashboard, bool) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return nil, false
	}

	u, err := h.parse(w, r)
	if err != nil {
		status, code := http.StatusBadRequest, "bad_request"
		if errors.Is(err, ErrTooLarge) {
			status, code = http.StatusRequestEntityTooLarge, "too_large"
		}
		writeError(w, status, code, err)
		return nil, false
	}

	d, err := h.deps.Analyze(r.Context(), u)
	if err != nil {
		h.logger.Warn(r.Context(), "analysis rejected",
			logger.String("path", r.URL.Path),
			logger.String("file", u.FileName),
			logger.Error(err))
		writePipelineError(w, err)
		return nil, false
	}
	return d, true
}

func (h uploadHandler) parse(w http.ResponseWriter, r *http.Request) (app.Upload, error) {
	if r.ContentLength > h.maxBytes {
		return app.Upload{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, h.maxBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return app.Upload{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, mbe.Limit)
		}
		return app.Upload{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile(FieldFile)
	if err != nil {
		return app.Upload{}, ErrMissingFile
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return app.Upload{}, fmt.Errorf("%w: read %s: %v", ErrBadRequest, hdr.Filename, err)
	}

	u := app.Upload{FileName: hdr.Filename, Data: data}
	if filterOn(r.FormValue(FieldFilter)) {
		u.Selection = append([]string{}, r.MultipartForm.Value[FieldLider]...)
	}
	return u, nil
}

func filterOn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
