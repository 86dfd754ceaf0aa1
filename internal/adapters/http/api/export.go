package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/okian/criatividade/internal/adapters/export"
	"github.com/okian/criatividade/pkg/logger"
	"github.com/okian/criatividade/pkg/metrics"
)

// ExportHandler serves POST /api/export.
type ExportHandler struct {
	uploadHandler
}

// HandleExport returns the derived tables as an xlsx workbook.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	d, ok := h.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, d); err != nil {
		h.logger.Error(r.Context(), "export failed", logger.String("session", d.SessionID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "export_error", err)
		return
	}
	metrics.RecordExport("xlsx")

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="criatividade-%s.xlsx"`, d.SessionID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
