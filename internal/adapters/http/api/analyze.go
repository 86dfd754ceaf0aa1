package api

import "net/http"

// AnalyzeHandler serves POST /api/analyze.
type AnalyzeHandler struct {
	uploadHandler
}

// HandleAnalyze returns the dashboard JSON for the uploaded file.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	d, ok := h.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d)
}
