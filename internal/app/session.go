package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/criatividade/internal/domain/aggregate"
	"github.com/okian/criatividade/internal/domain/chart"
	"github.com/okian/criatividade/internal/domain/dataset"
)

// Upload is one file submitted for analysis.
type Upload struct {
	FileName string
	Data     []byte
	// Selection lists the leaders to keep. Nil keeps all of them; a non-nil
	// empty slice keeps none.
	Selection []string
}

// Session carries the state of a single analysis. It lives for one request.
type Session struct {
	ID        string
	FileName  string
	Size      int
	StartedAt time.Time

	Raw       dataset.Table
	Filtered  dataset.Table
	Cleaned   dataset.Table
	Leaders   []string
	Selection []string
	Tables    aggregate.Tables
	Charts    []chart.Chart
}

func newSession(u Upload) *Session {
	return &Session{
		ID:        uuid.NewString(),
		FileName:  u.FileName,
		Size:      len(u.Data),
		StartedAt: time.Now(),
	}
}

// Dashboard is the rendered result of an analysis.
type Dashboard struct {
	SessionID    string           `json:"session_id"`
	FileName     string           `json:"file_name"`
	Encoding     string           `json:"encoding"`
	RawRows      int              `json:"raw_rows"`
	FilteredRows int              `json:"filtered_rows"`
	Preview      dataset.Preview  `json:"preview"`
	Leaders      []string         `json:"leaders"`
	Selection    []string         `json:"selection"`
	Tables       aggregate.Tables `json:"tables"`
	Charts       []chart.Chart    `json:"charts"`
}

func (s *Session) dashboard(previewRows int) *Dashboard {
	return &Dashboard{
		SessionID:    s.ID,
		FileName:     s.FileName,
		Encoding:     s.Raw.Encoding(),
		RawRows:      s.Raw.Nrow(),
		FilteredRows: s.Filtered.Nrow(),
		Preview:      s.Raw.Head(previewRows),
		Leaders:      s.Leaders,
		Selection:    s.Selection,
		Tables:       s.Tables,
		Charts:       s.Charts,
	}
}

// effectiveSelection resolves the requested leaders against the available
// ones, in leader order.
func effectiveSelection(leaders, requested []string) []string {
	if requested == nil {
		return append([]string{}, leaders...)
	}
	want := make(map[string]struct{}, len(requested))
	for _, r := range requested {
		want[r] = struct{}{}
	}
	out := []string{}
	for _, l := range leaders {
		if _, ok := want[l]; ok {
			out = append(out, l)
		}
	}
	return out
}
