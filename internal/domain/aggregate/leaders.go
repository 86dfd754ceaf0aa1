package aggregate

import (
	"github.com/okian/criatividade/internal/domain/dataset"
)

// AvgRepetitionByLeader averages repetition_rate over each leader's rows.
// Leaders without rows do not appear.
func AvgRepetitionByLeader(t dataset.Table) ([]LeaderAverage, error) {
	if err := requireCleaned(t); err != nil {
		return nil, err
	}
	groups, err := groupRows(t, dataset.ColLider)
	if err != nil {
		return nil, err
	}
	df := t.Frame()
	out := make([]LeaderAverage, len(groups))
	for i, g := range groups {
		rates := df.Subset(g.rows).Col(dataset.ColRepetitionRate)
		out[i] = LeaderAverage{Lider: g.keys[0], RepetitionRate: rates.Mean()}
	}
	return out, nil
}
