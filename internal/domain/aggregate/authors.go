package aggregate

import (
	"math"

	"github.com/go-gota/gota/series"
	"github.com/okian/criatividade/internal/domain/dataset"
)

// AuthorSummary sums total_msgs and averages repetition_rate per author, then
// takes the median of both columns across authors.
func AuthorSummary(t dataset.Table) (AuthorMetrics, error) {
	if err := requireCleaned(t); err != nil {
		return AuthorMetrics{}, err
	}
	if err := t.Require(dataset.ColTotalMsgs); err != nil {
		return AuthorMetrics{}, err
	}
	groups, err := groupRows(t, dataset.ColAuthor)
	if err != nil {
		return AuthorMetrics{}, err
	}

	df := t.Frame()
	authors := make([]AuthorMetric, len(groups))
	totals := make([]int, len(groups))
	means := make([]float64, len(groups))
	for i, g := range groups {
		sub := df.Subset(g.rows)
		msgs, err := sub.Col(dataset.ColTotalMsgs).Int()
		if err != nil {
			return AuthorMetrics{}, &dataset.ConversionError{Column: dataset.ColTotalMsgs, Err: err}
		}
		sum := 0
		for _, m := range msgs {
			sum += m
		}
		totals[i] = sum
		means[i] = sub.Col(dataset.ColRepetitionRate).Mean()
		authors[i] = AuthorMetric{Author: g.keys[0], TotalMsgs: sum, RepetitionRate: means[i]}
	}

	return AuthorMetrics{
		Authors:              authors,
		MedianTotalMsgs:      median(series.Ints(totals)),
		MedianRepetitionRate: median(series.Floats(means)),
	}, nil
}

func median(s series.Series) float64 {
	if s.Len() == 0 {
		return 0
	}
	m := s.Median()
	if math.IsNaN(m) {
		return 0
	}
	return m
}
