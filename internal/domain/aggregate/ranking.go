package aggregate

import (
	"sort"

	"github.com/okian/criatividade/internal/domain/dataset"
)

// LowestRepetition returns the n rows with the smallest repetition_rate.
// Ties keep their original order.
func LowestRepetition(t dataset.Table, n int) ([]dataset.Row, error) {
	return ranked(t, n, false)
}

// HighestRepetition returns the n rows with the largest repetition_rate.
// Ties keep their original order.
func HighestRepetition(t dataset.Table, n int) ([]dataset.Row, error) {
	return ranked(t, n, true)
}

func ranked(t dataset.Table, n int, desc bool) ([]dataset.Row, error) {
	if err := requireCleaned(t); err != nil {
		return nil, err
	}
	rows, err := t.Rows()
	if err != nil {
		return nil, err
	}
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rows[order[a]].RepetitionRate, rows[order[b]].RepetitionRate
		if desc {
			return ra > rb
		}
		return ra < rb
	})
	if n < 0 {
		n = 0
	}
	if n > len(order) {
		n = len(order)
	}
	out := make([]dataset.Row, n)
	for i := range out {
		out[i] = rows[order[i]]
	}
	return out, nil
}
