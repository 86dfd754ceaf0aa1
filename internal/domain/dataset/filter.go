package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Leaders returns the sorted distinct non-missing lider values.
func Leaders(t Table) ([]string, error) {
	return Distinct(t, ColLider)
}

// Filter keeps the rows whose lider is in selected, preserving row order.
//
// An empty selection yields a zero-row table. A selection covering every
// available leader returns t itself.
func Filter(t Table, selected []string) (Table, error) {
	leaders, err := Leaders(t)
	if err != nil {
		return Table{}, err
	}
	known := make(map[string]struct{}, len(leaders))
	for _, l := range leaders {
		known[l] = struct{}{}
	}
	chosen := make(map[string]struct{}, len(selected))
	keep := make([]string, 0, len(selected))
	for _, s := range selected {
		if _, ok := known[s]; !ok {
			continue
		}
		if _, dup := chosen[s]; dup {
			continue
		}
		chosen[s] = struct{}{}
		keep = append(keep, s)
	}

	switch {
	case len(keep) == 0:
		return t.Subset([]int{}), nil
	case len(keep) == len(leaders):
		return t, nil
	}

	df := t.df.Filter(dataframe.F{
		Colname:    ColLider,
		Comparator: series.In,
		Comparando: keep,
	})
	if df.Err != nil {
		return Table{}, fmt.Errorf("filter %s: %w", ColLider, df.Err)
	}
	return t.with(df), nil
}
