package aggregate

import (
	"sort"

	"github.com/okian/criatividade/internal/domain/dataset"
)

// CreativityDistribution counts rows per creativity level, largest first.
func CreativityDistribution(t dataset.Table) ([]CategoryCount, error) {
	groups, err := groupRows(t, dataset.ColCriatividade)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryCount, len(groups))
	for i, g := range groups {
		out[i] = CategoryCount{Criatividade: g.keys[0], Count: len(g.rows)}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out, nil
}

// CreativityMatrix counts rows per (leader, level) and expresses each count
// as a percentage of the leader's rows.
func CreativityMatrix(t dataset.Table) ([]CreativityShare, error) {
	groups, err := groupRows(t, dataset.ColLider, dataset.ColCriatividade)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int)
	for _, g := range groups {
		totals[g.keys[0]] += len(g.rows)
	}
	out := make([]CreativityShare, len(groups))
	for i, g := range groups {
		n := len(g.rows)
		out[i] = CreativityShare{
			Lider:        g.keys[0],
			Criatividade: g.keys[1],
			Count:        n,
			Percentage:   float64(n) / float64(totals[g.keys[0]]) * 100,
		}
	}
	return out, nil
}
