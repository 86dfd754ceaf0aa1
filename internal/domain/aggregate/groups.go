package aggregate

import (
	"sort"
	"strings"

	"github.com/okian/criatividade/internal/domain/dataset"
)

type group struct {
	keys []string
	rows []int
}

// groupRows buckets row positions by the values of cols. Rows with a missing
// key are left out. Groups are sorted by their keys.
func groupRows(t dataset.Table, cols ...string) ([]group, error) {
	columns := make([][]string, len(cols))
	for i, c := range cols {
		vals, err := t.Texts(c)
		if err != nil {
			return nil, err
		}
		columns[i] = vals
	}

	index := make(map[string]int)
	var groups []group
rows:
	for r := 0; r < t.Nrow(); r++ {
		keys := make([]string, len(cols))
		for i := range cols {
			v := columns[i][r]
			if dataset.IsMissing(v) {
				continue rows
			}
			keys[i] = v
		}
		k := strings.Join(keys, "\x00")
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, group{keys: keys})
		}
		groups[gi].rows = append(groups[gi].rows, r)
	}

	sort.Slice(groups, func(a, b int) bool {
		ka, kb := groups[a].keys, groups[b].keys
		for i := range ka {
			if ka[i] != kb[i] {
				return ka[i] < kb[i]
			}
		}
		return false
	})
	return groups, nil
}

func requireCleaned(t dataset.Table) error {
	if err := t.Require(dataset.ColRepetitionRate); err != nil {
		return err
	}
	if !t.Cleaned() {
		return dataset.ErrNotCleaned
	}
	return nil
}
