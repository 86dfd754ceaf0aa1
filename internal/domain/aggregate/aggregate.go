// Package aggregate derives the dashboard tables from a cleaned dataset.
//
// Every function is pure: it reads the table and returns freshly allocated
// values, so a derived table never shares storage with its input or with
// another derived table.
package aggregate

import (
	"github.com/okian/criatividade/internal/domain/dataset"
)

// DefaultTopN is the size of the ranking tables.
const DefaultTopN = 10

// CategoryCount is one bar of the creativity distribution.
type CategoryCount struct {
	Criatividade string `json:"criatividade"`
	Count        int    `json:"count"`
}

// LeaderAverage is the mean repetition rate of one leader's rows.
type LeaderAverage struct {
	Lider          string  `json:"lider"`
	RepetitionRate float64 `json:"repetition_rate"`
}

// CreativityShare is the share of one creativity level inside a leader's team.
type CreativityShare struct {
	Lider        string  `json:"lider"`
	Criatividade string  `json:"criatividade"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

// AuthorMetric is the message volume and mean repetition rate of one author.
type AuthorMetric struct {
	Author         string  `json:"author"`
	TotalMsgs      int     `json:"total_msgs"`
	RepetitionRate float64 `json:"repetition_rate"`
}

// AuthorMetrics holds the per-author summary and the medians drawn as guide lines.
type AuthorMetrics struct {
	Authors              []AuthorMetric `json:"authors"`
	MedianTotalMsgs      float64        `json:"median_total_msgs"`
	MedianRepetitionRate float64        `json:"median_repetition_rate"`
}

// Tables bundles the six derived tables of one upload.
type Tables struct {
	Distribution   []CategoryCount   `json:"creativity_distribution"`
	LeaderAverages []LeaderAverage   `json:"avg_repetition_by_leader"`
	Matrix         []CreativityShare `json:"creativity_matrix"`
	Lowest         []dataset.Row     `json:"lowest_repetition"`
	Highest        []dataset.Row     `json:"highest_repetition"`
	Authors        AuthorMetrics     `json:"author_metrics"`
}

// Compute derives all six tables. topN <= 0 falls back to DefaultTopN.
// The first failing table aborts the whole computation.
func Compute(t dataset.Table, topN int) (Tables, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	var (
		out Tables
		err error
	)
	if out.Distribution, err = CreativityDistribution(t); err != nil {
		return Tables{}, err
	}
	if out.LeaderAverages, err = AvgRepetitionByLeader(t); err != nil {
		return Tables{}, err
	}
	if out.Matrix, err = CreativityMatrix(t); err != nil {
		return Tables{}, err
	}
	if out.Lowest, err = LowestRepetition(t, topN); err != nil {
		return Tables{}, err
	}
	if out.Highest, err = HighestRepetition(t, topN); err != nil {
		return Tables{}, err
	}
	if out.Authors, err = AuthorSummary(t); err != nil {
		return Tables{}, err
	}
	return out, nil
}
