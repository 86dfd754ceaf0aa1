// Package export renders an analyzed dashboard as an Excel workbook or a
// Markdown report.
package export

import (
	"strings"

	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/internal/domain/chart"
	"github.com/okian/criatividade/internal/domain/dataset"
)

// Sheet names. Excel caps them at 31 characters.
const (
	SheetSummary      = "Resumo"
	SheetDistribution = "Distribuição"
	SheetLeaders      = "Repetição por Líder"
	SheetMatrix       = "Matriz Criatividade"
	SheetLowest       = "Menor Repetição"
	SheetHighest      = "Maior Repetição"
	SheetAuthors      = "Métricas Autores"
)

// table is one derived table flattened to a header and cell rows.
type table struct {
	name   string
	title  string
	header []string
	rows   [][]any
}

var rowHeader = []string{
	dataset.ColLider, dataset.ColAuthor, dataset.ColCriatividade,
	dataset.ColTotalMsgs, dataset.ColRepetitionRate,
}

func summary(d *app.Dashboard) table {
	return table{
		name:   SheetSummary,
		title:  "Resumo",
		header: []string{"campo", "valor"},
		rows: [][]any{
			{"arquivo", d.FileName},
			{"sessão", d.SessionID},
			{"codificação", d.Encoding},
			{"linhas", d.RawRows},
			{"linhas filtradas", d.FilteredRows},
			{"líderes", strings.Join(d.Leaders, ", ")},
			{"seleção", strings.Join(d.Selection, ", ")},
			{"mediana total_msgs", d.Tables.Authors.MedianTotalMsgs},
			{"mediana repetition_rate", d.Tables.Authors.MedianRepetitionRate},
		},
	}
}

// tables flattens the six derived tables in dashboard order.
func tables(d *app.Dashboard) []table {
	t := d.Tables
	out := make([]table, 0, 6)

	dist := table{name: SheetDistribution, title: chart.TitleDistribution, header: []string{dataset.ColCriatividade, "count"}}
	for _, r := range t.Distribution {
		dist.rows = append(dist.rows, []any{r.Criatividade, r.Count})
	}
	out = append(out, dist)

	leaders := table{name: SheetLeaders, title: chart.TitleLeaderAverage, header: []string{dataset.ColLider, dataset.ColRepetitionRate}}
	for _, r := range t.LeaderAverages {
		leaders.rows = append(leaders.rows, []any{r.Lider, r.RepetitionRate})
	}
	out = append(out, leaders)

	matrix := table{name: SheetMatrix, title: chart.TitleMatrix, header: []string{dataset.ColLider, dataset.ColCriatividade, "count", "percentage"}}
	for _, r := range t.Matrix {
		matrix.rows = append(matrix.rows, []any{r.Lider, r.Criatividade, r.Count, r.Percentage})
	}
	out = append(out, matrix)

	out = append(out,
		rankTable(SheetLowest, chart.TitleLowest, t.Lowest),
		rankTable(SheetHighest, chart.TitleHighest, t.Highest),
	)

	authors := table{name: SheetAuthors, title: chart.TitleAuthorScatter, header: []string{dataset.ColAuthor, dataset.ColTotalMsgs, dataset.ColRepetitionRate}}
	for _, r := range t.Authors.Authors {
		authors.rows = append(authors.rows, []any{r.Author, r.TotalMsgs, r.RepetitionRate})
	}
	out = append(out, authors)

	return out
}

func rankTable(name, title string, rows []dataset.Row) table {
	tb := table{name: name, title: title, header: rowHeader}
	for _, r := range rows {
		tb.rows = append(tb.rows, []any{r.Lider, r.Author, r.Criatividade, r.TotalMsgs, r.RepetitionRate})
	}
	return tb
}
