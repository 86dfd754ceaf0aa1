// Package dataset loads, filters and cleans the uploaded creativity table.
//
// Every stage takes a Table and returns a new Table; a Table is never
// modified after it has been produced.
package dataset

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names the pipeline reads.
const (
	ColLider          = "lider"
	ColAuthor         = "author"
	ColCriatividade   = "criatividade"
	ColTotalMsgs      = "total_msgs"
	ColRepetitionRate = "repetition_rate"
)

// RequiredColumns is the schema checked when a table is loaded.
var RequiredColumns = []string{ColLider, ColAuthor, ColCriatividade, ColTotalMsgs, ColRepetitionRate}

// Encodings reported by Table.Encoding.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// gota marks these strings as NaN when it loads records.
var nanMarkers = map[string]struct{}{"NA": {}, "NaN": {}, "<nil>": {}}

// Row is one record of a cleaned table restricted to the schema columns.
type Row struct {
	Lider          string  `json:"lider"`
	Author         string  `json:"author"`
	Criatividade   string  `json:"criatividade"`
	TotalMsgs      int     `json:"total_msgs"`
	RepetitionRate float64 `json:"repetition_rate"`
}

// Preview is a header plus the first rows of a table, rendered as text.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Table is an immutable snapshot of the uploaded data.
type Table struct {
	df       dataframe.DataFrame
	encoding string
	cleaned  bool
}

// Nrow returns the number of data rows.
func (t Table) Nrow() int { return t.df.Nrow() }

// Names returns the column names in file order.
func (t Table) Names() []string { return t.df.Names() }

// Encoding returns the text encoding the table was decoded with.
func (t Table) Encoding() string { return t.encoding }

// Cleaned reports whether repetition_rate holds numeric values.
func (t Table) Cleaned() bool { return t.cleaned }

// Frame exposes the underlying dataframe. Callers must treat it as read-only.
func (t Table) Frame() dataframe.DataFrame { return t.df }

// Has reports whether the table carries every named column.
func (t Table) Has(cols ...string) bool {
	return len(t.missing(cols...)) == 0
}

// Require returns a *MissingColumnError naming the absent columns, or nil.
func (t Table) Require(cols ...string) error {
	if missing := t.missing(cols...); len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

func (t Table) missing(cols ...string) []string {
	present := make(map[string]struct{}, t.df.Ncol())
	for _, n := range t.df.Names() {
		present[n] = struct{}{}
	}
	var out []string
	for _, c := range cols {
		if _, ok := present[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the column rendered as text.
func (t Table) Texts(col string) ([]string, error) {
	if err := t.Require(col); err != nil {
		return nil, err
	}
	return t.df.Col(col).Records(), nil
}

// Floats returns a numeric column. repetition_rate is only numeric once cleaned.
func (t Table) Floats(col string) ([]float64, error) {
	if err := t.Require(col); err != nil {
		return nil, err
	}
	if col == ColRepetitionRate && !t.cleaned {
		return nil, ErrNotCleaned
	}
	return t.df.Col(col).Float(), nil
}

// Ints returns an integer column.
func (t Table) Ints(col string) ([]int, error) {
	if err := t.Require(col); err != nil {
		return nil, err
	}
	vals, err := t.df.Col(col).Int()
	if err != nil {
		return nil, &ConversionError{Column: col, Err: err}
	}
	return vals, nil
}

// Subset returns the rows at the given positions, in that order.
func (t Table) Subset(idx []int) Table {
	return t.with(t.df.Subset(idx))
}

// Head renders the first n rows of every column.
func (t Table) Head(n int) Preview {
	if n > t.Nrow() {
		n = t.Nrow()
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	p := Preview{Columns: t.Names(), Rows: [][]string{}}
	if len(p.Columns) == 0 {
		return p
	}
	records := t.df.Subset(idx).Records()
	if len(records) > 1 {
		p.Rows = records[1:]
	}
	return p
}

// Rows returns the schema columns of a cleaned table as records.
func (t Table) Rows() ([]Row, error) {
	if err := t.Require(RequiredColumns...); err != nil {
		return nil, err
	}
	leaders, _ := t.Texts(ColLider)
	authors, _ := t.Texts(ColAuthor)
	levels, _ := t.Texts(ColCriatividade)
	totals, err := t.Ints(ColTotalMsgs)
	if err != nil {
		return nil, err
	}
	rates, err := t.Floats(ColRepetitionRate)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, t.Nrow())
	for i := range rows {
		rows[i] = Row{
			Lider:          leaders[i],
			Author:         authors[i],
			Criatividade:   levels[i],
			TotalMsgs:      totals[i],
			RepetitionRate: rates[i],
		}
	}
	return rows, nil
}

func (t Table) with(df dataframe.DataFrame) Table {
	return Table{df: df, encoding: t.encoding, cleaned: t.cleaned}
}

// IsMissing reports whether a cell holds no value.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	_, ok := nanMarkers[v]
	return ok
}

// Distinct returns the sorted distinct non-missing values of a text column.
func Distinct(t Table, col string) ([]string, error) {
	vals, err := t.Texts(col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if IsMissing(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// emptyFrame builds a zero-row dataframe with the given text columns.
func emptyFrame(names []string) dataframe.DataFrame {
	cols := make([]series.Series, len(names))
	for i, n := range names {
		cols[i] = series.New([]string{}, series.String, n)
	}
	return dataframe.New(cols...)
}
