package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

var errNotFinite = errors.New("not a finite number")

// ParseRate converts a locale-formatted percentage such as "12,5%" to 12.5.
// Every '%' is removed and every ',' becomes '.', in that order, before parsing.
func ParseRate(s string) (float64, error) {
	text := strings.ReplaceAll(s, "%", "")
	text = strings.ReplaceAll(text, ",", ".")
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, &ConversionError{Column: ColRepetitionRate, Value: s, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ConversionError{Column: ColRepetitionRate, Value: s, Err: errNotFinite}
	}
	return v, nil
}

// Clean returns a table whose repetition_rate column is numeric. One cell
// that does not parse fails the whole column.
func Clean(t Table) (Table, error) {
	if t.cleaned {
		return t, nil
	}
	texts, err := t.Texts(ColRepetitionRate)
	if err != nil {
		return Table{}, err
	}
	rates := make([]float64, len(texts))
	for i, v := range texts {
		r, err := ParseRate(v)
		if err != nil {
			var ce *ConversionError
			if errors.As(err, &ce) {
				ce.Row = i + 1
			}
			return Table{}, err
		}
		rates[i] = r
	}
	df := t.df.Mutate(series.New(rates, series.Float, ColRepetitionRate))
	if df.Err != nil {
		return Table{}, &ConversionError{Column: ColRepetitionRate, Err: df.Err}
	}
	out := t.with(df)
	out.cleaned = true
	return out, nil
}
