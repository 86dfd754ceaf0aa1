package sample

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/okian/criatividade/internal/domain/dataset"
)

// WriteCSV writes rows separated by semicolons. With latin1 set the bytes
// are ISO-8859-1 instead of UTF-8.
func WriteCSV(w io.Writer, rows [][]string, latin1 bool) error {
	var tw *transform.Writer
	if latin1 {
		tw = transform.NewWriter(w, charmap.ISO8859_1.NewEncoder())
		w = tw
	}

	cw := csv.NewWriter(w)
	cw.Comma = dataset.DefaultDelimiter
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("encode latin-1: %w", err)
		}
	}
	return nil
}
