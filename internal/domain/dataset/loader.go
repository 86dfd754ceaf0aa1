package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultDelimiter separates fields in uploaded files.
const DefaultDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type loadOptions struct {
	delimiter    rune
	fallback     encoding.Encoding
	fallbackName string
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithDelimiter sets the field delimiter.
func WithDelimiter(d rune) LoadOption {
	return func(o *loadOptions) {
		if d != 0 {
			o.delimiter = d
		}
	}
}

// WithFallbackEncoding replaces the single-byte encoding tried when the
// input is not valid UTF-8.
func WithFallbackEncoding(enc encoding.Encoding, name string) LoadOption {
	return func(o *loadOptions) {
		if enc != nil {
			o.fallback = enc
			o.fallbackName = name
		}
	}
}

// Load decodes raw bytes into a Table and checks the schema.
//
// UTF-8 is tried first; invalid UTF-8 is decoded with the fallback encoding
// (ISO-8859-1 by default). total_msgs is converted to integers here,
// repetition_rate stays text until Clean.
func Load(ctx context.Context, raw []byte, opts ...LoadOption) (Table, error) {
	o := loadOptions{
		delimiter:    DefaultDelimiter,
		fallback:     charmap.ISO8859_1,
		fallbackName: EncodingLatin1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	text, enc, err := decode(raw, o)
	if err != nil {
		return Table{}, err
	}

	records, err := readRecords(text, o.delimiter)
	if err != nil {
		return Table{}, err
	}
	if err := checkHeader(records[0]); err != nil {
		return Table{}, err
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		df = emptyFrame(records[0])
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			// Keep cells as written; IsMissing recognises the markers.
			dataframe.NaNValues(nil),
		)
	}
	if df.Err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrStructuralParse, df.Err)
	}

	t := Table{df: df, encoding: enc}
	if err := t.Require(RequiredColumns...); err != nil {
		return Table{}, err
	}
	return convertTotals(t)
}

func decode(raw []byte, o loadOptions) ([]byte, string, error) {
	if utf8.Valid(raw) {
		return bytes.TrimPrefix(raw, utf8BOM), EncodingUTF8, nil
	}
	out, err := o.fallback.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, o.fallbackName, err)
	}
	return out, o.fallbackName, nil
}

func readRecords(text []byte, delimiter rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delimiter
	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructuralParse, err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrStructuralParse)
	}
	return records, nil
}

// checkHeader rejects a header that repeats a required column. Repeats of
// other columns are left to the dataframe, which suffixes them.
func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			for _, req := range RequiredColumns {
				if name == req {
					return fmt.Errorf("%w: duplicate column %q in header", ErrStructuralParse, name)
				}
			}
		}
		seen[name] = true
	}
	return nil
}

func convertTotals(t Table) (Table, error) {
	texts, err := t.Texts(ColTotalMsgs)
	if err != nil {
		return Table{}, err
	}
	totals := make([]int, len(texts))
	for i, v := range texts {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Table{}, &ConversionError{Column: ColTotalMsgs, Row: i + 1, Value: v, Err: err}
		}
		totals[i] = n
	}
	df := t.df.Mutate(series.New(totals, series.Int, ColTotalMsgs))
	if df.Err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrStructuralParse, df.Err)
	}
	return t.with(df), nil
}
