package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/criatividade/internal/app"
)

// ContentTypeXLSX is the media type of the workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// Workbook builds a workbook with a summary sheet followed by one sheet per
// derived table. The caller closes the returned file.
func Workbook(d *app.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName(defaultSheet, SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeTable(f, summary(d), bold); err != nil {
		_ = f.Close()
		return nil, err
	}

	for _, tb := range tables(d) {
		if _, err := f.NewSheet(tb.name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("sheet %s: %w", tb.name, err)
		}
		if err := writeTable(f, tb, bold); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX streams the workbook for d to w.
func WriteXLSX(w io.Writer, d *app.Dashboard) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, tb table, headerStyle int) error {
	header := make([]any, len(tb.header))
	for i, h := range tb.header {
		header[i] = h
	}
	if err := f.SetSheetRow(tb.name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", tb.name, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(tb.header), 1)
	if err := f.SetCellStyle(tb.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("sheet %s style: %w", tb.name, err)
	}

	for i, row := range tb.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(tb.name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", tb.name, i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(tb.header))
	if err := f.SetColWidth(tb.name, "A", lastCol, 22); err != nil {
		return fmt.Errorf("sheet %s width: %w", tb.name, err)
	}
	return nil
}
