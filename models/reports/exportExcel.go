package reports

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const excelSheet = "Sheet1"

// ReportTable is the flat form of a report used for spreadsheet export.
type ReportTable struct {
	Title  string
	Header []string
	Rows   [][]any
	Totals []any
}

// Tabular is implemented by every report.
type Tabular interface {
	Table() ReportTable
}

func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	default:
		return v
	}
}

func setRow(f *excelize.File, rowNo int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(excelSheet, cell, cellValue(v)); err != nil {
			return err
		}
	}
	return nil
}

// NewExcelWorkbook renders the table on one sheet: title, header row, one
// row per line and a bold totals row.
func NewExcelWorkbook(table ReportTable) (*excelize.File, error) {
	f := excelize.NewFile()
	rowNo := 1
	if table.Title != "" {
		if err := f.SetCellValue(excelSheet, "A1", table.Title); err != nil {
			return nil, err
		}
		rowNo = 3
	}

	header := make([]any, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := setRow(f, rowNo, header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if len(table.Header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Header), rowNo)
		first, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetCellStyle(excelSheet, first, last, bold); err != nil {
			return nil, err
		}
	}
	rowNo++

	for _, row := range table.Rows {
		if err := setRow(f, rowNo, row); err != nil {
			return nil, err
		}
		rowNo++
	}
	if len(table.Totals) > 0 {
		if err := setRow(f, rowNo, table.Totals); err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(table.Totals), rowNo)
		first, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetCellStyle(excelSheet, first, last, bold); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteExcel streams the report as an xlsx workbook.
func WriteExcel(w io.Writer, report Tabular) error {
	f, err := NewExcelWorkbook(report.Table())
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
