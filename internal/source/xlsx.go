package source

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jask/jaskcal/internal/dataview"
)

// LoadXLSX loads the bound sheet of a workbook. The first non-empty row is
// the header.
func LoadXLSX(path string, b Binding) (*dataview.DataView, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	dv, err := fromWorkbook(f, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dv, nil
}

func fromWorkbook(f *excelize.File, b Binding) (*dataview.DataView, error) {
	sheet := b.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyInput
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	for len(rows) > 0 && blankRecord(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return build(rows[0], rows[1:], b, serialDateCell)
}

// serialDateCell reads a raw date cell: a serial day number when numeric,
// otherwise text parsed like CSV.
func serialDateCell(s string, loc *time.Location) any {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return dateCell(s, loc)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return s
	}
	if loc != nil {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	}
	return t
}
