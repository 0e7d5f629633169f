// Package source loads calendar data views from CSV and XLSX files.
package source

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/dataview"
)

// Binding maps file columns onto the calendar roles.
type Binding struct {
	DateColumn    string
	MeasureColumn string
	// HighlightColumn, when set, becomes the measure's highlight series and
	// is left out of the row table. Blank cells are not highlighted.
	HighlightColumn string
	// MeasureFormat is the format string attached to the measure column.
	MeasureFormat string
	// Sheet selects an XLSX sheet; empty means the first one.
	Sheet    string
	Location *time.Location
}

// Open loads path with the loader for its extension.
func Open(path string, b Binding) (*dataview.DataView, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSVFile(path, b)
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, b)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// build turns a header and string records into a data view. parseDate
// converts date cells, which are text in CSV and serial numbers in XLSX.
func build(header []string, records [][]string, b Binding, parseDate func(string, *time.Location) any) (*dataview.DataView, error) {
	if len(header) == 0 {
		return nil, ErrEmptyInput
	}
	dateIdx := indexOf(header, b.DateColumn)
	if dateIdx < 0 {
		return nil, newColumnError("date", b.DateColumn, header)
	}
	measureIdx := indexOf(header, b.MeasureColumn)
	if measureIdx < 0 {
		return nil, newColumnError("measure", b.MeasureColumn, header)
	}
	highlightIdx := -1
	if strings.TrimSpace(b.HighlightColumn) != "" {
		highlightIdx = indexOf(header, b.HighlightColumn)
		if highlightIdx < 0 {
			return nil, newColumnError("highlight", b.HighlightColumn, header)
		}
	}

	var (
		columns    []dataview.Column
		keep       []int
		dateSource dataview.Column
		measureSrc dataview.Column
	)
	for i, name := range header {
		if i == highlightIdx {
			continue
		}
		col := dataview.Column{
			DisplayName: strings.TrimSpace(name),
			QueryName:   "Data." + strings.TrimSpace(name),
			Type:        inferType(records, i),
		}
		switch i {
		case dateIdx:
			col.Type = dataview.TypeDateTime
			col.Roles = map[string]bool{dataview.RoleCategory: true}
			dateSource = col
		case measureIdx:
			col.Type = dataview.TypeNumeric
			col.Format = b.MeasureFormat
			col.Roles = map[string]bool{dataview.RoleMeasure: true}
			measureSrc = col
		}
		columns = append(columns, col)
		keep = append(keep, i)
	}

	var (
		dates      = make([]any, 0, len(records))
		values     = make([]any, 0, len(records))
		highlights []any
		rows       = make([][]any, 0, len(records))
	)
	if highlightIdx >= 0 {
		highlights = make([]any, 0, len(records))
	}
	for _, rec := range records {
		if blankRecord(rec) {
			continue
		}
		date := parseDate(cell(rec, dateIdx), b.Location)
		dates = append(dates, date)
		values = append(values, numberCell(cell(rec, measureIdx)))
		if highlightIdx >= 0 {
			highlights = append(highlights, numberCell(cell(rec, highlightIdx)))
		}
		row := make([]any, 0, len(keep))
		for _, i := range keep {
			switch i {
			case dateIdx:
				row = append(row, date)
			default:
				row = append(row, numberCell(cell(rec, i)))
			}
		}
		rows = append(rows, row)
	}

	return &dataview.DataView{
		Categorical: &dataview.Categorical{
			Categories: []dataview.CategoryColumn{{Source: &dateSource, Values: dates}},
			Values:     []dataview.ValueColumn{{Source: &measureSrc, Values: values, Highlights: highlights}},
		},
		Table:    &dataview.Table{Rows: rows},
		Metadata: dataview.Metadata{Columns: columns},
	}, nil
}

func indexOf(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// dateCell parses a date, keeping the raw text when it does not parse.
func dateCell(s string, loc *time.Location) any {
	if s == "" {
		return nil
	}
	if t, ok := calendar.ParseDate(s, loc); ok {
		return t
	}
	return s
}

// numberCell returns nil for blanks, float64 for numeric text and the text
// itself otherwise.
func numberCell(s string) any {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return f
	}
	return s
}

func inferType(records [][]string, i int) dataview.ColumnType {
	seen := false
	for _, rec := range records {
		v := cell(rec, i)
		if v == "" {
			continue
		}
		seen = true
		if _, ok := numberCell(v).(float64); !ok {
			return dataview.TypeText
		}
	}
	if !seen {
		return dataview.TypeText
	}
	return dataview.TypeNumeric
}
