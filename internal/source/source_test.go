package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/dataview"
)

var binding = Binding{DateColumn: "date", MeasureColumn: "amount", MeasureFormat: "#,0.00"}

const sample = "\ufeffDate,Amount,Store,Visits\n" +
	"2024-01-01,5,north,10\n" +
	"2024-01-02,,south,\n" +
	"\n" +
	"someday,\"1,250.5\",east,3\n"

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadCSV(t *testing.T) {
	dv, err := LoadCSV(strings.NewReader(sample), binding)
	require.NoError(t, err)

	cat := dv.Category()
	require.Equal(t, []any{day(1), day(2), "someday"}, cat.Values)
	require.True(t, cat.Source.HasRole(dataview.RoleCategory))
	require.Equal(t, "Date", cat.Source.DisplayName)

	m := dv.Measure()
	require.Equal(t, []any{5.0, nil, 1250.5}, m.Values)
	require.Nil(t, m.Highlights)
	require.Equal(t, "#,0.00", m.Source.Format)

	require.Len(t, dv.Metadata.Columns, 4)
	require.Equal(t, dataview.TypeText, dv.Metadata.Columns[2].Type)
	require.Equal(t, dataview.TypeNumeric, dv.Metadata.Columns[3].Type)
	require.Equal(t, []any{day(1), 5.0, "north", 10.0}, dv.Rows()[0])
	require.Equal(t, []any{day(2), nil, "south", nil}, dv.Rows()[1])
}

func TestLoadCSVFeedsCalendar(t *testing.T) {
	dv, err := LoadCSV(strings.NewReader(sample), binding)
	require.NoError(t, err)

	vm := calendar.Build(dv, calendar.Options{Locale: "en-US"})
	require.Len(t, vm.DataPoints, 3)
	require.Equal(t, "5.00", vm.DataPoints[0].ValueText)
	require.Equal(t, "(Blank)", vm.DataPoints[1].ValueText)
	require.Len(t, vm.DataPoints[0].Fields, 3)
	require.Equal(t, "Amount", vm.DataPoints[0].Fields[0].Column.DisplayName)
}

func TestLoadCSVHighlightColumn(t *testing.T) {
	in := "date,amount,hl\n2024-01-01,1,1\n2024-01-02,2,\n"
	b := binding
	b.HighlightColumn = "HL"
	dv, err := LoadCSV(strings.NewReader(in), b)
	require.NoError(t, err)
	require.Equal(t, []any{1.0, nil}, dv.Measure().Highlights)
	require.Len(t, dv.Metadata.Columns, 2, "highlight column is not a tooltip column")
	require.Len(t, dv.Rows()[0], 2)
}

func TestLoadCSVMissingColumnSuggests(t *testing.T) {
	b := binding
	b.MeasureColumn = "amonut"
	_, err := LoadCSV(strings.NewReader(sample), b)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrColumnNotFound))

	var ce *ColumnError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "measure", ce.Role)
	require.Equal(t, "Amount", ce.Suggestion)
	require.Contains(t, err.Error(), `did you mean "Amount"`)

	b.MeasureColumn = "revenue_per_square_meter"
	_, err = LoadCSV(strings.NewReader(sample), b)
	require.True(t, errors.As(err, &ce))
	require.Empty(t, ce.Suggestion)
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""), binding)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open("data.parquet", binding)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	dv, err := Open(path, binding)
	require.NoError(t, err)
	require.Len(t, dv.Category().Values, 3)
}

func TestOpenXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Amount", "Note"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{day(1), 5, "first"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2024-01-02", 7.5, ""}))

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))

	dv, err := Open(path, binding)
	require.NoError(t, err)
	dates := dv.Category().Values
	require.Len(t, dates, 2)
	for i, want := range []time.Time{day(1), day(2)} {
		got, ok := dates[i].(time.Time)
		require.True(t, ok, "%T", dates[i])
		require.True(t, want.Equal(got), "got %v", got)
	}
	require.Equal(t, []any{5.0, 7.5}, dv.Measure().Values)
	require.Equal(t, []any{5.0, "first"}, dv.Rows()[0][1:])
}

func TestOpenXLSXMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))

	b := binding
	b.Sheet = "Data"
	_, err := LoadXLSX(path, b)
	require.Error(t, err)

	_, err = LoadXLSX(path, binding)
	require.ErrorIs(t, err, ErrEmptyInput)
}
