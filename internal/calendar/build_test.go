package calendar

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/settings"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

var (
	dateCol = dataview.Column{
		DisplayName: "Date", QueryName: "Sales.Date", Type: dataview.TypeDateTime,
		Roles: map[string]bool{dataview.RoleCategory: true},
	}
	amountCol = dataview.Column{
		DisplayName: "Amount", QueryName: "Sum(Sales.Amount)", Format: "#,0.##", Type: dataview.TypeNumeric,
		Roles: map[string]bool{dataview.RoleMeasure: true},
	}
	storeCol = dataview.Column{DisplayName: "Store", QueryName: "Sales.Store", Type: dataview.TypeText}
)

// newView builds a data view whose table mirrors dates and values, with a
// store column after the measure.
func newView(dates []any, values []any, highlights []any) *dataview.DataView {
	rows := make([][]any, len(dates))
	for i := range dates {
		rows[i] = []any{dates[i], dataview.At(values, i), "north"}
	}
	cat, val := dateCol, amountCol
	return &dataview.DataView{
		Categorical: &dataview.Categorical{
			Categories: []dataview.CategoryColumn{{Source: &cat, Values: dates}},
			Values:     []dataview.ValueColumn{{Source: &val, Values: values, Highlights: highlights}},
		},
		Table:    &dataview.Table{Rows: rows},
		Metadata: dataview.Metadata{Columns: []dataview.Column{dateCol, amountCol, storeCol}},
	}
}

func TestBuildTwoDaysWithNullMeasure(t *testing.T) {
	vm := Build(newView([]any{day(1), day(2)}, []any{5.0, nil}, nil), Options{Locale: "en-US"})

	require.Len(t, vm.DataPoints, 2)
	require.False(t, vm.HasHighlights)
	require.NotNil(t, vm.Month)
	require.Equal(t, time.January, *vm.Month)
	require.Equal(t, 2024, *vm.Year)

	raw, err := json.Marshal(vm)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"month":1,`)

	first, second := vm.DataPoints[0], vm.DataPoints[1]
	require.Equal(t, 5.0, first.Value.Float())
	require.Equal(t, "5", first.ValueText)
	require.True(t, math.IsNaN(second.Value.Float()))
	require.Equal(t, "(Blank)", second.ValueText)
	require.False(t, second.Selected)
	require.False(t, second.Highlight)

	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.Contains(t, string(b), `"value":null`)
}

func TestBuildGuardClause(t *testing.T) {
	overrides := dataview.Objects{settings.ObjectDataLabels: {"show": false}}
	cases := map[string]*dataview.DataView{
		"nil view":       nil,
		"no categorical": {Metadata: dataview.Metadata{Objects: overrides}},
		"no category":    {Categorical: &dataview.Categorical{Values: []dataview.ValueColumn{{}}}, Metadata: dataview.Metadata{Objects: overrides}},
		"no source":      {Categorical: &dataview.Categorical{Categories: []dataview.CategoryColumn{{Values: []any{day(1)}}}, Values: []dataview.ValueColumn{{}}}, Metadata: dataview.Metadata{Objects: overrides}},
		"no values":      {Categorical: &dataview.Categorical{Categories: []dataview.CategoryColumn{{Source: &dateCol}}, Values: []dataview.ValueColumn{{}}}, Metadata: dataview.Metadata{Objects: overrides}},
		"no measure":     {Categorical: &dataview.Categorical{Categories: []dataview.CategoryColumn{{Source: &dateCol, Values: []any{day(1)}}}}, Metadata: dataview.Metadata{Objects: overrides}},
	}
	for name, dv := range cases {
		t.Run(name, func(t *testing.T) {
			vm := Build(dv, Options{})
			require.NotNil(t, vm.DataPoints)
			require.Empty(t, vm.DataPoints)
			require.Nil(t, vm.Month)
			require.Nil(t, vm.Year)
			if dv != nil {
				require.False(t, vm.Settings.DataLabels.Show)
			}
		})
	}
}

func TestBuildLengthIsMaxOfSeries(t *testing.T) {
	vm := Build(newView([]any{day(1), day(2), day(3)}, []any{1.0}, nil), Options{})
	require.Len(t, vm.DataPoints, 3)
	require.True(t, math.IsNaN(vm.DataPoints[2].Value.Float()))

	dv := newView([]any{day(1)}, []any{1.0, 2.0, 3.0}, nil)
	vm = Build(dv, Options{})
	require.Len(t, vm.DataPoints, 3)
	require.Nil(t, vm.DataPoints[2].Category)
	require.Nil(t, vm.DataPoints[2].Date)
	require.Empty(t, vm.DataPoints[2].Fields)
	require.Equal(t, 3.0, vm.DataPoints[2].Value.Float())
}

func TestBuildHighlights(t *testing.T) {
	vm := Build(newView([]any{day(1), day(2), day(3)}, []any{1.0, 2.0, 3.0}, []any{nil, 2.0}), Options{})
	require.True(t, vm.HasHighlights)
	require.False(t, vm.DataPoints[0].Highlight)
	require.True(t, vm.DataPoints[1].Highlight)
	require.True(t, vm.DataPoints[2].Highlight, "entries past a short highlight series stay highlighted")

	vm = Build(newView([]any{day(1)}, []any{1.0}, []any{}), Options{})
	require.True(t, vm.HasHighlights, "an empty highlight series still counts")
	require.True(t, vm.DataPoints[0].Highlight)

	vm = Build(newView([]any{day(1)}, []any{1.0}, nil), Options{})
	require.False(t, vm.DataPoints[0].Highlight)
}

func TestBuildStripsCategoryColumnByRole(t *testing.T) {
	dv := newView([]any{"2024-01-01"}, []any{7.0}, nil)
	vm := Build(dv, Options{})

	p := vm.DataPoints[0]
	require.Len(t, p.Fields, 2)
	require.Equal(t, "Amount", p.Fields[0].Column.DisplayName)
	require.Equal(t, 7.0, p.Fields[0].Value)
	require.Equal(t, "Store", p.Fields[1].Column.DisplayName)
	require.Equal(t, "north", p.Fields[1].Value)
	require.NotNil(t, p.Date)
	require.Equal(t, day(1), *p.Date)

	require.Len(t, dv.Table.Rows[0], 3, "source rows are not modified")
}

func TestBuildStripsFirstDateWithoutRole(t *testing.T) {
	dv := newView([]any{day(1)}, []any{7.0}, nil)
	dv.Metadata.Columns = []dataview.Column{amountCol, storeCol}
	dv.Table.Rows = [][]any{{7.0, day(1), "north", day(2)}}

	p := Build(dv, Options{}).DataPoints[0]
	require.Len(t, p.Fields, 2)
	require.Equal(t, 7.0, p.Fields[0].Value)
	require.Equal(t, "north", p.Fields[1].Value)
}

func TestBuildDisplayUnitLosesPrecisionInValue(t *testing.T) {
	dv := newView([]any{day(1)}, []any{1234567.0}, nil)
	dv.Metadata.Objects = dataview.Objects{settings.ObjectDataLabels: {"unit": 1000}}

	p := Build(dv, Options{Locale: "en-US"}).DataPoints[0]
	require.Equal(t, 1234.567, p.Value.Float())
	require.Equal(t, "1,234.57K", p.ValueText)

	dv.Metadata.Objects = dataview.Objects{settings.ObjectDataLabels: {"unit": 1000, "precision": 0}}
	p = Build(dv, Options{Locale: "en-US"}).DataPoints[0]
	require.Equal(t, 1235.0, p.Value.Float())
	require.Equal(t, "1,235K", p.ValueText)
}

func TestBuildMonthYearNilForNonDate(t *testing.T) {
	vm := Build(newView([]any{"not a date", day(2)}, []any{1.0, 2.0}, nil), Options{})
	require.Len(t, vm.DataPoints, 2)
	require.Nil(t, vm.Month)
	require.Nil(t, vm.Year)
	require.Nil(t, vm.DataPoints[0].Date)
}

func TestBuildKeys(t *testing.T) {
	dv := newView([]any{day(1), day(2), day(1)}, []any{1.0, 2.0, 3.0}, nil)
	a := Build(dv, Options{}).Keys()
	b := Build(dv, Options{}).Keys()
	require.Equal(t, a, b, "keys are stable across builds")
	require.Len(t, a, 3)
	require.NotEqual(t, a[0], a[1])
	require.NotEqual(t, a[0], a[2], "repeated categories still get unique keys")

	vm := Build(dv, Options{})
	require.Equal(t, 2.0, vm.Point(a[1]).Value.Float())
	require.Nil(t, vm.Point("missing"))
}

func TestPairTruncatesToShorter(t *testing.T) {
	cols := []dataview.Column{amountCol, storeCol}
	require.Len(t, Pair(cols, []any{1.0}), 1)
	require.Len(t, Pair(cols, []any{1.0, "a", "extra"}), 2)
	require.Empty(t, Pair(nil, []any{1.0}))
}

func TestParseDate(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	cases := []struct {
		in   any
		want time.Time
	}{
		{day(5), day(5)},
		{"2024-01-05", day(5)},
		{"2024-01-05T00:00:00Z", day(5)},
		{"2024-01-05 00:00:00", day(5)},
		{"1/5/2024", day(5)},
		{float64(day(5).UnixMilli()), day(5)},
		{day(5).UnixMilli(), day(5)},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in, nil)
		require.True(t, ok, "%v", tc.in)
		require.True(t, tc.want.Equal(got), "%v: got %v", tc.in, got)
	}

	got, ok := ParseDate("2024-01-05", berlin)
	require.True(t, ok)
	require.Equal(t, berlin, got.Location())

	for _, in := range []any{nil, "", "tomorrow", true, time.Time{}, math.NaN()} {
		_, ok := ParseDate(in, nil)
		require.False(t, ok, "%v", in)
	}
}
