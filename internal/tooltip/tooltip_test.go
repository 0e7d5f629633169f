package tooltip

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/dataview"
)

func point(value float64, fields ...calendar.Field) *calendar.DataPoint {
	d := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	return &calendar.DataPoint{
		Category: d,
		Date:     &d,
		Value:    calendar.Number(value),
		Fields:   fields,
	}
}

var (
	amount = dataview.Column{DisplayName: "Amount", Format: "#,0.00", Roles: map[string]bool{dataview.RoleMeasure: true}}
	visits = dataview.Column{DisplayName: "Visits", Format: "#,0"}
	store  = dataview.Column{DisplayName: "Store"}
)

func TestAssembleNoData(t *testing.T) {
	require.Equal(t, []Item{{DisplayName: NoData}}, Assemble(nil, Options{}))
	require.Equal(t, []Item{{DisplayName: NoData}}, Assemble(point(math.NaN()), Options{}))
	require.Empty(t, Assemble(point(math.Inf(1)), Options{}), "an infinite value with no fields has no rows")
}

func TestAssembleShowsInfiniteValue(t *testing.T) {
	items := Assemble(point(math.Inf(1), calendar.Field{Column: amount, Value: math.Inf(1)}), Options{Locale: "en-US"})
	require.Equal(t, []Item{{Header: "3/9/2024", DisplayName: "Amount", Value: "Infinity"}}, items)
}

func TestAssembleMeasureUsesDisplayScale(t *testing.T) {
	precision := 1
	p := point(12.3,
		calendar.Field{Column: amount, Value: 12345.678},
		calendar.Field{Column: visits, Value: 12345.0},
		calendar.Field{Column: store, Value: "north"},
	)

	items := Assemble(p, Options{Locale: "en-US", Unit: 1000, Precision: &precision})
	require.Equal(t, []Item{
		{Header: "3/9/2024", DisplayName: "Amount", Value: "12.3K"},
		{Header: "3/9/2024", DisplayName: "Visits", Value: "12,345"},
		{Header: "3/9/2024", DisplayName: "Store", Value: "north"},
	}, items)
}

func TestAssembleMeasureWithoutScaleKeepsColumnFormat(t *testing.T) {
	p := point(5, calendar.Field{Column: amount, Value: 1234.5})
	items := Assemble(p, Options{Locale: "de-DE"})
	require.Equal(t, "1.234,50", items[0].Value)
	require.Equal(t, "9.3.2024", items[0].Header)
}

func TestAssembleInvalidDateHeader(t *testing.T) {
	p := point(1, calendar.Field{Column: store, Value: nil})
	p.Date = nil
	items := Assemble(p, Options{})
	require.Equal(t, InvalidDate, items[0].Header)
	require.Equal(t, "(Blank)", items[0].Value)
}

func TestAssembleWithoutFields(t *testing.T) {
	require.Empty(t, Assemble(point(1), Options{}))
}
