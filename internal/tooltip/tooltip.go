// Package tooltip assembles the label/value rows shown when hovering a day.
package tooltip

import (
	"math"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/format"
)

// NoData is the display name of the placeholder item.
const NoData = "No Data"

// InvalidDate is the header used when a point's category is not a date.
const InvalidDate = "Invalid Date"

// Item is one tooltip row.
type Item struct {
	Header      string `json:"header,omitempty"`
	DisplayName string `json:"displayName"`
	Value       string `json:"value,omitempty"`
}

// Options carries the locale and the measure display scale.
type Options struct {
	Locale    string
	Unit      float64
	Precision *int
}

// Assemble returns one item per paired field of p, headed by the locale date.
// A nil point or a point whose value is NaN yields a single NoData item;
// infinite values are shown.
// Measure-role columns use the display unit and precision on top of their
// own format; other columns use only their own format.
func Assemble(p *calendar.DataPoint, opts Options) []Item {
	if p == nil || math.IsNaN(p.Value.Float()) {
		return []Item{{DisplayName: NoData}}
	}
	header := InvalidDate
	if p.Date != nil {
		header = format.FormatDate(*p.Date, opts.Locale)
	}

	items := make([]Item, 0, len(p.Fields))
	for _, f := range p.Fields {
		fo := format.Options{Format: f.Column.Format, Locale: opts.Locale}
		if f.Column.HasRole(dataview.RoleMeasure) {
			fo.Unit = opts.Unit
			fo.Precision = opts.Precision
		}
		items = append(items, Item{
			Header:      header,
			DisplayName: f.Column.DisplayName,
			Value:       format.New(fo).Format(f.Value),
		})
	}
	return items
}
