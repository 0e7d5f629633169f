// Package calendar turns a host data view into the render-ready calendar
// view-model: one data point per day plus month, year and resolved settings.
package calendar

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/settings"
)

// ViewModel is the snapshot for one render pass. Month and Year are nil when
// the input is invalid or the first category is not a date. Month is 1-based
// (January is 1, also in JSON).
type ViewModel struct {
	DataPoints    []DataPoint       `json:"dataPoints"`
	Month         *time.Month       `json:"month"`
	Year          *int              `json:"year"`
	Settings      settings.Settings `json:"settings"`
	HasHighlights bool              `json:"hasHighlights"`
}

// DataPoint is one calendar day.
type DataPoint struct {
	// Category is the source-native category value.
	Category any `json:"category"`
	// Date is Category parsed as a date, nil when it does not parse.
	Date      *time.Time `json:"date,omitempty"`
	Value     Number     `json:"value"`
	ValueText string     `json:"valueText"`
	// Fields pairs the tooltip columns with this row's values, date removed.
	Fields    []Field `json:"rowdata"`
	Key       string  `json:"key"`
	Selected  bool    `json:"selected"`
	Highlight bool    `json:"highlight"`
}

// Field is one column paired with its value in a row.
type Field struct {
	Column dataview.Column `json:"column"`
	Value  any             `json:"value"`
}

// Number is a float64 that marshals NaN and infinities as JSON null.
type Number float64

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// Valid reports whether n is a finite number.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Empty returns the view-model for "no data yet": no points, nil month and
// year, and the given settings.
func Empty(s settings.Settings) *ViewModel {
	return &ViewModel{DataPoints: []DataPoint{}, Settings: s}
}

// Point returns the data point with key, or nil.
func (vm *ViewModel) Point(key string) *DataPoint {
	if vm == nil {
		return nil
	}
	for i := range vm.DataPoints {
		if vm.DataPoints[i].Key == key {
			return &vm.DataPoints[i]
		}
	}
	return nil
}

// Keys returns the data point keys in order.
func (vm *ViewModel) Keys() []string {
	if vm == nil {
		return nil
	}
	keys := make([]string, len(vm.DataPoints))
	for i, p := range vm.DataPoints {
		keys[i] = p.Key
	}
	return keys
}
