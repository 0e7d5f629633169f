package format

import "math"

// Unit is a display-unit scale.
type Unit struct {
	Divisor float64
	Symbol  string
}

var units = []Unit{
	{1e12, "T"},
	{1e9, "bn"},
	{1e6, "M"},
	{1e3, "K"},
}

// ScaleFor picks the display unit for a configured unit value. 0, 1 and
// anything below a thousand mean no scaling.
func ScaleFor(unit float64) Unit {
	if math.IsNaN(unit) {
		return Unit{Divisor: 1}
	}
	u := math.Abs(unit)
	for _, s := range units {
		if u >= s.Divisor {
			return s
		}
	}
	return Unit{Divisor: 1}
}
