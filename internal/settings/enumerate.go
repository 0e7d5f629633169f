package settings

// ObjectInstance is one entry of the formatting-pane enumeration: the current
// resolved values of one host object.
type ObjectInstance struct {
	ObjectName string         `json:"objectName"`
	Properties map[string]any `json:"properties"`
	Selector   any            `json:"selector"`
}

// Objects lists the enumerable object names in formatting-pane order.
var Objects = []string{ObjectCalendar, ObjectWeekNumbers, ObjectColors, ObjectDataLabels}

// Enumerate reports the resolved values of objectName. Unknown names yield an
// empty enumeration. centerColor is reported as nil unless the scale diverges.
func Enumerate(s Settings, objectName string) []ObjectInstance {
	var props map[string]any
	switch objectName {
	case ObjectCalendar:
		c := s.Calendar
		props = map[string]any{
			"monthYearDisplay": c.MonthYearDisplay,
			"weekdayFormat":    c.WeekdayFormat,
			"weekStartDay":     c.WeekStartDay,
			"borderWidth":      c.BorderWidth,
			"borderColor":      c.BorderColor,
			"fontColor":        c.FontColor,
			"fontWeight":       c.FontWeight,
			"textSize":         c.TextSize,
			"monthAlignment":   c.MonthAlignment,
			"weekAlignment":    c.WeekAlignment,
			"dayAlignment":     c.DayAlignment,
		}
	case ObjectWeekNumbers:
		w := s.WeekNumbers
		props = map[string]any{
			"show":       w.Show,
			"useIso":     w.UseISO,
			"placement":  w.Placement,
			"fontColor":  w.FontColor,
			"fontWeight": w.FontWeight,
			"textSize":   w.TextSize,
			"alignment":  w.Alignment,
		}
	case ObjectColors:
		c := s.Colors
		var center any
		if c.Diverging {
			center = c.CenterColor
		}
		props = map[string]any{
			"diverging":   c.Diverging,
			"startColor":  c.StartColor,
			"centerColor": center,
			"endColor":    c.EndColor,
			"minValue":    c.MinValue,
			"centerValue": c.CenterValue,
			"maxValue":    c.MaxValue,
			"noDataColor": c.NoDataColor,
		}
	case ObjectDataLabels:
		d := s.DataLabels
		props = map[string]any{
			"show":       d.Show,
			"unit":       d.Unit,
			"precision":  d.Precision,
			"fontColor":  d.FontColor,
			"fontWeight": d.FontWeight,
			"textSize":   d.TextSize,
			"alignment":  d.Alignment,
		}
	default:
		return nil
	}
	return []ObjectInstance{{ObjectName: objectName, Properties: props}}
}
