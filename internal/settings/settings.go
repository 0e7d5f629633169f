// Package settings holds the typed calendar display settings, their hard-coded
// defaults, and the resolver that merges a host property bag onto them.
package settings

// Host object names, one per overridable group.
const (
	ObjectCalendar    = "calendar"
	ObjectColors      = "calendarColors"
	ObjectDataLabels  = "dataLabels"
	ObjectWeekNumbers = "showWeeks"
)

// Solid is the solid color of a Fill. A nil Color means "no color chosen".
type Solid struct {
	Color *string `json:"color"`
}

// Fill mirrors the host's fill property shape {"solid":{"color":...}}.
type Fill struct {
	Solid Solid `json:"solid"`
}

// SolidFill returns a fill with the given color.
func SolidFill(color string) Fill {
	return Fill{Solid: Solid{Color: &color}}
}

// ColorOr returns the fill color, or fallback when unset.
func (f Fill) ColorOr(fallback string) string {
	if f.Solid.Color == nil || *f.Solid.Color == "" {
		return fallback
	}
	return *f.Solid.Color
}

// Calendar is the layout and typography group.
type Calendar struct {
	MonthYearDisplay string  `json:"monthYearDisplay"`
	WeekdayFormat    string  `json:"weekdayFormat"`
	WeekStartDay     int     `json:"weekStartDay"`
	BorderWidth      float64 `json:"borderWidth"`
	BorderColor      Fill    `json:"borderColor"`
	FontColor        Fill    `json:"fontColor"`
	FontWeight       int     `json:"fontWeight"`
	TextSize         float64 `json:"textSize"`
	MonthAlignment   string  `json:"monthAlignment"`
	WeekAlignment    string  `json:"weekAlignment"`
	DayAlignment     string  `json:"dayAlignment"`
}

// Colors is the sequential/diverging color scale group.
type Colors struct {
	Diverging   bool     `json:"diverging"`
	StartColor  Fill     `json:"startColor"`
	CenterColor Fill     `json:"centerColor"`
	EndColor    Fill     `json:"endColor"`
	MinValue    *float64 `json:"minValue"`
	CenterValue *float64 `json:"centerValue"`
	MaxValue    *float64 `json:"maxValue"`
	NoDataColor Fill     `json:"noDataColor"`
}

// DataLabels controls the per-day value labels and the measure display scale.
type DataLabels struct {
	Show       bool    `json:"show"`
	Unit       float64 `json:"unit"`
	Precision  *int    `json:"precision"`
	FontColor  Fill    `json:"fontColor"`
	FontWeight int     `json:"fontWeight"`
	TextSize   float64 `json:"textSize"`
	Alignment  string  `json:"alignment"`
}

// WeekNumbers controls the optional week-number column.
type WeekNumbers struct {
	Show       bool    `json:"show"`
	UseISO     bool    `json:"useIso"`
	Placement  string  `json:"placement"`
	FontColor  Fill    `json:"fontColor"`
	FontWeight int     `json:"fontWeight"`
	TextSize   float64 `json:"textSize"`
	Alignment  string  `json:"alignment"`
}

// Settings is the fully resolved settings tree for one refresh.
type Settings struct {
	Calendar    Calendar    `json:"calendar"`
	Colors      Colors      `json:"calendarColors"`
	DataLabels  DataLabels  `json:"dataLabels"`
	WeekNumbers WeekNumbers `json:"weekNumbers"`
}

// Defaults returns a fresh copy of the hard-coded defaults.
func Defaults() Settings {
	return Settings{
		Calendar: Calendar{
			MonthYearDisplay: "monthYear",
			WeekdayFormat:    "short",
			WeekStartDay:     0,
			BorderWidth:      1,
			BorderColor:      SolidFill("#000"),
			FontColor:        SolidFill("#000"),
			FontWeight:       100,
			TextSize:         10,
			MonthAlignment:   "center",
			WeekAlignment:    "center",
			DayAlignment:     "right",
		},
		Colors: Colors{
			Diverging: false,
		},
		DataLabels: DataLabels{
			Show:       true,
			Unit:       0,
			FontColor:  SolidFill("#000"),
			FontWeight: 100,
			TextSize:   8,
			Alignment:  "center",
		},
		WeekNumbers: WeekNumbers{
			Show:       false,
			UseISO:     false,
			Placement:  "left",
			FontColor:  SolidFill("#000"),
			FontWeight: 100,
			TextSize:   8,
			Alignment:  "center",
		},
	}
}
