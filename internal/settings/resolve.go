package settings

import (
	"log/slog"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/jask/jaskcal/internal/dataview"
)

// Resolve merges the host property bag onto defaults. A leaf takes the
// override whenever the host supplied that key for that object, including an
// explicit nil or false; otherwise it keeps the default. Values are not range
// checked. logger may be nil.
func Resolve(overrides dataview.Objects, defaults Settings, logger *slog.Logger) Settings {
	r := resolver{log: logger}
	return Settings{
		Calendar:    r.calendar(overrides[ObjectCalendar], defaults.Calendar),
		Colors:      r.colors(overrides[ObjectColors], defaults.Colors),
		DataLabels:  r.dataLabels(overrides[ObjectDataLabels], defaults.DataLabels),
		WeekNumbers: r.weekNumbers(overrides[ObjectWeekNumbers], defaults.WeekNumbers),
	}
}

type resolver struct {
	log *slog.Logger
}

func (r resolver) calendar(g map[string]any, d Calendar) Calendar {
	return Calendar{
		MonthYearDisplay: leaf(r, g, ObjectCalendar, "monthYearDisplay", d.MonthYearDisplay),
		WeekdayFormat:    leaf(r, g, ObjectCalendar, "weekdayFormat", d.WeekdayFormat),
		WeekStartDay:     leaf(r, g, ObjectCalendar, "weekStartDay", d.WeekStartDay),
		BorderWidth:      leaf(r, g, ObjectCalendar, "borderWidth", d.BorderWidth),
		BorderColor:      leaf(r, g, ObjectCalendar, "borderColor", d.BorderColor),
		FontColor:        leaf(r, g, ObjectCalendar, "fontColor", d.FontColor),
		FontWeight:       leaf(r, g, ObjectCalendar, "fontWeight", d.FontWeight),
		TextSize:         leaf(r, g, ObjectCalendar, "textSize", d.TextSize),
		MonthAlignment:   leaf(r, g, ObjectCalendar, "monthAlignment", d.MonthAlignment),
		WeekAlignment:    leaf(r, g, ObjectCalendar, "weekAlignment", d.WeekAlignment),
		DayAlignment:     leaf(r, g, ObjectCalendar, "dayAlignment", d.DayAlignment),
	}
}

func (r resolver) colors(g map[string]any, d Colors) Colors {
	return Colors{
		Diverging:   leaf(r, g, ObjectColors, "diverging", d.Diverging),
		StartColor:  leaf(r, g, ObjectColors, "startColor", d.StartColor),
		CenterColor: leaf(r, g, ObjectColors, "centerColor", d.CenterColor),
		EndColor:    leaf(r, g, ObjectColors, "endColor", d.EndColor),
		MinValue:    leaf(r, g, ObjectColors, "minValue", d.MinValue),
		CenterValue: leaf(r, g, ObjectColors, "centerValue", d.CenterValue),
		MaxValue:    leaf(r, g, ObjectColors, "maxValue", d.MaxValue),
		NoDataColor: leaf(r, g, ObjectColors, "noDataColor", d.NoDataColor),
	}
}

func (r resolver) dataLabels(g map[string]any, d DataLabels) DataLabels {
	return DataLabels{
		Show:       leaf(r, g, ObjectDataLabels, "show", d.Show),
		Unit:       leaf(r, g, ObjectDataLabels, "unit", d.Unit),
		Precision:  leaf(r, g, ObjectDataLabels, "precision", d.Precision),
		FontColor:  leaf(r, g, ObjectDataLabels, "fontColor", d.FontColor),
		FontWeight: leaf(r, g, ObjectDataLabels, "fontWeight", d.FontWeight),
		TextSize:   leaf(r, g, ObjectDataLabels, "textSize", d.TextSize),
		Alignment:  leaf(r, g, ObjectDataLabels, "alignment", d.Alignment),
	}
}

func (r resolver) weekNumbers(g map[string]any, d WeekNumbers) WeekNumbers {
	return WeekNumbers{
		Show:       leaf(r, g, ObjectWeekNumbers, "show", d.Show),
		UseISO:     leaf(r, g, ObjectWeekNumbers, "useIso", d.UseISO),
		Placement:  leaf(r, g, ObjectWeekNumbers, "placement", d.Placement),
		FontColor:  leaf(r, g, ObjectWeekNumbers, "fontColor", d.FontColor),
		FontWeight: leaf(r, g, ObjectWeekNumbers, "fontWeight", d.FontWeight),
		TextSize:   leaf(r, g, ObjectWeekNumbers, "textSize", d.TextSize),
		Alignment:  leaf(r, g, ObjectWeekNumbers, "alignment", d.Alignment),
	}
}

// leaf returns the decoded override for object.property, or def when the host
// did not supply the key. An explicit nil decodes to the zero value of T.
func leaf[T any](r resolver, group map[string]any, object, property string, def T) T {
	raw, ok := group[property]
	if !ok {
		return def
	}
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook:       stringToFillHook,
	})
	if err != nil {
		return def
	}
	if err := dec.Decode(raw); err != nil {
		if r.log != nil {
			r.log.Debug("settings override ignored",
				slog.String("object", object),
				slog.String("property", property),
				slog.Any("value", raw),
				slog.Any("error", err))
		}
		return def
	}
	return out
}

var fillType = reflect.TypeOf(Fill{})

// stringToFillHook accepts a bare color string where a Fill is expected.
func stringToFillHook(from, to reflect.Type, data any) (any, error) {
	if to != fillType || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{"solid": map[string]any{"color": data}}, nil
}
