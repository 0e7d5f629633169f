package calendar

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/format"
	"github.com/jask/jaskcal/internal/settings"
)

// Options configures Build. The zero value uses settings.Defaults(), the
// invariant locale and UTC.
type Options struct {
	Defaults *settings.Settings
	Locale   string
	Location *time.Location
	Logger   *slog.Logger
}

// Build converts a data view into a view-model. It never fails: a view
// without a category series, category values or a measure series yields an
// empty view-model carrying the resolved settings.
func Build(dv *dataview.DataView, opts Options) *ViewModel {
	defaults := settings.Defaults()
	if opts.Defaults != nil {
		defaults = *opts.Defaults
	}
	var objects dataview.Objects
	if dv != nil {
		objects = dv.Metadata.Objects
	}
	s := settings.Resolve(objects, defaults, opts.Logger)

	category := dv.Category()
	measure := dv.Measure()
	if category == nil || category.Source == nil || len(category.Values) == 0 || measure == nil {
		if opts.Logger != nil {
			opts.Logger.Debug("calendar input incomplete, rendering empty view")
		}
		return Empty(s)
	}

	vm := &ViewModel{Settings: s, HasHighlights: measure.Highlights != nil}
	if first, ok := ParseDate(category.Values[0], opts.Location); ok {
		month, year := first.Month(), first.Year()
		vm.Month, vm.Year = &month, &year
	} else if opts.Logger != nil {
		opts.Logger.Debug("first category is not a date", slog.Any("value", category.Values[0]))
	}

	columns, rows := stripCategory(dv.Metadata.Columns, dv.Rows())

	valueFormat := format.New(format.Options{
		Unit:       s.DataLabels.Unit,
		Precision:  s.DataLabels.Precision,
		Locale:     format.Invariant,
		NoGrouping: true,
	})
	var measureFormat string
	if measure.Source != nil {
		measureFormat = measure.Source.Format
	}
	textFormat := format.New(format.Options{
		Format:    measureFormat,
		Unit:      s.DataLabels.Unit,
		Precision: s.DataLabels.Precision,
		Locale:    opts.Locale,
	})

	n := max(len(category.Values), len(measure.Values))
	keys := newKeyer(category.Source.QueryName)
	vm.DataPoints = make([]DataPoint, 0, n)
	for i := 0; i < n; i++ {
		cat := dataview.At(category.Values, i)
		raw := dataview.At(measure.Values, i)
		p := DataPoint{
			Category:  cat,
			Value:     Number(format.ParseLeadingFloat(valueFormat.Format(raw))),
			ValueText: textFormat.Format(raw),
			Key:       keys.next(cat),
			Highlight: highlighted(measure.Highlights, i),
		}
		if i < len(rows) {
			p.Fields = Pair(columns, rows[i])
		}
		if d, ok := ParseDate(cat, opts.Location); ok {
			p.Date = &d
		}
		vm.DataPoints = append(vm.DataPoints, p)
	}
	return vm
}

// highlighted reports whether point i is highlighted. With a highlight series
// present, only an explicit nil entry clears the flag; entries past the end of
// a short series count as highlighted.
func highlighted(highlights []any, i int) bool {
	if highlights == nil {
		return false
	}
	return i >= len(highlights) || highlights[i] != nil
}

// stripCategory removes the date column from the tooltip columns and from
// every row. The column declaring the category role wins; without one, the
// first date-typed value of each row is removed instead and the columns are
// left as they are.
func stripCategory(columns []dataview.Column, rows [][]any) ([]dataview.Column, [][]any) {
	idx := -1
	for i, c := range columns {
		if c.HasRole(dataview.RoleCategory) {
			idx = i
			break
		}
	}

	stripped := make([][]any, len(rows))
	if idx < 0 {
		for r, row := range rows {
			stripped[r] = removeAt(row, firstDate(row))
		}
		return columns, stripped
	}
	for r, row := range rows {
		stripped[r] = removeAt(row, idx)
	}
	return removeColumn(columns, idx), stripped
}

func firstDate(row []any) int {
	for i, v := range row {
		if isDate(v) {
			return i
		}
	}
	return -1
}

func removeAt(row []any, i int) []any {
	out := make([]any, 0, len(row))
	for j, v := range row {
		if j != i {
			out = append(out, v)
		}
	}
	return out
}

func removeColumn(columns []dataview.Column, i int) []dataview.Column {
	out := make([]dataview.Column, 0, len(columns))
	for j, c := range columns {
		if j != i {
			out = append(out, c)
		}
	}
	return out
}

// Pair zips columns with values. The result stops at the shorter of the two.
func Pair(columns []dataview.Column, values []any) []Field {
	n := min(len(columns), len(values))
	fields := make([]Field, n)
	for i := 0; i < n; i++ {
		fields[i] = Field{Column: columns[i], Value: values[i]}
	}
	return fields
}

// keyer derives stable per-point identities from the category value.
type keyer struct {
	query string
	seen  map[string]int
}

func newKeyer(query string) *keyer {
	return &keyer{query: query, seen: make(map[string]int)}
}

func (k *keyer) next(category any) string {
	text := categoryText(category)
	name := "cal:" + k.query + "|" + text
	if n := k.seen[text]; n > 0 {
		name += "#" + strconv.Itoa(n)
	}
	k.seen[text]++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func categoryText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case string:
		return x
	}
	return fmt.Sprint(v)
}
