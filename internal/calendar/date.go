package calendar

import (
	"math"
	"strings"
	"time"

	"github.com/jask/jaskcal/internal/format"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
}

// ParseDate interprets a category value as a date. Strings are tried against a
// fixed set of layouts in loc; numbers are Unix milliseconds. loc may be nil
// for UTC.
func ParseDate(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case bool, nil:
		return time.Time{}, false
	}
	ms, ok := format.ToFloat(v)
	if !ok || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(loc), true
}

func isDate(v any) bool {
	switch x := v.(type) {
	case time.Time:
		return true
	case *time.Time:
		return x != nil
	}
	return false
}
