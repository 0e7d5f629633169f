// Package format renders measure and column values for display: display units,
// fixed precision, format strings and locale separators.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Blank is the text shown for a missing value.
const Blank = "(Blank)"

// Options configures a Formatter. Unit selects a display-unit scale (see
// ScaleFor). Precision, when non-nil, fixes the number of fraction digits and
// wins over the format string.
type Options struct {
	Format     string
	Unit       float64
	Precision  *int
	Locale     string
	NoGrouping bool
}

// Formatter formats single values. It is safe for concurrent use.
type Formatter struct {
	pattern   pattern
	unit      Unit
	precision *int
	locale    string
	grouping  bool
	printer   *message.Printer
}

// New builds a Formatter from opts.
func New(opts Options) *Formatter {
	p := parsePattern(opts.Format)
	grouping := p.grouping
	if p.general {
		grouping = true
	}
	if opts.NoGrouping {
		grouping = false
	}
	var precision *int
	if opts.Precision != nil {
		n := min(max(*opts.Precision, 0), generalMaxFrac)
		precision = &n
	}
	return &Formatter{
		pattern:   p,
		unit:      ScaleFor(opts.Unit),
		precision: precision,
		locale:    opts.Locale,
		grouping:  grouping,
		printer:   printerFor(opts.Locale),
	}
}

// Format renders v. nil renders as Blank.
func (f *Formatter) Format(v any) string {
	switch x := v.(type) {
	case nil:
		return Blank
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if f.pattern.date {
			return x.Format(f.pattern.layout)
		}
		return FormatDate(x, f.locale)
	case *time.Time:
		if x == nil {
			return Blank
		}
		return f.Format(*x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return f.number(n)
	}
	if n, ok := ToFloat(v); ok {
		return f.number(n)
	}
	return fmt.Sprint(v)
}

func (f *Formatter) number(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}

	p := f.pattern
	symbol := ""
	if p.percent {
		x *= 100
	} else if f.unit.Symbol != "" {
		x /= f.unit.Divisor
		symbol = f.unit.Symbol
	}

	minFrac, maxFrac := p.minFrac, p.maxFrac
	if f.precision != nil {
		minFrac, maxFrac = *f.precision, *f.precision
	}

	abs := math.Abs(x)
	need := shortestFrac(abs)
	if maxFrac >= generalMaxFrac {
		maxFrac = need
	} else if need > maxFrac {
		abs = roundHalfUp(abs, maxFrac)
	}
	minFrac = min(minFrac, maxFrac)
	opts := []number.Option{
		number.MinFractionDigits(minFrac),
		number.MaxFractionDigits(maxFrac),
	}
	if !f.grouping {
		opts = append(opts, number.NoSeparator())
	}

	var b strings.Builder
	if x < 0 && abs != 0 {
		b.WriteByte('-')
	}
	b.WriteString(p.prefix)
	b.WriteString(f.printer.Sprint(number.Decimal(abs, opts...)))
	b.WriteString(symbol)
	b.WriteString(p.suffix)
	return b.String()
}

func roundHalfUp(x float64, digits int) float64 {
	pow := math.Pow10(digits)
	r := math.Round(x*pow) / pow
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return x
	}
	return r
}

// shortestFrac is the fraction digit count of the shortest decimal that
// round-trips x, capped at generalMaxFrac.
func shortestFrac(x float64) int {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	return min(len(s)-dot-1, generalMaxFrac)
}

// ToFloat converts the numeric kinds a data source can produce to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		n, err := x.Float64()
		return n, err == nil
	}
	return 0, false
}

// ParseLeadingFloat parses the longest numeric prefix of s after leading
// whitespace, the way a browser's parseFloat does. It returns NaN when s has
// no numeric prefix, so "1.5K" yields 1.5 and "(Blank)" yields NaN.
func ParseLeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f\u00a0\ufeff")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
