package format

import (
	"strconv"
	"strings"
)

// pattern is a parsed format string.
type pattern struct {
	general  bool
	date     bool
	layout   string
	prefix   string
	suffix   string
	grouping bool
	percent  bool
	minFrac  int
	maxFrac  int
}

const generalMaxFrac = 15

var generalPattern = pattern{general: true, maxFrac: generalMaxFrac}

// parsePattern understands general formats, the N/F/P/C standard formats,
// custom numeric patterns such as "$#,0.00" or "0.0 %", and .NET style date
// patterns. Only the first ';' section is used.
func parsePattern(s string) pattern {
	s = strings.TrimSpace(s)
	switch s {
	case "", "G", "g", "General", "general":
		return generalPattern
	}
	if p, ok := parseStandard(s); ok {
		return p
	}
	s = firstSection(s)
	if isDatePattern(s) {
		return pattern{date: true, layout: dateLayout(s)}
	}
	return parseCustom(s)
}

func parseStandard(s string) (pattern, bool) {
	if len(s) == 0 || len(s) > 3 {
		return pattern{}, false
	}
	digits := 2
	if len(s) > 1 {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return pattern{}, false
		}
		digits = n
	}
	p := pattern{minFrac: digits, maxFrac: digits}
	switch s[0] {
	case 'N', 'n':
		p.grouping = true
	case 'F', 'f':
	case 'P', 'p':
		p.grouping = true
		p.percent = true
		p.suffix = "%"
	case 'C', 'c':
		p.grouping = true
		p.prefix = "$"
	default:
		return pattern{}, false
	}
	return p, true
}

// firstSection cuts s at the first unquoted ';'.
func firstSection(s string) string {
	var quote rune
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ';':
			return s[:i]
		}
	}
	return s
}

func isDatePattern(s string) bool {
	hasDate := false
	for _, r := range unquoted(s) {
		switch r {
		case '0', '#':
			return false
		case 'y', 'M', 'd', 'H', 'h', 'm', 's':
			hasDate = true
		}
	}
	return hasDate
}

// unquoted returns s without quoted or escaped literals.
func unquoted(s string) string {
	var b strings.Builder
	var quote rune
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseCustom(s string) pattern {
	var (
		p        pattern
		prefix   strings.Builder
		suffix   strings.Builder
		quote    rune
		escaped  bool
		inNumber bool
		seenNum  bool
		afterDot bool
	)
	literal := func(r rune) {
		if seenNum {
			suffix.WriteRune(r)
		} else {
			prefix.WriteRune(r)
		}
	}
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
			literal(r)
			continue
		case r == '\\':
			escaped = true
			continue
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				literal(r)
			}
			continue
		case r == '"' || r == '\'':
			quote = r
			continue
		}

		switch r {
		case '0', '#':
			if seenNum && !inNumber {
				// a second digit run after literal text; treat as literal
				literal(r)
				continue
			}
			inNumber, seenNum = true, true
			if afterDot {
				p.maxFrac++
				if r == '0' {
					p.minFrac = p.maxFrac
				}
			}
		case ',':
			if inNumber && !afterDot {
				p.grouping = true
			} else if !inNumber {
				literal(r)
			}
		case '.':
			if inNumber || !seenNum {
				inNumber, seenNum, afterDot = true, true, true
			} else {
				literal(r)
			}
		case '%':
			p.percent = true
			inNumber = false
			literal(r)
		default:
			inNumber = false
			literal(r)
		}
	}
	if !seenNum {
		// no placeholders at all: the whole string is literal text
		return pattern{general: true, maxFrac: generalMaxFrac, prefix: prefix.String()}
	}
	p.prefix = prefix.String()
	p.suffix = suffix.String()
	return p
}

// dateLayout converts a .NET style date pattern into a Go layout.
func dateLayout(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		if r == '"' || r == '\'' {
			j := i + 1
			for j < len(runes) && runes[j] != r {
				b.WriteRune(runes[j])
				j++
			}
			i = j + 1
			continue
		}
		if r == '\\' && i+1 < len(runes) {
			b.WriteRune(runes[i+1])
			i += 2
			continue
		}
		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		b.WriteString(dateToken(r, n))
		i += n
	}
	return b.String()
}

func dateToken(r rune, n int) string {
	pick := func(opts ...string) string {
		if n > len(opts) {
			n = len(opts)
		}
		return opts[n-1]
	}
	switch r {
	case 'y':
		if n <= 2 {
			return "06"
		}
		return "2006"
	case 'M':
		return pick("1", "01", "Jan", "January")
	case 'd':
		return pick("2", "02", "Mon", "Monday")
	case 'H':
		return "15"
	case 'h':
		return pick("3", "03")
	case 'm':
		return pick("4", "04")
	case 's':
		return pick("5", "05")
	case 't':
		return "PM"
	}
	return strings.Repeat(string(r), n)
}
