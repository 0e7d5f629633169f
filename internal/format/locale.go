package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Invariant is the locale used for machine-facing numbers.
const Invariant = "en"

// shortDates maps supported locales to a short date layout. Index 0 is the
// fallback for anything the matcher cannot place.
var shortDates = []struct {
	tag    language.Tag
	layout string
}{
	{language.Und, "2006-01-02"},
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Japanese, "2006/1/2"},
	{language.Chinese, "2006/1/2"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(shortDates))
	for i, d := range shortDates {
		tags[i] = d.tag
	}
	return language.NewMatcher(tags)
}()

func tagFor(locale string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return language.Und
	}
	return tag
}

func printerFor(locale string) *message.Printer {
	return message.NewPrinter(tagFor(locale))
}

// DateLayout returns the short date layout for locale.
func DateLayout(locale string) string {
	tag := tagFor(locale)
	if tag == language.Und {
		return shortDates[0].layout
	}
	_, idx, conf := dateMatcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(shortDates) {
		return shortDates[0].layout
	}
	return shortDates[idx].layout
}

// FormatDate renders t as a locale short date.
func FormatDate(t time.Time, locale string) string {
	return t.Format(DateLayout(locale))
}
