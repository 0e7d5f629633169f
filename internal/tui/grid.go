package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/settings"
)

const (
	cellWidth       = 10
	weekNumberWidth = 4
)

// gridCell is one day slot. point is the index of the day's data point in
// the frame, or -1.
type gridCell struct {
	day   int
	point int
}

// monthGrid is the week-by-weekday layout of one month.
type monthGrid struct {
	year      int
	month     time.Month
	days      int
	weekStart time.Weekday
	offset    int
	weeks     [][7]gridCell
	rowStarts []time.Time
	byDay     map[int]int
}

// layoutMonth places every day of the month. weekStartDay is taken modulo 7
// so out-of-range settings still produce a grid.
func layoutMonth(year int, month time.Month, weekStartDay int, points []calendar.DataPoint) monthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	g := monthGrid{
		year:      year,
		month:     month,
		days:      first.AddDate(0, 1, -1).Day(),
		weekStart: time.Weekday(((weekStartDay % 7) + 7) % 7),
		byDay:     make(map[int]int),
	}
	for i, p := range points {
		if p.Date == nil || p.Date.Year() != year || p.Date.Month() != month {
			continue
		}
		if _, ok := g.byDay[p.Date.Day()]; !ok {
			g.byDay[p.Date.Day()] = i
		}
	}

	g.offset = (int(first.Weekday()) - int(g.weekStart) + 7) % 7
	rows := (g.offset + g.days + 6) / 7
	g.weeks = make([][7]gridCell, rows)
	g.rowStarts = make([]time.Time, rows)
	for r := range g.weeks {
		g.rowStarts[r] = first.AddDate(0, 0, r*7-g.offset)
		for c := range g.weeks[r] {
			g.weeks[r][c] = gridCell{point: -1}
		}
	}
	for d := 1; d <= g.days; d++ {
		pos := g.offset + d - 1
		cell := gridCell{day: d, point: -1}
		if i, ok := g.byDay[d]; ok {
			cell.point = i
		}
		g.weeks[pos/7][pos%7] = cell
	}
	return g
}

// weekNumber numbers row r. ISO weeks are taken from the row's Monday; US
// weeks start on Sunday and the week holding January 1 is week 1, so they are
// counted from the row's Saturday.
func (g monthGrid) weekNumber(r int, iso bool) int {
	start := g.rowStarts[r]
	if iso {
		monday := start.AddDate(0, 0, (int(time.Monday)-int(g.weekStart)+7)%7)
		_, w := monday.ISOWeek()
		return w
	}
	saturday := start.AddDate(0, 0, (int(time.Saturday)-int(g.weekStart)+7)%7)
	jan1 := time.Date(saturday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return (saturday.YearDay()+int(jan1.Weekday())-1)/7 + 1
}

func monthHeader(display string, month time.Month, year int) string {
	switch display {
	case "month":
		return month.String()
	case "year":
		return strconv.Itoa(year)
	}
	return fmt.Sprintf("%s %d", month, year)
}

func weekdayName(d time.Weekday, format string) string {
	name := d.String()
	switch format {
	case "long":
		return name
	case "narrow":
		return name[:1]
	}
	return name[:3]
}

func alignment(s string, def lipgloss.Position) lipgloss.Position {
	switch strings.ToLower(s) {
	case "left":
		return lipgloss.Left
	case "center":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	}
	return def
}

// gridView renders the month with per-cell colors and opacity.
type gridView struct {
	grid     monthGrid
	points   []calendar.DataPoint
	opacity  []float64
	settings settings.Settings
	cursor   int
}

func (v gridView) render() string {
	s := v.settings
	totalWidth := cellWidth * 7
	if s.WeekNumbers.Show {
		totalWidth += weekNumberWidth
	}

	header := lipgloss.PlaceHorizontal(totalWidth, alignment(s.Calendar.MonthAlignment, lipgloss.Center),
		titleStyle.Render(monthHeader(s.Calendar.MonthYearDisplay, v.grid.month, v.grid.year)))

	names := make([]string, 7)
	for c := range names {
		wd := time.Weekday((int(v.grid.weekStart) + c) % 7)
		names[c] = lipgloss.PlaceHorizontal(cellWidth, alignment(s.Calendar.WeekAlignment, lipgloss.Center),
			weekdayStyle.Render(truncate(weekdayName(wd, s.Calendar.WeekdayFormat), cellWidth)))
	}
	weekdays := v.withWeekColumn(strings.Join(names, ""), "")

	scale := newColorScale(s.Colors, v.points)
	lines := []string{header, weekdays}
	for r, week := range v.grid.weeks {
		cells := make([]string, 7)
		for c, cell := range week {
			cells[c] = v.renderCell(cell, scale)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		wk := ""
		if s.WeekNumbers.Show {
			wk = weekNumberStyle.Render(strconv.Itoa(v.grid.weekNumber(r, s.WeekNumbers.UseISO)))
		}
		lines = append(lines, v.withWeekColumn(row, wk))
	}
	return strings.Join(lines, "\n")
}

func (v gridView) withWeekColumn(row, label string) string {
	if !v.settings.WeekNumbers.Show {
		return row
	}
	col := lipgloss.NewStyle().
		Width(weekNumberWidth).
		Align(alignment(v.settings.WeekNumbers.Alignment, lipgloss.Center)).
		Render(label)
	if v.settings.WeekNumbers.Placement == "right" {
		return lipgloss.JoinHorizontal(lipgloss.Top, row, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, col, row)
}

func (v gridView) renderCell(cell gridCell, scale colorScale) string {
	s := v.settings
	style := lipgloss.NewStyle().Width(cellWidth).Height(2)
	if cell.day == 0 {
		return style.Render("")
	}

	opacity := 1.0
	value := ""
	bg := scale.noData
	selected := false
	if cell.point >= 0 {
		p := v.points[cell.point]
		bg = scale.at(p.Value.Float())
		if cell.point < len(v.opacity) {
			opacity = v.opacity[cell.point]
		}
		if s.DataLabels.Show {
			value = p.ValueText
		}
		selected = p.Selected
	}
	bg = dim(bg, opacity)
	dayFg := dim(parseColor(s.Calendar.FontColor.ColorOr(""), colorText), opacity)
	labelFg := dim(parseColor(s.DataLabels.FontColor.ColorOr(""), colorText), opacity)

	day := strconv.Itoa(cell.day)
	if selected {
		day = "●" + day
	}
	dayStyle := lipgloss.NewStyle().Foreground(toLipgloss(dayFg)).Bold(s.Calendar.FontWeight >= 600)
	if cell.day == v.cursor {
		day = "[" + day + "]"
		dayStyle = dayStyle.Underline(true).Bold(true)
	}
	top := lipgloss.PlaceHorizontal(cellWidth, alignment(s.Calendar.DayAlignment, lipgloss.Right), dayStyle.Render(day))
	bottom := lipgloss.PlaceHorizontal(cellWidth, alignment(s.DataLabels.Alignment, lipgloss.Center),
		lipgloss.NewStyle().Foreground(toLipgloss(labelFg)).Bold(s.DataLabels.FontWeight >= 600).Render(truncate(value, cellWidth)))

	return style.Background(toLipgloss(bg)).Render(top + "\n" + bottom)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
