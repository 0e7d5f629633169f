package tui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/settings"
)

// colorScale maps measure values onto the configured sequential or
// diverging gradient.
type colorScale struct {
	diverging        bool
	start, mid, end  colorful.Color
	noData           colorful.Color
	min, center, max float64
}

func newColorScale(c settings.Colors, points []calendar.DataPoint) colorScale {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !p.Value.Valid() {
			continue
		}
		v := p.Value.Float()
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}
	s := colorScale{
		diverging: c.Diverging,
		start:     parseColor(c.StartColor.ColorOr(string(defaultStartColor)), defaultStartColor),
		mid:       parseColor(c.CenterColor.ColorOr(string(defaultCenterColor)), defaultCenterColor),
		end:       parseColor(c.EndColor.ColorOr(string(defaultEndColor)), defaultEndColor),
		noData:    parseColor(c.NoDataColor.ColorOr(string(defaultNoDataColor)), defaultNoDataColor),
		min:       floatOr(c.MinValue, lo),
		max:       floatOr(c.MaxValue, hi),
	}
	s.center = floatOr(c.CenterValue, (s.min+s.max)/2)
	return s
}

// at returns the color for v; NaN maps to the no-data color.
func (s colorScale) at(v float64) colorful.Color {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s.noData
	}
	if !s.diverging {
		return s.start.BlendLab(s.end, ratio(v, s.min, s.max)).Clamped()
	}
	if v <= s.center {
		return s.start.BlendLab(s.mid, ratio(v, s.min, s.center)).Clamped()
	}
	return s.mid.BlendLab(s.end, ratio(v, s.center, s.max)).Clamped()
}

func ratio(v, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

// dim blends c toward the background by 1-opacity.
func dim(c colorful.Color, opacity float64) colorful.Color {
	if opacity >= 1 {
		return c
	}
	bg := parseColor(string(colorBase), colorBase)
	return c.BlendRgb(bg, 1-opacity).Clamped()
}

func parseColor(hex string, fallback lipgloss.Color) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(string(fallback))
	return c
}

func toLipgloss(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

func floatOr(p *float64, fallback float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return fallback
	}
	return *p
}
