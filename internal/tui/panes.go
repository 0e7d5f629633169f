package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskcal/internal/settings"
	"github.com/jask/jaskcal/internal/tooltip"
)

const paneWidth = 34

func (m *Model) renderTooltip() string {
	key, ok := m.cursorKey()
	if !ok {
		return paneStyle.Width(paneWidth).Render(emptyStyle.Render("No data for this day."))
	}
	items := m.visual.Tooltip(key)
	lines := make([]string, 0, len(items)+1)
	if len(items) > 0 && items[0].Header != "" {
		lines = append(lines, titleStyle.Render(items[0].Header))
	}
	for _, it := range items {
		if it.DisplayName == tooltip.NoData {
			lines = append(lines, emptyStyle.Render(it.DisplayName))
			continue
		}
		lines = append(lines, labelStyle.Render(truncate(it.DisplayName, paneWidth/2))+" "+valueStyle.Render(it.Value))
	}
	return paneStyle.Width(paneWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSettings() string {
	var lines []string
	for _, name := range settings.Objects {
		for _, inst := range m.visual.Enumerate(name) {
			lines = append(lines, titleStyle.Render(inst.ObjectName))
			props := make([]string, 0, len(inst.Properties))
			for p := range inst.Properties {
				props = append(props, p)
			}
			slices.Sort(props)
			for _, p := range props {
				lines = append(lines, "  "+labelStyle.Render(p)+" "+valueStyle.Render(describe(inst.Properties[p])))
			}
		}
	}
	visible := m.height - 8
	if visible < 5 {
		visible = 20
	}
	if m.settingsScroll > len(lines)-1 {
		m.settingsScroll = max(len(lines)-1, 0)
	}
	end := min(m.settingsScroll+visible, len(lines))
	return focusPaneStyle.Width(paneWidth + 8).Render(lipgloss.JoinVertical(lipgloss.Left, lines[m.settingsScroll:end]...))
}

// describe renders a property value for the settings pane.
func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case settings.Fill:
		if c := v.ColorOr(""); c != "" {
			return c
		}
		return "-"
	case *float64:
		if v == nil {
			return "-"
		}
		return fmt.Sprint(*v)
	case *int:
		if v == nil {
			return "-"
		}
		return fmt.Sprint(*v)
	}
	return fmt.Sprint(v)
}
