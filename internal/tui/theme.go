package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorAccent = colorPink
	colorBrand  = colorPink
	colorFocus  = colorLavender
	colorError  = colorRed
	colorInfo   = colorTeal
)

// Scale fallbacks for fills the settings leave unset.
const (
	defaultStartColor  = colorSurface1
	defaultCenterColor = colorYellow
	defaultEndColor    = colorGreen
	defaultNoDataColor = colorMantle
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Bold(true)

	weekNumberStyle = lipgloss.NewStyle().
			Foreground(colorOverlay1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().Foreground(colorError)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusPaneStyle = paneStyle.BorderForeground(colorFocus)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	emptyStyle = lipgloss.NewStyle().Foreground(colorOverlay0).Italic(true)
)
