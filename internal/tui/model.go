// Package tui is the terminal renderer for the calendar: a Bubble Tea model
// that paints visual frames and turns key presses into interaction events.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/settings"
	"github.com/jask/jaskcal/internal/visual"
)

// Host is what the model needs from the hosting environment.
type Host interface {
	Load(ctx context.Context) (*dataview.DataView, error)
	Toggle(ctx context.Context, object, property string, current bool) error
}

// Options configures a Model.
type Options struct {
	Title             string
	Locale            string
	Location          *time.Location
	PreserveSelection bool
	Logger            *slog.Logger
}

// Model is the Bubble Tea model. It is also the visual's renderer: the
// visual calls Render synchronously from inside Update.
type Model struct {
	ctx    context.Context
	host   Host
	opts   Options
	log    *slog.Logger
	keys   *KeyRegistry
	visual *visual.Visual
	frame  visual.Frame

	cursor         int
	showSettings   bool
	settingsScroll int
	status         string
	statusErr      bool
	loading        bool
	width          int
	height         int
}

type loadedMsg struct {
	dv  *dataview.DataView
	err error
}

type savedMsg struct {
	object, property string
	err              error
}

// New builds a model bound to host.
func New(ctx context.Context, host Host, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		ctx:     ctx,
		host:    host,
		opts:    opts,
		log:     log,
		keys:    NewKeyRegistry(),
		loading: true,
		status:  "Loading…",
	}
	m.visual = visual.New(visual.Options{
		Locale:            opts.Locale,
		Location:          opts.Location,
		PreserveSelection: opts.PreserveSelection,
		Logger:            log,
		Renderer:          m,
	})
	m.frame = m.visual.Frame()
	return m
}

// Render stores the frame painted by the next View.
func (m *Model) Render(f visual.Frame) {
	m.frame = f
}

// Visual exposes the driven visual.
func (m *Model) Visual() *visual.Visual { return m.visual }

func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *Model) loadCmd() tea.Cmd {
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		dv, err := host.Load(ctx)
		return loadedMsg{dv: dv, err: err}
	}
}

// toggleCmd persists the flip of a boolean leaf whose resolved value is
// current.
func (m *Model) toggleCmd(object, property string, current bool) tea.Cmd {
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		err := host.Toggle(ctx, object, property, current)
		return savedMsg{object: object, property: property, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("Load failed: %v", msg.err))
			return m, nil
		}
		m.visual.Update(msg.dv)
		m.resetCursor()
		m.status = fmt.Sprintf("%d days loaded.", len(m.frame.ViewModel.DataPoints))
		m.statusErr = false
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Save %s.%s failed: %v", msg.object, msg.property, msg.err))
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s.%s.", msg.object, msg.property)
		m.statusErr = false
		return m, m.loadCmd()
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) scope() string {
	if m.showSettings {
		return scopeSettings
	}
	return scopeGrid
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.keys.Lookup(msg.String(), m.scope())
	if b == nil {
		return m, nil
	}
	s := m.visual.ViewModel().Settings
	switch b.Action {
	case actionQuit:
		return m, tea.Quit
	case actionLeft:
		m.moveCursor(-1)
	case actionRight:
		m.moveCursor(1)
	case actionUp:
		m.moveCursor(-7)
	case actionDown:
		m.moveCursor(7)
	case actionClick, actionExtendClick:
		k, ok := m.cursorKey()
		if !ok {
			m.status = "No data for this day."
			return m, nil
		}
		m.visual.Click(k, b.Action == actionExtendClick)
		m.status = fmt.Sprintf("%d selected.", m.visual.Selection().Len())
	case actionClear:
		m.visual.ClearCatcher()
		m.status = "Selection cleared."
	case actionToggleLabels:
		return m, m.toggleCmd(settings.ObjectDataLabels, "show", s.DataLabels.Show)
	case actionToggleWeeks:
		return m, m.toggleCmd(settings.ObjectWeekNumbers, "show", s.WeekNumbers.Show)
	case actionToggleDiverge:
		return m, m.toggleCmd(settings.ObjectColors, "diverging", s.Colors.Diverging)
	case actionSettings:
		m.showSettings = true
		m.settingsScroll = 0
	case actionClose:
		m.showSettings = false
	case actionSettingsScroll:
		if k := msg.String(); k == "j" || k == "down" {
			m.settingsScroll++
		} else if m.settingsScroll > 0 {
			m.settingsScroll--
		}
	case actionReload:
		m.loading = true
		m.status = "Reloading…"
		return m, m.loadCmd()
	}
	m.statusErr = false
	return m, nil
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusErr = true
	m.log.Warn(text)
}

// grid lays out the current frame, or reports false when there is no month.
func (m *Model) grid() (monthGrid, bool) {
	vm := m.frame.ViewModel
	if vm == nil || vm.Month == nil || vm.Year == nil {
		return monthGrid{}, false
	}
	return layoutMonth(*vm.Year, *vm.Month, vm.Settings.Calendar.WeekStartDay, vm.DataPoints), true
}

func (m *Model) resetCursor() {
	g, ok := m.grid()
	if !ok {
		m.cursor = 0
		return
	}
	m.cursor = 1
	for d := 1; d <= g.days; d++ {
		if _, ok := g.byDay[d]; ok {
			m.cursor = d
			return
		}
	}
}

func (m *Model) moveCursor(delta int) {
	g, ok := m.grid()
	if !ok {
		return
	}
	next := m.cursor + delta
	if next < 1 || next > g.days {
		return
	}
	m.cursor = next
}

func (m *Model) cursorKey() (string, bool) {
	g, ok := m.grid()
	if !ok {
		return "", false
	}
	i, ok := g.byDay[m.cursor]
	if !ok {
		return "", false
	}
	return m.frame.ViewModel.DataPoints[i].Key, true
}

func (m *Model) View() string {
	title := m.opts.Title
	if title == "" {
		title = "jaskcal"
	}
	header := headerBarStyle.Render(titleStyle.Render("jaskcal") + "  " + title)

	var body string
	if g, ok := m.grid(); ok {
		vm := m.frame.ViewModel
		grid := gridView{grid: g, points: vm.DataPoints, opacity: m.frame.Opacity, settings: vm.Settings, cursor: m.cursor}.render()
		side := m.renderTooltip()
		if m.showSettings {
			side = m.renderSettings()
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", side)
	} else if m.loading {
		body = emptyStyle.Render("Loading…")
	} else {
		body = emptyStyle.Render("No calendar data. Check the date and measure column bindings.")
	}

	status := m.status
	if m.statusErr {
		status = errorStyle.Render(status)
	}
	return strings.Join([]string{header, "", body, "", statusBarStyle.Render(status), m.renderFooter(m.keys.HelpBindings(m.scope()))}, "\n")
}

func (m *Model) renderFooter(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(help.Key)+" "+helpDescStyle.Render(help.Desc))
	}
	content := strings.Join(parts, "  ")
	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}
