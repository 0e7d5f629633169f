// Package visual drives one calendar instance: it rebuilds the view-model on
// every host refresh, routes interaction events through the selection
// reducer, and hands each resulting frame to the renderer.
package visual

import (
	"log/slog"
	"time"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/selection"
	"github.com/jask/jaskcal/internal/settings"
	"github.com/jask/jaskcal/internal/tooltip"
)

// Frame is what the renderer paints: the view-model with Selected applied and
// one opacity per data point.
type Frame struct {
	ViewModel *calendar.ViewModel
	Opacity   []float64
}

// Renderer paints frames. Render is called synchronously after every refresh
// and every interaction event.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Render(fr Frame) { f(fr) }

// Options configures a Visual.
type Options struct {
	Locale   string
	Location *time.Location
	Defaults *settings.Settings
	// PreserveSelection keeps selected keys that survive a refresh instead
	// of clearing the selection.
	PreserveSelection bool
	Logger            *slog.Logger
	Renderer          Renderer
}

// Visual is not safe for concurrent use; the host calls it from one
// goroutine, so a refresh always finishes before the next event.
type Visual struct {
	opts  Options
	log   *slog.Logger
	vm    *calendar.ViewModel
	sel   selection.Set
	frame Frame
}

// New returns a Visual holding an empty view-model.
func New(opts Options) *Visual {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	defaults := settings.Defaults()
	if opts.Defaults != nil {
		defaults = *opts.Defaults
	}
	v := &Visual{opts: opts, log: log, sel: selection.Set{}}
	v.vm = calendar.Empty(defaults)
	v.frame = Frame{ViewModel: v.vm, Opacity: []float64{}}
	return v
}

// Update rebuilds the view-model from dv, rebinds the selection and renders.
func (v *Visual) Update(dv *dataview.DataView) {
	v.vm = calendar.Build(dv, calendar.Options{
		Defaults: v.opts.Defaults,
		Locale:   v.opts.Locale,
		Location: v.opts.Location,
		Logger:   v.log,
	})
	if v.opts.PreserveSelection {
		v.sel = selection.Retain(v.sel, v.vm.Keys())
	} else {
		v.sel = selection.Set{}
	}
	v.log.Debug("calendar updated",
		slog.Int("points", len(v.vm.DataPoints)),
		slog.Bool("highlights", v.vm.HasHighlights),
		slog.Int("selected", v.sel.Len()))
	v.render()
}

// Dispatch applies an interaction event and renders. Clicks on keys that are
// not in the current view-model are ignored.
func (v *Visual) Dispatch(e selection.Event) {
	if c, ok := e.(selection.Click); ok && v.vm.Point(c.Key) == nil {
		v.log.Debug("click on unknown key ignored", slog.String("key", c.Key))
		return
	}
	v.sel = selection.Reduce(v.sel, e)
	v.render()
}

// Click dispatches a cell click.
func (v *Visual) Click(key string, extend bool) {
	v.Dispatch(selection.Click{Key: key, Extend: extend})
}

// ClearCatcher dispatches a background click.
func (v *Visual) ClearCatcher() {
	v.Dispatch(selection.ClearCatcher{})
}

// Tooltip assembles the tooltip for the point with key.
func (v *Visual) Tooltip(key string) []tooltip.Item {
	dl := v.vm.Settings.DataLabels
	return tooltip.Assemble(v.vm.Point(key), tooltip.Options{
		Locale:    v.opts.Locale,
		Unit:      dl.Unit,
		Precision: dl.Precision,
	})
}

// Enumerate reports the resolved values of one settings object.
func (v *Visual) Enumerate(objectName string) []settings.ObjectInstance {
	return settings.Enumerate(v.vm.Settings, objectName)
}

// ViewModel returns the last built view-model, without selection applied.
func (v *Visual) ViewModel() *calendar.ViewModel { return v.vm }

// Selection returns the current selection.
func (v *Visual) Selection() selection.Set { return v.sel }

// Frame returns the last rendered frame.
func (v *Visual) Frame() Frame { return v.frame }

func (v *Visual) render() {
	vm := *v.vm
	vm.DataPoints = selection.Apply(v.vm.DataPoints, v.sel)
	v.frame = Frame{ViewModel: &vm, Opacity: selection.Render(vm.DataPoints, vm.HasHighlights)}
	if v.opts.Renderer != nil {
		v.opts.Renderer.Render(v.frame)
	}
}
