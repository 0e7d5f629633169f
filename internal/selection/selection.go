// Package selection is the click/clear state machine for calendar cells and
// the opacity rule that turns selection and cross-filter highlighting into
// per-cell emphasis.
package selection

import (
	"sort"

	"github.com/jask/jaskcal/internal/calendar"
)

// Opacity values.
const (
	Dimmed  = 0.4
	Default = 1.0
)

// Set is a set of selected data point keys. Treat it as immutable: Reduce
// returns a new Set rather than changing its argument.
type Set map[string]struct{}

// NewSet returns a set holding keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is selected.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Len is the number of selected keys.
func (s Set) Len() int { return len(s) }

// Keys returns the selected keys sorted.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Event is an interaction dispatched by the rendering collaborator.
type Event interface {
	event()
}

// Click is a click on the cell with Key. Extend is the ctrl-click variant.
type Click struct {
	Key    string
	Extend bool
}

// ClearCatcher is a click on the background outside every cell.
type ClearCatcher struct{}

func (Click) event()        {}
func (ClearCatcher) event() {}

// Reduce applies e to s and returns the resulting selection.
//
// A plain click selects only its key, unless that key already is the sole
// selection, in which case it clears it. An extending click toggles its key
// and keeps the rest. ClearCatcher empties the selection.
func Reduce(s Set, e Event) Set {
	switch e := e.(type) {
	case Click:
		if e.Extend {
			out := s.clone()
			if out.Has(e.Key) {
				delete(out, e.Key)
			} else {
				out[e.Key] = struct{}{}
			}
			return out
		}
		if s.Len() == 1 && s.Has(e.Key) {
			return Set{}
		}
		return NewSet(e.Key)
	case ClearCatcher:
		return Set{}
	}
	return s
}

// Retain keeps only the selected keys that are still in keys.
func Retain(s Set, keys []string) Set {
	out := Set{}
	for _, k := range keys {
		if s.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Opacity is the emphasis of one cell. A cell is dimmed when partial
// highlights exist and it is not highlighted, or when a selection exists and
// it is not selected.
func Opacity(selected, highlighted, hasSelection, hasPartialHighlights bool) float64 {
	if (hasPartialHighlights && !highlighted) || (hasSelection && !selected) {
		return Dimmed
	}
	return Default
}

// CellOpacity applies Opacity with mutual suppression: a highlighted cell is
// never dimmed for selection and a selected cell is never dimmed for
// highlighting.
func CellOpacity(selected, highlighted, anySelected, anyHighlighted bool) float64 {
	return Opacity(selected, highlighted, !highlighted && anySelected, !selected && anyHighlighted)
}

// Apply returns a copy of points with Selected set from s.
func Apply(points []calendar.DataPoint, s Set) []calendar.DataPoint {
	out := make([]calendar.DataPoint, len(points))
	for i, p := range points {
		p.Selected = s.Has(p.Key)
		out[i] = p
	}
	return out
}

// Render computes the opacity of every point from its Selected and
// Highlight flags. hasHighlights is whether the measure carries a highlight
// series at all.
func Render(points []calendar.DataPoint, hasHighlights bool) []float64 {
	anySelected := false
	for _, p := range points {
		if p.Selected {
			anySelected = true
			break
		}
	}
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = CellOpacity(p.Selected, p.Highlight, anySelected, hasHighlights)
	}
	return out
}
