package visual

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/selection"
	"github.com/jask/jaskcal/internal/settings"
	"github.com/jask/jaskcal/internal/tooltip"
)

type recorder struct {
	frames []Frame
}

func (r *recorder) Render(f Frame) { r.frames = append(r.frames, f) }

func (r *recorder) last() Frame { return r.frames[len(r.frames)-1] }

func sampleView(highlights []any) *dataview.DataView {
	dateCol := dataview.Column{DisplayName: "Date", QueryName: "d", Roles: map[string]bool{dataview.RoleCategory: true}}
	valueCol := dataview.Column{DisplayName: "Value", QueryName: "v", Format: "#,0.##", Roles: map[string]bool{dataview.RoleMeasure: true}}
	days := []any{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	values := []any{1500.0, 2.0, nil}
	rows := make([][]any, len(days))
	for i := range days {
		rows[i] = []any{days[i], values[i]}
	}
	return &dataview.DataView{
		Categorical: &dataview.Categorical{
			Categories: []dataview.CategoryColumn{{Source: &dateCol, Values: days}},
			Values:     []dataview.ValueColumn{{Source: &valueCol, Values: values, Highlights: highlights}},
		},
		Table: &dataview.Table{Rows: rows},
		Metadata: dataview.Metadata{
			Columns: []dataview.Column{dateCol, valueCol},
			Objects: dataview.Objects{settings.ObjectDataLabels: {"unit": 1000, "precision": 1}},
		},
	}
}

func TestNewStartsEmpty(t *testing.T) {
	v := New(Options{})
	require.Empty(t, v.ViewModel().DataPoints)
	require.Nil(t, v.ViewModel().Month)
	require.Zero(t, v.Selection().Len())
	require.Equal(t, []tooltip.Item{{DisplayName: tooltip.NoData}}, v.Tooltip("x"))
}

func TestUpdateRendersFrame(t *testing.T) {
	r := &recorder{}
	v := New(Options{Locale: "en-US", Renderer: r})
	v.Update(sampleView(nil))

	require.Len(t, r.frames, 1)
	f := r.last()
	require.Len(t, f.ViewModel.DataPoints, 3)
	require.Equal(t, []float64{selection.Default, selection.Default, selection.Default}, f.Opacity)
	require.Equal(t, "1.5K", f.ViewModel.DataPoints[0].ValueText)
}

func TestClickAndClearCatcher(t *testing.T) {
	r := &recorder{}
	v := New(Options{Renderer: r})
	v.Update(sampleView(nil))
	keys := v.ViewModel().Keys()

	v.Click(keys[1], false)
	f := r.last()
	require.True(t, f.ViewModel.DataPoints[1].Selected)
	require.Equal(t, []float64{selection.Dimmed, selection.Default, selection.Dimmed}, f.Opacity)
	require.False(t, v.ViewModel().DataPoints[1].Selected, "the built view-model is not mutated")

	v.Click(keys[2], true)
	require.Equal(t, []string{keys[1], keys[2]}, selectedKeys(r.last()))

	v.Click(keys[0], false)
	require.Equal(t, []string{keys[0]}, selectedKeys(r.last()))

	v.Click(keys[0], false)
	require.Empty(t, selectedKeys(r.last()))

	v.Click(keys[0], true)
	v.ClearCatcher()
	require.Empty(t, selectedKeys(r.last()))
	require.Zero(t, v.Selection().Len())
}

func TestClickUnknownKeyIsIgnored(t *testing.T) {
	r := &recorder{}
	v := New(Options{Renderer: r})
	v.Update(sampleView(nil))
	v.Click("nope", false)
	require.Len(t, r.frames, 1)
	require.Zero(t, v.Selection().Len())
}

func TestRefreshResetsSelection(t *testing.T) {
	v := New(Options{})
	v.Update(sampleView(nil))
	v.Click(v.ViewModel().Keys()[0], false)
	require.Equal(t, 1, v.Selection().Len())

	v.Update(sampleView(nil))
	require.Zero(t, v.Selection().Len())
	require.Empty(t, selectedKeys(v.Frame()))
}

func TestRefreshPreservesSurvivingSelection(t *testing.T) {
	v := New(Options{PreserveSelection: true})
	v.Update(sampleView(nil))
	keys := v.ViewModel().Keys()
	v.Click(keys[0], false)
	v.Click(keys[2], true)

	next := sampleView(nil)
	next.Categorical.Categories[0].Values = next.Categorical.Categories[0].Values[:2]
	v.Update(next)
	require.Equal(t, []string{keys[0]}, v.Selection().Keys())
	require.Equal(t, []string{keys[0]}, selectedKeys(v.Frame()))
}

func TestHighlightsDimUnhighlightedCells(t *testing.T) {
	v := New(Options{})
	v.Update(sampleView([]any{nil, 2.0, nil}))
	require.Equal(t, []float64{selection.Dimmed, selection.Default, selection.Dimmed}, v.Frame().Opacity)

	v.Click(v.ViewModel().Keys()[0], false)
	require.Equal(t, []float64{selection.Default, selection.Default, selection.Dimmed}, v.Frame().Opacity)
}

func TestTooltipUsesDisplayScale(t *testing.T) {
	v := New(Options{Locale: "en-US"})
	v.Update(sampleView(nil))
	keys := v.ViewModel().Keys()

	items := v.Tooltip(keys[0])
	require.Equal(t, []tooltip.Item{{Header: "1/1/2024", DisplayName: "Value", Value: "1.5K"}}, items)
	require.Equal(t, []tooltip.Item{{DisplayName: tooltip.NoData}}, v.Tooltip(keys[2]))
}

func TestEnumerateReflectsOverrides(t *testing.T) {
	v := New(Options{})
	v.Update(sampleView(nil))
	props := v.Enumerate(settings.ObjectDataLabels)[0].Properties
	require.Equal(t, 1000.0, props["unit"])
}

func selectedKeys(f Frame) []string {
	var keys []string
	for _, p := range f.ViewModel.DataPoints {
		if p.Selected {
			keys = append(keys, p.Key)
		}
	}
	return keys
}
