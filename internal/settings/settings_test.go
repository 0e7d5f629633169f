package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcal/internal/dataview"
)

func TestResolveWithoutOverridesReturnsDefaults(t *testing.T) {
	got := Resolve(nil, Defaults(), nil)
	require.Equal(t, Defaults(), got)

	got = Resolve(dataview.Objects{"calendar": {}}, Defaults(), nil)
	require.Equal(t, Defaults(), got)
}

func TestResolveFalseAndNullAreOverrides(t *testing.T) {
	overrides := dataview.Objects{
		ObjectDataLabels: {
			"show":      false,
			"precision": 2,
		},
		ObjectColors: {
			"minValue": 10,
			"maxValue": nil,
		},
		ObjectWeekNumbers: {
			"placement": nil,
		},
	}
	defaults := Defaults()
	hi := 99.0
	defaults.Colors.MaxValue = &hi

	got := Resolve(overrides, defaults, nil)

	require.False(t, got.DataLabels.Show)
	require.NotNil(t, got.DataLabels.Precision)
	require.Equal(t, 2, *got.DataLabels.Precision)
	require.NotNil(t, got.Colors.MinValue)
	require.Equal(t, 10.0, *got.Colors.MinValue)
	require.Nil(t, got.Colors.MaxValue, "explicit null must override a non-null default")
	require.Equal(t, "", got.WeekNumbers.Placement)

	// untouched leaves keep their defaults
	require.Equal(t, "center", got.DataLabels.Alignment)
	require.Equal(t, 8.0, got.DataLabels.TextSize)
	require.Equal(t, defaults.Calendar, got.Calendar)
}

func TestResolveDoesNotValidateRanges(t *testing.T) {
	got := Resolve(dataview.Objects{
		ObjectCalendar: {"weekStartDay": 42, "dayAlignment": "diagonal"},
	}, Defaults(), nil)
	require.Equal(t, 42, got.Calendar.WeekStartDay)
	require.Equal(t, "diagonal", got.Calendar.DayAlignment)
}

func TestResolveFillOverrides(t *testing.T) {
	got := Resolve(dataview.Objects{
		ObjectColors: {
			"startColor":  map[string]any{"solid": map[string]any{"color": "#ff0000"}},
			"endColor":    "#00ff00",
			"noDataColor": map[string]any{"solid": map[string]any{"color": nil}},
		},
		ObjectCalendar: {
			"fontColor": nil,
		},
	}, Defaults(), nil)

	require.Equal(t, "#ff0000", got.Colors.StartColor.ColorOr(""))
	require.Equal(t, "#00ff00", got.Colors.EndColor.ColorOr(""))
	require.Nil(t, got.Colors.NoDataColor.Solid.Color)
	require.Nil(t, got.Calendar.FontColor.Solid.Color)
	require.Equal(t, "#000", got.Calendar.BorderColor.ColorOr(""))
}

func TestResolveCoercesWeakTypesAndKeepsDefaultOnGarbage(t *testing.T) {
	got := Resolve(dataview.Objects{
		ObjectCalendar: {
			"textSize":    "12.5",
			"fontWeight":  400.0,
			"borderWidth": []int{1, 2},
		},
	}, Defaults(), nil)
	require.Equal(t, 12.5, got.Calendar.TextSize)
	require.Equal(t, 400, got.Calendar.FontWeight)
	require.Equal(t, 1.0, got.Calendar.BorderWidth)
}

func TestResolveReturnsFreshValue(t *testing.T) {
	defaults := Defaults()
	got := Resolve(nil, defaults, nil)
	got.Calendar.DayAlignment = "left"
	require.Equal(t, "right", defaults.Calendar.DayAlignment)
}

func TestEnumerateSuppressesCenterColorUnlessDiverging(t *testing.T) {
	s := Defaults()
	s.Colors.CenterColor = SolidFill("#888")

	inst := Enumerate(s, ObjectColors)
	require.Len(t, inst, 1)
	require.Nil(t, inst[0].Properties["centerColor"])
	require.Nil(t, inst[0].Selector)

	s.Colors.Diverging = true
	inst = Enumerate(s, ObjectColors)
	require.Equal(t, SolidFill("#888"), inst[0].Properties["centerColor"])
}

func TestEnumerateGroups(t *testing.T) {
	s := Defaults()
	for _, name := range Objects {
		inst := Enumerate(s, name)
		require.Len(t, inst, 1, name)
		require.Equal(t, name, inst[0].ObjectName)
		require.NotEmpty(t, inst[0].Properties)
	}

	week := Enumerate(s, ObjectWeekNumbers)[0].Properties
	require.Equal(t, false, week["show"])
	require.Equal(t, "left", week["placement"])

	labels := Enumerate(s, ObjectDataLabels)[0].Properties
	require.Equal(t, true, labels["show"])
	require.Equal(t, 0.0, labels["unit"])

	require.Empty(t, Enumerate(s, "legend"))
}
