package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/jask/jaskcal/internal/config"
	"github.com/jask/jaskcal/internal/database/repository"
	"github.com/jask/jaskcal/internal/dataview"
	"github.com/jask/jaskcal/internal/settings"
	"github.com/jask/jaskcal/internal/source"
)

// ErrUnknownProperty indicates an object or property the calendar does not
// define.
var ErrUnknownProperty = errors.New("unknown property")

// HostService plays the hosting environment: it loads the data file and
// keeps the persisted property bag that overrides settings.
type HostService struct {
	Properties *repository.PropertyRepo
	DataPath   string
	Binding    source.Binding
	Logger     *slog.Logger
}

// BindingFromConfig builds a source binding from the data config.
func BindingFromConfig(c config.DataConfig, loc *time.Location) source.Binding {
	return source.Binding{
		DateColumn:      c.DateColumn,
		MeasureColumn:   c.MeasureColumn,
		HighlightColumn: c.HighlightColumn,
		MeasureFormat:   c.MeasureFormat,
		Sheet:           c.Sheet,
		Location:        loc,
	}
}

// Load reads the data file and attaches the stored overrides.
func (s *HostService) Load(ctx context.Context) (*dataview.DataView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dv, err := source.Open(s.DataPath, s.Binding)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	objects, err := s.Overrides(ctx)
	if err != nil {
		return nil, err
	}
	dv.Metadata.Objects = objects
	if s.Logger != nil {
		s.Logger.Info("data loaded",
			slog.String("path", s.DataPath),
			slog.Int("rows", len(dv.Rows())),
			slog.Int("objects", len(objects)))
	}
	return dv, nil
}

// Overrides returns the stored property bag; without a repo it is empty.
func (s *HostService) Overrides(ctx context.Context) (dataview.Objects, error) {
	if s.Properties == nil {
		return dataview.Objects{}, nil
	}
	objects, err := s.Properties.Objects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	return objects, nil
}

// SetProperty stores an override. A nil value is stored as explicit null.
func (s *HostService) SetProperty(ctx context.Context, object, property string, value any) error {
	if err := checkProperty(object, property); err != nil {
		return err
	}
	if err := s.repo().Set(ctx, object, property, value); err != nil {
		return fmt.Errorf("set %s.%s: %w", object, property, err)
	}
	return nil
}

// ClearProperty drops an override so the leaf returns to its default.
func (s *HostService) ClearProperty(ctx context.Context, object, property string) error {
	if err := checkProperty(object, property); err != nil {
		return err
	}
	if err := s.repo().Delete(ctx, object, property); err != nil {
		return fmt.Errorf("clear %s.%s: %w", object, property, err)
	}
	return nil
}

// ResetObject drops every override of one object.
func (s *HostService) ResetObject(ctx context.Context, object string) (int64, error) {
	if err := checkProperty(object, ""); err != nil {
		return 0, err
	}
	n, err := s.repo().DeleteObject(ctx, object)
	if err != nil {
		return 0, fmt.Errorf("reset %s: %w", object, err)
	}
	return n, nil
}

// Stored returns the override stored for object.property, or nil when the
// leaf is at its default.
func (s *HostService) Stored(ctx context.Context, object, property string) (*repository.Property, error) {
	if err := checkProperty(object, property); err != nil {
		return nil, err
	}
	p, err := s.repo().Get(ctx, object, property)
	if err != nil {
		return nil, fmt.Errorf("get %s.%s: %w", object, property, err)
	}
	return p, nil
}

// Toggle flips a boolean leaf, starting from its resolved value.
func (s *HostService) Toggle(ctx context.Context, object, property string, current bool) error {
	return s.SetProperty(ctx, object, property, !current)
}

func (s *HostService) repo() *repository.PropertyRepo {
	if s.Properties == nil {
		panic("service: HostService.Properties not configured")
	}
	return s.Properties
}

// ParseValue reads a command-line value: JSON when it parses, a plain
// string otherwise.
func ParseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err == nil {
		return v
	}
	return raw
}

// checkProperty validates object and, when non-empty, property against the
// enumerable settings, suggesting the nearest name on a typo.
func checkProperty(object, property string) error {
	inst := settings.Enumerate(settings.Defaults(), object)
	if len(inst) == 0 {
		return unknown("object", object, settings.Objects)
	}
	if property == "" {
		return nil
	}
	if _, ok := inst[0].Properties[property]; ok {
		return nil
	}
	names := make([]string, 0, len(inst[0].Properties))
	for name := range inst[0].Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return unknown("property", object+"."+property, prefixed(object, names))
}

func prefixed(object string, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = object + "." + n
	}
	return out
}

func unknown(kind, name string, candidates []string) error {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist >= 0 && bestDist <= max(2, len(name)/3) {
		return fmt.Errorf("%w: %s %q (did you mean %q?)", ErrUnknownProperty, kind, name, best)
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownProperty, kind, name)
}
