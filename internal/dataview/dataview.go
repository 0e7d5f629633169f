// Package dataview describes the tabular input a host hands to the calendar on
// every refresh: one date category series, one measure series with an optional
// highlight sub-series, the full row table, and the per-object property bag.
package dataview

// Role names used in Column.Roles.
const (
	RoleCategory = "category"
	RoleMeasure  = "measure"
)

// ColumnType is the host's declared value type for a column.
type ColumnType string

const (
	TypeDateTime ColumnType = "datetime"
	TypeNumeric  ColumnType = "numeric"
	TypeText     ColumnType = "text"
)

// Column is column metadata as the host describes it.
type Column struct {
	DisplayName string          `json:"displayName"`
	QueryName   string          `json:"queryName"`
	Format      string          `json:"format,omitempty"`
	Type        ColumnType      `json:"type,omitempty"`
	Roles       map[string]bool `json:"roles,omitempty"`
}

// HasRole reports whether the column is bound to role.
func (c Column) HasRole(role string) bool {
	return c.Roles[role]
}

// CategoryColumn is a category series with its source column.
type CategoryColumn struct {
	Source *Column `json:"source"`
	Values []any   `json:"values"`
}

// ValueColumn is a measure series. Highlights is nil when the host sends no
// highlight sub-series; a nil entry inside it means "not highlighted".
type ValueColumn struct {
	Source     *Column `json:"source"`
	Values     []any   `json:"values"`
	Highlights []any   `json:"highlights,omitempty"`
}

// Categorical is the categorical projection of a data view.
type Categorical struct {
	Categories []CategoryColumn `json:"categories"`
	Values     []ValueColumn    `json:"values"`
}

// Table is the full rowset, one slice per row in Metadata.Columns order.
type Table struct {
	Rows [][]any `json:"rows"`
}

// Objects is the host property bag: object name -> property name -> value.
// A present key with a nil value is an explicit null.
type Objects map[string]map[string]any

// Metadata carries column metadata and the property bag.
type Metadata struct {
	Columns []Column `json:"columns"`
	Objects Objects  `json:"objects,omitempty"`
}

// DataView is one refresh worth of host input.
type DataView struct {
	Categorical *Categorical `json:"categorical,omitempty"`
	Table       *Table       `json:"table,omitempty"`
	Metadata    Metadata     `json:"metadata"`
}

// Category returns the first category series, or nil.
func (dv *DataView) Category() *CategoryColumn {
	if dv == nil || dv.Categorical == nil || len(dv.Categorical.Categories) == 0 {
		return nil
	}
	return &dv.Categorical.Categories[0]
}

// Measure returns the first measure series, or nil.
func (dv *DataView) Measure() *ValueColumn {
	if dv == nil || dv.Categorical == nil || len(dv.Categorical.Values) == 0 {
		return nil
	}
	return &dv.Categorical.Values[0]
}

// Rows returns the table rows, or nil when the view carries no table.
func (dv *DataView) Rows() [][]any {
	if dv == nil || dv.Table == nil {
		return nil
	}
	return dv.Table.Rows
}

// At returns values[i], or nil when i is out of range.
func At(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
