package resource

import (
	"slices"

	"go-admin-panel/internal/model"
)

type FieldType string

const (
	FieldText      FieldType = "text"
	FieldInt       FieldType = "int"
	FieldFloat     FieldType = "float"
	FieldBool      FieldType = "bool"
	FieldTimestamp FieldType = "timestamp"
)

// Field is a writable column. Rules use go-playground/validator tag syntax.
type Field struct {
	Name  string    `json:"name" yaml:"name"`
	Type  FieldType `json:"type" yaml:"type"`
	Rules string    `json:"rules,omitempty" yaml:"rules"`
}

// Resource describes one admin table view: its backing table, how rows are
// displayed, which fields can be searched and filtered, and which can be
// written.
type Resource struct {
	Name           string                   `json:"name" yaml:"name"`
	Table          string                   `json:"table" yaml:"table"`
	Title          string                   `json:"title" yaml:"title"`
	Columns        []model.ColumnDescriptor `json:"columns" yaml:"columns"`
	Fields         []Field                  `json:"fields" yaml:"fields"`
	SearchFields   []string                 `json:"search_fields" yaml:"search_fields"`
	FilterFields   []string                 `json:"filter_fields" yaml:"filter_fields"`
	LabelField     string                   `json:"label_field" yaml:"label_field"`
	OrderField     string                   `json:"order_field,omitempty" yaml:"order_field"`
	OrderAscending bool                     `json:"order_ascending,omitempty" yaml:"order_ascending"`
	Actions        []model.Action           `json:"actions" yaml:"actions"`
	BulkActions    []model.Action           `json:"bulk_actions" yaml:"bulk_actions"`
	AutoPopulated  bool                     `json:"auto_populated,omitempty" yaml:"auto_populated"`
}

func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

func (r *Resource) IsFilterable(key string) bool {
	return slices.Contains(r.FilterFields, key)
}

// OrderBy returns the field and direction rows are listed in. Listings
// default to newest first.
func (r *Resource) OrderBy() (string, bool) {
	if r.OrderField == "" {
		return model.FieldCreatedAt, false
	}

	return r.OrderField, r.OrderAscending
}

func (r *Resource) VisibleColumns() []model.ColumnDescriptor {
	out := make([]model.ColumnDescriptor, 0, len(r.Columns))
	for _, c := range r.Columns {
		if !c.Hidden {
			out = append(out, c)
		}
	}

	return out
}

// Colspan is the number of table cells in one rendered row.
func (r *Resource) Colspan() int {
	n := len(r.VisibleColumns())
	if len(r.Actions) > 0 {
		n++
	}
	if len(r.BulkActions) > 0 {
		n++
	}

	return n
}

// Known reports whether name is a column the table is guaranteed to have.
func (r *Resource) Known(name string) bool {
	switch name {
	case model.FieldID, model.FieldCreatedAt, model.FieldUpdatedAt:
		return true
	}

	_, ok := r.Field(name)
	return ok
}

// Label is the human-readable name of a row, falling back to its id.
func (r *Resource) Label(row model.Row) string {
	if r.LabelField != "" {
		if v := row.String(r.LabelField); v != "" {
			return v
		}
	}

	return row.ID()
}
