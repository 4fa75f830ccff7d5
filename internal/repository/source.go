package repository

import (
	"context"

	"go-admin-panel/internal/model"
)

// Eq is an exact-match filter. Filters in a query are combined with AND.
type Eq struct {
	Field string
	Value any
}

// Search matches rows where any of Fields contains Term, ignoring case.
type Search struct {
	Fields []string
	Term   string
}

type Order struct {
	Field     string
	Ascending bool
}

// Query selects a contiguous range of rows. A zero Limit returns every
// matching row and ignores Offset. Without an Order, rows come newest first.
type Query struct {
	Table  string
	Eq     []Eq
	Search *Search
	Order  []Order
	Offset int
	Limit  int
}

func (q Query) orders() []Order {
	if len(q.Order) == 0 {
		return []Order{{Field: model.FieldCreatedAt}}
	}

	return q.Order
}

func (q Query) hasSearch() bool {
	return q.Search != nil && q.Search.Term != "" && len(q.Search.Fields) > 0
}

// Source is the relational store behind every admin table. Select returns the
// requested range and the exact number of rows matching the filters before
// the range is applied. Missing rows are reported as *model.NotFoundError and
// store failures as *model.DataSourceError.
type Source interface {
	Select(ctx context.Context, q Query) ([]model.Row, int, error)
	Get(ctx context.Context, table string, id string) (model.Row, error)
	Insert(ctx context.Context, table string, row model.Row) (model.Row, error)
	Update(ctx context.Context, table string, id string, fields model.Row) (model.Row, error)
	Delete(ctx context.Context, table string, id string) error
	Count(ctx context.Context, table string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
