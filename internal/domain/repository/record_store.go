package repository

import "context"

// Row is a single record keyed by column name.
type Row = map[string]any

// Filter operators understood by a RecordStore.
const (
	OpEq    = "eq"
	OpNeq   = "neq"
	OpILike = "ilike"
	OpIn    = "in"
)

// Filter restricts a query to rows whose Column compares to Value with Op.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// Order sorts query results by Column.
type Order struct {
	Column string
	Desc   bool
}

// RecordStore is a table-oriented query interface over named collections.
type RecordStore interface {
	Query(ctx context.Context, collection string, filters []Filter, order []Order) ([]Row, error)
	Insert(ctx context.Context, collection string, row Row) (Row, error)
	Update(ctx context.Context, collection, id string, patch Row) error
	Delete(ctx context.Context, collection, id string) error
}
