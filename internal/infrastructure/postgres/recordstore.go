package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/passvault/internal/domain/repository"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnknownOperator   = errors.New("unknown filter operator")
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type column struct {
	name string
	uuid bool
}

// selectExpr renders uuid columns as text so rows decode into plain strings.
func (c column) selectExpr() string {
	if c.uuid {
		return c.name + "::text AS " + c.name
	}
	return c.name
}

type collection struct {
	table   string
	columns []column
}

func (c collection) has(name string) bool {
	for _, col := range c.columns {
		if col.name == name {
			return true
		}
	}
	return false
}

func (c collection) selectList() []string {
	out := make([]string, 0, len(c.columns))
	for _, col := range c.columns {
		out = append(out, col.selectExpr())
	}
	return out
}

// collections exposed through the record store. Anything else is rejected.
var collections = map[string]collection{
	"categories": {table: "categories", columns: []column{
		{"id", true}, {"name", false}, {"icon", false}, {"is_active", false},
	}},
	"account_types": {table: "account_types", columns: []column{
		{"id", true}, {"name", false}, {"icon", false}, {"is_active", false},
	}},
	"subcategories": {table: "subcategories", columns: []column{
		{"id", true}, {"account_type_id", true}, {"name", false}, {"icon", false}, {"is_active", false},
	}},
	"roles": {table: "roles", columns: []column{
		{"id", true}, {"name", false}, {"created_at", false}, {"updated_at", false},
	}},
}

// RecordStore implements repository.RecordStore on Postgres.
type RecordStore struct {
	q Querier
}

func NewRecordStore(q Querier) *RecordStore {
	return &RecordStore{q: q}
}

func lookup(name string) (collection, error) {
	c, ok := collections[name]
	if !ok {
		return collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

func buildSelect(name string, filters []repository.Filter, order []repository.Order) (string, []any, error) {
	c, err := lookup(name)
	if err != nil {
		return "", nil, err
	}
	q := psql.Select(c.selectList()...).From(c.table)
	for _, f := range filters {
		if !c.has(f.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, name, f.Column)
		}
		pred, err := predicate(f)
		if err != nil {
			return "", nil, err
		}
		q = q.Where(pred)
	}
	for _, o := range order {
		if !c.has(o.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, name, o.Column)
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		q = q.OrderBy(o.Column + dir)
	}
	return q.ToSql()
}

func predicate(f repository.Filter) (squirrel.Sqlizer, error) {
	switch strings.ToLower(f.Op) {
	case "", repository.OpEq, repository.OpIn:
		return squirrel.Eq{f.Column: f.Value}, nil
	case repository.OpNeq:
		return squirrel.NotEq{f.Column: f.Value}, nil
	case repository.OpILike:
		return squirrel.ILike{f.Column: f.Value}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, f.Op)
}

func buildInsert(name string, row repository.Row) (string, []any, error) {
	c, err := lookup(name)
	if err != nil {
		return "", nil, err
	}
	cols, vals, err := sortedPairs(c, name, row)
	if err != nil {
		return "", nil, err
	}
	return psql.Insert(c.table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + strings.Join(c.selectList(), ", ")).
		ToSql()
}

func buildUpdate(name, id string, patch repository.Row) (string, []any, error) {
	c, err := lookup(name)
	if err != nil {
		return "", nil, err
	}
	cols, vals, err := sortedPairs(c, name, patch)
	if err != nil {
		return "", nil, err
	}
	q := psql.Update(c.table)
	for i, col := range cols {
		q = q.Set(col, vals[i])
	}
	return q.Where(squirrel.Eq{"id": id}).ToSql()
}

// sortedPairs validates row keys and returns them in collection column order
// so generated SQL is stable.
func sortedPairs(c collection, name string, row repository.Row) ([]string, []any, error) {
	for k := range row {
		if k == "id" || !c.has(k) {
			return nil, nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, name, k)
		}
	}
	cols := make([]string, 0, len(row))
	vals := make([]any, 0, len(row))
	for _, col := range c.columns {
		if v, ok := row[col.name]; ok {
			cols = append(cols, col.name)
			vals = append(vals, v)
		}
	}
	return cols, vals, nil
}

func (s *RecordStore) Query(ctx context.Context, name string, filters []repository.Filter, order []repository.Order) ([]repository.Row, error) {
	sql, args, err := buildSelect(name, filters, order)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

func (s *RecordStore) Insert(ctx context.Context, name string, row repository.Row) (repository.Row, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: empty row for %s", ErrUnknownColumn, name)
	}
	sql, args, err := buildInsert(name, row)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

func (s *RecordStore) Update(ctx context.Context, name, id string, patch repository.Row) error {
	if len(patch) == 0 {
		return nil
	}
	sql, args, err := buildUpdate(name, id, patch)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, name, id string) error {
	c, err := lookup(name)
	if err != nil {
		return err
	}
	sql, args, err := psql.Delete(c.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.RecordStore = (*RecordStore)(nil)
