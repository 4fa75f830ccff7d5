package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-admin-panel/internal/model"
)

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteSource stores tables in a local SQLite file for development and
// single-node installs.
type SQLiteSource struct {
	db *sql.DB
	d  dialect
}

func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db, d: sqliteDialect}
}

func (s *SQLiteSource) Select(ctx context.Context, q Query) ([]model.Row, int, error) {
	count := s.d.countQuery(q)
	var total int
	if err := s.db.QueryRowContext(ctx, count.sql, sqliteArgs(count.args)...).Scan(&total); err != nil {
		return nil, 0, model.NewDataSourceError("count", q.Table, err)
	}

	stmt := s.d.selectQuery(q)
	out, err := s.query(ctx, stmt)
	if err != nil {
		return nil, 0, model.NewDataSourceError("select", q.Table, err)
	}

	return out, total, nil
}

func (s *SQLiteSource) Get(ctx context.Context, table string, id string) (model.Row, error) {
	return s.one(ctx, "get", table, id, s.d.getQuery(table, id))
}

func (s *SQLiteSource) Insert(ctx context.Context, table string, row model.Row) (model.Row, error) {
	data := row.Clone()
	fillDefaults(data, time.Now().UTC())

	stmt := s.d.insertQuery(table, data)
	out, err := s.query(ctx, stmt)
	if err != nil {
		return nil, model.NewDataSourceError("insert", table, err)
	}
	if len(out) == 0 {
		return nil, model.NewDataSourceError("insert", table, errors.New("insert returned no row"))
	}

	return out[0], nil
}

func (s *SQLiteSource) Update(ctx context.Context, table string, id string, fields model.Row) (model.Row, error) {
	if len(fields) == 0 {
		return s.Get(ctx, table, id)
	}

	return s.one(ctx, "update", table, id, s.d.updateQuery(table, id, fields))
}

func (s *SQLiteSource) Delete(ctx context.Context, table string, id string) error {
	stmt := s.d.deleteQuery(table, id)
	res, err := s.db.ExecContext(ctx, stmt.sql, sqliteArgs(stmt.args)...)
	if err != nil {
		return model.NewDataSourceError("delete", table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return model.NewDataSourceError("delete", table, err)
	}
	if n == 0 {
		return &model.NotFoundError{Table: table, ID: id}
	}

	return nil
}

func (s *SQLiteSource) Count(ctx context.Context, table string) (int, error) {
	stmt := s.d.countQuery(Query{Table: table})
	var total int
	if err := s.db.QueryRowContext(ctx, stmt.sql).Scan(&total); err != nil {
		return 0, model.NewDataSourceError("count", table, err)
	}

	return total, nil
}

func (s *SQLiteSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) one(ctx context.Context, op string, table string, id string, stmt statement) (model.Row, error) {
	out, err := s.query(ctx, stmt)
	if err != nil {
		return nil, model.NewDataSourceError(op, table, err)
	}
	if len(out) == 0 {
		return nil, &model.NotFoundError{Table: table, ID: id}
	}

	return out[0], nil
}

func (s *SQLiteSource) query(ctx context.Context, stmt statement) ([]model.Row, error) {
	rows, err := s.db.QueryContext(ctx, stmt.sql, sqliteArgs(stmt.args)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]model.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(model.Row, len(cols))
		for i, c := range cols {
			row[c] = sqliteValue(c, values[i])
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

func sqliteArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case time.Time:
			out[i] = v.UTC().Format(sqliteTimeLayout)
		case bool:
			if v {
				out[i] = int64(1)
			} else {
				out[i] = int64(0)
			}
		default:
			out[i] = a
		}
	}

	return out
}

// sqliteValue turns stored text timestamps back into times. Columns holding
// timestamps follow the *_at naming convention.
func sqliteValue(column string, v any) any {
	switch t := v.(type) {
	case []byte:
		v = string(t)
	}

	if str, ok := v.(string); ok && strings.HasSuffix(column, "_at") {
		if parsed, err := time.Parse(time.RFC3339Nano, str); err == nil {
			return parsed
		}
	}

	return v
}
