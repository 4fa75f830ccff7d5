package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-admin-panel/internal/model"
)

// PostgresSource talks to a hosted Postgres database through a shared pool.
type PostgresSource struct {
	pool *pgxpool.Pool
	d    dialect
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool, d: postgresDialect}
}

func (s *PostgresSource) Select(ctx context.Context, q Query) ([]model.Row, int, error) {
	count := s.d.countQuery(q)
	var total int
	if err := s.pool.QueryRow(ctx, count.sql, count.args...).Scan(&total); err != nil {
		return nil, 0, model.NewDataSourceError("count", q.Table, err)
	}

	stmt := s.d.selectQuery(q)
	rows, err := s.pool.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, 0, model.NewDataSourceError("select", q.Table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, model.NewDataSourceError("select", q.Table, err)
	}

	out := make([]model.Row, 0, len(maps))
	for _, m := range maps {
		out = append(out, s.toRow(m))
	}

	return out, total, nil
}

func (s *PostgresSource) Get(ctx context.Context, table string, id string) (model.Row, error) {
	stmt := s.d.getQuery(table, id)
	return s.one(ctx, "get", table, id, stmt)
}

func (s *PostgresSource) Insert(ctx context.Context, table string, row model.Row) (model.Row, error) {
	data := row.Clone()
	if data.ID() == "" {
		data[model.FieldID] = uuid.NewString()
	}

	stmt := s.d.insertQuery(table, data)
	rows, err := s.pool.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, model.NewDataSourceError("insert", table, err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, model.NewDataSourceError("insert", table, err)
	}

	return s.toRow(m), nil
}

func (s *PostgresSource) Update(ctx context.Context, table string, id string, fields model.Row) (model.Row, error) {
	if len(fields) == 0 {
		return s.Get(ctx, table, id)
	}

	stmt := s.d.updateQuery(table, id, fields)
	return s.one(ctx, "update", table, id, stmt)
}

func (s *PostgresSource) Delete(ctx context.Context, table string, id string) error {
	stmt := s.d.deleteQuery(table, id)
	tag, err := s.pool.Exec(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return model.NewDataSourceError("delete", table, err)
	}
	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Table: table, ID: id}
	}

	return nil
}

func (s *PostgresSource) Count(ctx context.Context, table string) (int, error) {
	stmt := s.d.countQuery(Query{Table: table})
	var total int
	if err := s.pool.QueryRow(ctx, stmt.sql).Scan(&total); err != nil {
		return 0, model.NewDataSourceError("count", table, err)
	}

	return total, nil
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool belongs to the database package.
func (s *PostgresSource) Close() error {
	return nil
}

func (s *PostgresSource) one(ctx context.Context, op string, table string, id string, stmt statement) (model.Row, error) {
	rows, err := s.pool.Query(ctx, stmt.sql, stmt.args...)
	if err != nil {
		return nil, model.NewDataSourceError(op, table, err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &model.NotFoundError{Table: table, ID: id}
	}
	if err != nil {
		return nil, model.NewDataSourceError(op, table, err)
	}

	return s.toRow(m), nil
}

func (s *PostgresSource) toRow(m map[string]any) model.Row {
	delete(m, s.d.seqColumn)
	return model.Row(m)
}
