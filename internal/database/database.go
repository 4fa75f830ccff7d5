package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// connectWindow bounds how long startup waits for the database to accept
// connections.
const connectWindow = 30 * time.Second

type DB struct {
	Pool *pgxpool.Pool
}

// New opens the process-wide connection pool. It is created once at startup
// and shared by every request.
func New(ctx context.Context, databaseURL string, maxConns int32, minConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pingWithRetry(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected", "max_conns", maxConns, "min_conns", minConns)
	return &DB{Pool: pool}, nil
}

func pingWithRetry(ctx context.Context, pool *pgxpool.Pool) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = connectWindow

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return pool.Ping(ctx)
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		slog.Warn("database not ready", "attempt", attempt, "retry_in", wait, "error", err)
	})
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// EnsureSchema creates missing tables and adds columns introduced since the
// tables were created. Every statement is idempotent.
func (db *DB) EnsureSchema(ctx context.Context, tables []Table) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	for _, t := range tables {
		for _, stmt := range postgresStatements(t) {
			if _, err := db.Pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure table %s: %w", t.Name, err)
			}
		}
	}

	slog.Info("database schema ensured", "tables", len(tables))
	return nil
}
