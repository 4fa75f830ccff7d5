package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database at dsn with WAL mode, foreign keys and a
// 5s busy timeout.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection avoids SQLITE_BUSY between writers and keeps
	// :memory: databases alive across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	return db, nil
}

// EnsureSQLiteSchema creates missing tables and adds missing columns. SQLite
// has no ADD COLUMN IF NOT EXISTS, so existing columns are read first.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB, tables []Table) error {
	for _, t := range tables {
		for _, stmt := range sqliteCreateStatements(t) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ensure table %s: %w", t.Name, err)
			}
		}

		existing, err := sqliteColumns(ctx, db, t.Name)
		if err != nil {
			return err
		}

		for _, c := range t.Columns {
			if existing[c.Name] {
				continue
			}
			if _, err := db.ExecContext(ctx, sqliteAddColumn(t, c)); err != nil {
				return fmt.Errorf("add column %s.%s: %w", t.Name, c.Name, err)
			}
		}
	}

	slog.Info("sqlite schema ensured", "tables", len(tables))
	return nil
}

func sqliteColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols[name] = true
	}

	return cols, rows.Err()
}
