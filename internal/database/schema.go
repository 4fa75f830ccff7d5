package database

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"go-admin-panel/internal/resource"
)

type Column struct {
	Name string
	Type resource.FieldType
}

// Table is the storage shape of one resource: the generated id and
// timestamps plus one column per declared field.
type Table struct {
	Name    string
	Columns []Column
}

func TablesFor(resources []*resource.Resource) []Table {
	out := make([]Table, 0, len(resources))
	for _, res := range resources {
		t := Table{Name: res.Table}
		for _, f := range res.Fields {
			t.Columns = append(t.Columns, Column{Name: f.Name, Type: f.Type})
		}
		out = append(out, t)
	}

	return out
}

func TableNames(tables []Table) []string {
	return lo.Map(tables, func(t Table, _ int) string { return t.Name })
}

var postgresTypes = map[resource.FieldType]string{
	resource.FieldText:      "TEXT",
	resource.FieldInt:       "BIGINT",
	resource.FieldFloat:     "DOUBLE PRECISION",
	resource.FieldBool:      "BOOLEAN",
	resource.FieldTimestamp: "TIMESTAMPTZ",
}

var sqliteTypes = map[resource.FieldType]string{
	resource.FieldText:      "TEXT",
	resource.FieldInt:       "INTEGER",
	resource.FieldFloat:     "REAL",
	resource.FieldBool:      "INTEGER",
	resource.FieldTimestamp: "TEXT",
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func postgresStatements(t Table) []string {
	name := ident(t.Name)
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	seq BIGSERIAL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC, seq DESC)`, ident(t.Name+"_created_at_idx"), name),
	}

	for _, c := range t.Columns {
		stmts = append(stmts, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s`, name, ident(c.Name), postgresTypes[c.Type]))
	}

	return stmts
}

func sqliteCreateStatements(t Table) []string {
	name := ident(t.Name)
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (created_at DESC)`, ident(t.Name+"_created_at_idx"), name),
	}
}

func sqliteAddColumn(t Table, c Column) string {
	return fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, ident(t.Name), ident(c.Name), sqliteTypes[c.Type])
}
