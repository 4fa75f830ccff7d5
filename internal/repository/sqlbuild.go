package repository

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"go-admin-panel/internal/model"
)

// dialect renders queries for one SQL engine. Identifiers always come from
// resource definitions, never from request input, and are quoted regardless.
type dialect struct {
	placeholder func(n int) string
	like        func(column string, placeholder string) string
	seqColumn   string
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	like: func(column string, placeholder string) string {
		return column + " ILIKE " + placeholder + ` ESCAPE '\'`
	},
	seqColumn: "seq",
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	like: func(column string, placeholder string) string {
		return "lower(" + column + ") LIKE lower(" + placeholder + `) ESCAPE '\'`
	},
	seqColumn: "rowid",
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

type statement struct {
	sql  string
	args []any
}

func (s *statement) bind(d dialect, v any) string {
	s.args = append(s.args, v)
	return d.placeholder(len(s.args))
}

func (d dialect) where(s *statement, q Query) string {
	clauses := make([]string, 0, len(q.Eq)+1)
	for _, eq := range q.Eq {
		if eq.Value == nil {
			clauses = append(clauses, quoteIdent(eq.Field)+" IS NULL")
			continue
		}
		clauses = append(clauses, quoteIdent(eq.Field)+" = "+s.bind(d, eq.Value))
	}

	if q.hasSearch() {
		pattern := "%" + escapeLike(q.Search.Term) + "%"
		ors := make([]string, 0, len(q.Search.Fields))
		for _, f := range q.Search.Fields {
			ors = append(ors, d.like(quoteIdent(f), s.bind(d, pattern)))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if len(clauses) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(clauses, " AND ")
}

func (d dialect) countQuery(q Query) statement {
	var s statement
	s.sql = "SELECT COUNT(*) FROM " + quoteIdent(q.Table) + d.where(&s, q)
	return s
}

func (d dialect) selectQuery(q Query) statement {
	var s statement
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(quoteIdent(q.Table))
	b.WriteString(d.where(&s, q))

	orders := q.orders()
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		parts = append(parts, quoteIdent(o.Field)+direction(o.Ascending))
	}
	parts = append(parts, d.seqColumn+direction(orders[0].Ascending))
	b.WriteString(" ORDER BY ")
	b.WriteString(strings.Join(parts, ", "))

	if q.Limit > 0 {
		b.WriteString(" LIMIT " + s.bind(d, q.Limit))
		b.WriteString(" OFFSET " + s.bind(d, max(q.Offset, 0)))
	}

	s.sql = b.String()
	return s
}

func (d dialect) getQuery(table string, id string) statement {
	var s statement
	s.sql = "SELECT * FROM " + quoteIdent(table) + " WHERE " + quoteIdent(model.FieldID) + " = " + s.bind(d, id)
	return s
}

func (d dialect) insertQuery(table string, row model.Row) statement {
	var s statement
	keys := sortedKeys(row)
	cols := make([]string, 0, len(keys))
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, quoteIdent(k))
		vals = append(vals, s.bind(d, row[k]))
	}

	s.sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(vals, ", "))
	return s
}

func (d dialect) updateQuery(table string, id string, fields model.Row) statement {
	var s statement
	keys := sortedKeys(fields)
	sets := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == model.FieldID {
			continue
		}
		sets = append(sets, quoteIdent(k)+" = "+s.bind(d, fields[k]))
	}

	s.sql = fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s RETURNING *",
		quoteIdent(table), strings.Join(sets, ", "), quoteIdent(model.FieldID), s.bind(d, id))
	return s
}

func (d dialect) deleteQuery(table string, id string) statement {
	var s statement
	s.sql = "DELETE FROM " + quoteIdent(table) + " WHERE " + quoteIdent(model.FieldID) + " = " + s.bind(d, id)
	return s
}

func direction(ascending bool) string {
	if ascending {
		return " ASC"
	}

	return " DESC"
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

func sortedKeys(row model.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
