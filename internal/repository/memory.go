package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-admin-panel/internal/model"
)

type memRow struct {
	seq  int64
	data model.Row
}

// MemorySource keeps tables in process memory. It backs tests and the
// DATA_SOURCE=memory mode.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string][]memRow
	seq    int64
	now    func() time.Time
}

func NewMemorySource(tables ...string) *MemorySource {
	m := &MemorySource{
		tables: make(map[string][]memRow, len(tables)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, t := range tables {
		m.tables[t] = nil
	}

	return m
}

// SetClock replaces the time source used for default timestamps.
func (m *MemorySource) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemorySource) Select(ctx context.Context, q Query) ([]model.Row, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.table("select", q.Table)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]memRow, 0, len(rows))
	for _, r := range rows {
		if matches(r.data, q) {
			matched = append(matched, r)
		}
	}

	orders := q.orders()
	slices.SortStableFunc(matched, func(a memRow, b memRow) int {
		for _, o := range orders {
			c := compareValues(a.data[o.Field], b.data[o.Field])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c
			}
			return -c
		}
		if orders[0].Ascending {
			return cmpInt64(a.seq, b.seq)
		}
		return cmpInt64(b.seq, a.seq)
	})

	total := len(matched)
	if q.Limit > 0 {
		start := min(max(q.Offset, 0), total)
		end := min(start+q.Limit, total)
		matched = matched[start:end]
	}

	out := make([]model.Row, 0, len(matched))
	for _, r := range matched {
		out = append(out, r.data.Clone())
	}

	return out, total, nil
}

func (m *MemorySource) Get(ctx context.Context, table string, id string) (model.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.table("get", table)
	if err != nil {
		return nil, err
	}

	i := indexOf(rows, id)
	if i < 0 {
		return nil, &model.NotFoundError{Table: table, ID: id}
	}

	return rows[i].data.Clone(), nil
}

func (m *MemorySource) Insert(ctx context.Context, table string, row model.Row) (model.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.table("insert", table)
	if err != nil {
		return nil, err
	}

	data := row.Clone()
	fillDefaults(data, m.now())
	if indexOf(rows, data.ID()) >= 0 {
		return nil, model.NewDataSourceError("insert", table, fmt.Errorf("duplicate key value violates unique constraint on id %q", data.ID()))
	}

	m.seq++
	m.tables[table] = append(rows, memRow{seq: m.seq, data: data})
	return data.Clone(), nil
}

func (m *MemorySource) Update(ctx context.Context, table string, id string, fields model.Row) (model.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.table("update", table)
	if err != nil {
		return nil, err
	}

	i := indexOf(rows, id)
	if i < 0 {
		return nil, &model.NotFoundError{Table: table, ID: id}
	}

	merged := rows[i].data.Clone()
	for k, v := range fields {
		if k == model.FieldID {
			continue
		}
		merged[k] = v
	}
	rows[i].data = merged

	return merged.Clone(), nil
}

func (m *MemorySource) Delete(ctx context.Context, table string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.table("delete", table)
	if err != nil {
		return err
	}

	i := indexOf(rows, id)
	if i < 0 {
		return &model.NotFoundError{Table: table, ID: id}
	}

	m.tables[table] = slices.Delete(rows, i, i+1)
	return nil
}

func (m *MemorySource) Count(ctx context.Context, table string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.table("count", table)
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}

func (m *MemorySource) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemorySource) Close() error {
	return nil
}

func (m *MemorySource) table(op string, name string) ([]memRow, error) {
	rows, ok := m.tables[name]
	if !ok {
		return nil, model.NewDataSourceError(op, name, errors.New("relation does not exist"))
	}

	return rows, nil
}

func indexOf(rows []memRow, id string) int {
	return slices.IndexFunc(rows, func(r memRow) bool { return r.data.ID() == id })
}

func matches(row model.Row, q Query) bool {
	for _, eq := range q.Eq {
		if !equalValues(row[eq.Field], eq.Value) {
			return false
		}
	}

	if !q.hasSearch() {
		return true
	}

	term := strings.ToLower(q.Search.Term)
	for _, f := range q.Search.Fields {
		if strings.Contains(strings.ToLower(row.String(f)), term) {
			return true
		}
	}

	return false
}

// fillDefaults stamps the columns a hosted store generates on insert.
func fillDefaults(row model.Row, now time.Time) {
	if row.ID() == "" {
		row[model.FieldID] = uuid.NewString()
	}
	if _, ok := row[model.FieldCreatedAt]; !ok {
		row[model.FieldCreatedAt] = now
	}
	if _, ok := row[model.FieldUpdatedAt]; !ok {
		row[model.FieldUpdatedAt] = row[model.FieldCreatedAt]
	}
}
