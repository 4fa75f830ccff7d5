package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/database"
	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
)

func newSQLiteSource(t *testing.T) *SQLiteSource {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	reg, err := resource.Default()
	require.NoError(t, err)
	require.NoError(t, database.EnsureSQLiteSchema(context.Background(), db, database.TablesFor(reg.All())))

	src := NewSQLiteSource(db)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSQLiteSource_ListingSemantics(t *testing.T) {
	src := newSQLiteSource(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fixtures := []model.Row{
		{"title": "Alpha", "description": "solar", "status": "draft"},
		{"title": "Beta", "description": "wind", "status": "published"},
		{"title": "Gamma", "description": "Solar panels", "status": "published"},
	}
	for i, f := range fixtures {
		f[model.FieldCreatedAt] = base.Add(time.Duration(i) * time.Minute)
		f[model.FieldUpdatedAt] = f[model.FieldCreatedAt]
		_, err := src.Insert(ctx, "ideas", f)
		require.NoError(t, err)
	}

	rows, total, err := src.Select(ctx, Query{Table: "ideas", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, titles(rows))
	assert.True(t, base.Add(2*time.Minute).Equal(rows[0].Time(model.FieldCreatedAt)))

	rows, total, err = src.Select(ctx, Query{
		Table:  "ideas",
		Search: &Search{Fields: []string{"title", "description"}, Term: "SOLAR"},
		Eq:     []Eq{{Field: "status", Value: "published"}},
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"Gamma"}, titles(rows))

	rows, total, err = src.Select(ctx, Query{Table: "ideas", Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"Alpha"}, titles(rows))
}

func TestSQLiteSource_SameTimestampKeepsInsertionOrder(t *testing.T) {
	src := newSQLiteSource(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := src.Insert(ctx, "ideas", model.Row{"title": title, "created_at": at, "updated_at": at})
		require.NoError(t, err)
	}

	rows, _, err := src.Select(ctx, Query{Table: "ideas"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, titles(rows))
}

func TestSQLiteSource_Mutations(t *testing.T) {
	src := newSQLiteSource(t)
	ctx := context.Background()

	created, err := src.Insert(ctx, "votes", model.Row{"idea_id": "i1", "user_id": "u1", "value": int64(1)})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())
	assert.Equal(t, int64(1), created["value"])

	updated, err := src.Update(ctx, "votes", created.ID(), model.Row{"value": int64(-1)})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), updated["value"])
	assert.Equal(t, "i1", updated["idea_id"])

	n, err := src.Count(ctx, "votes")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, src.Delete(ctx, "votes", created.ID()))
	assert.True(t, errors.Is(src.Delete(ctx, "votes", created.ID()), model.ErrNotFound))

	_, err = src.Update(ctx, "votes", created.ID(), model.Row{"value": int64(1)})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestSQLiteSource_StoreErrorsAreWrapped(t *testing.T) {
	src := newSQLiteSource(t)

	_, _, err := src.Select(context.Background(), Query{Table: "missing_table"})
	var dsErr *model.DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "count", dsErr.Op)
	assert.Contains(t, err.Error(), "no such table")
}
