package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/database"
	"go-admin-panel/internal/event"
	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
	"go-admin-panel/internal/resource"
)

type fixture struct {
	registry *resource.Registry
	source   *repository.MemorySource
	listing  *ListingService
	records  *RecordService
	bus      *event.InMemoryBus
}

// newFixture wires services over an in-memory store whose clock advances one
// second per read so creation order is visible in created_at.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg, err := resource.Default()
	require.NoError(t, err)

	src := repository.NewMemorySource(database.TableNames(database.TablesFor(reg.All()))...)
	bus := event.NewBus()
	records := NewRecordService(src, bus, NewValidator())

	current := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	records.SetClock(func() time.Time {
		current = current.Add(time.Second)
		return current
	})

	return &fixture{
		registry: reg,
		source:   src,
		listing:  NewListingService(src, DefaultPageSize, MaxPageSize),
		records:  records,
		bus:      bus,
	}
}

func (f *fixture) resource(t *testing.T, name string) *resource.Resource {
	t.Helper()

	res, err := f.registry.Get(name)
	require.NoError(t, err)
	return res
}

func (f *fixture) createIdea(t *testing.T, title string, description string, status string) model.Row {
	t.Helper()

	row, err := f.records.Create(context.Background(), f.resource(t, "ideas"), model.Row{
		"title":       title,
		"description": description,
		"status":      status,
	})
	require.NoError(t, err)
	return row
}

func rowTitles(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.String("title"))
	}
	return out
}
