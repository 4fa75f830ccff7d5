package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
	"go-admin-panel/internal/service"
)

// Creator is the part of the record service seeding needs.
type Creator interface {
	Create(ctx context.Context, res *resource.Resource, input model.Row) (model.Row, error)
}

type Seeder struct {
	registry *resource.Registry
	records  Creator
}

func New(registry *resource.Registry, records Creator) *Seeder {
	return &Seeder{registry: registry, records: records}
}

var _ Creator = (*service.RecordService)(nil)

// Run inserts the sample data set through the normal create path, so rows
// are validated and stamped like any other. It returns the number of rows
// created per resource. Resources named in only restrict the run.
func (s *Seeder) Run(ctx context.Context, only ...string) (map[string]int, error) {
	created := map[string]int{}
	ids := map[string][]string{}

	want := func(name string) bool {
		if len(only) == 0 {
			return true
		}
		for _, o := range only {
			if o == name {
				return true
			}
		}
		return false
	}

	for _, batch := range sampleData() {
		if !want(batch.resource) {
			continue
		}

		res, err := s.registry.Get(batch.resource)
		if errors.Is(err, model.ErrUnknownResource) {
			slog.Warn("seed skipped unregistered resource", "resource", batch.resource)
			continue
		}
		if err != nil {
			return created, err
		}

		for _, input := range batch.rows(ids) {
			row, err := s.records.Create(ctx, res, input)
			if err != nil {
				return created, fmt.Errorf("seed %s: %w", res.Name, err)
			}
			ids[res.Name] = append(ids[res.Name], row.ID())
			created[res.Name]++
		}
		slog.Info("seeded resource", "resource", res.Name, "rows", created[res.Name])
	}

	return created, nil
}

type batch struct {
	resource string
	rows     func(ids map[string][]string) []model.Row
}

func fixed(rows ...model.Row) func(map[string][]string) []model.Row {
	return func(map[string][]string) []model.Row { return rows }
}

// pick returns the i-th id created for a resource, or "" when there is none.
func pick(ids map[string][]string, name string, i int) string {
	list := ids[name]
	if len(list) == 0 {
		return ""
	}
	return list[i%len(list)]
}

func sampleData() []batch {
	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	return []batch{
		{resource: "users", rows: fixed(
			model.Row{"full_name": "Ada Lovelace", "email": "ada@example.com", "role": "admin", "status": "active"},
			model.Row{"full_name": "Grace Hopper", "email": "grace@example.com", "role": "member", "status": "active"},
			model.Row{"full_name": "Alan Turing", "email": "alan@example.com", "role": "member", "status": "suspended"},
		)},
		{resource: "ideas", rows: func(ids map[string][]string) []model.Row {
			return []model.Row{
				{"title": "Alpha", "description": "Dark mode for the dashboard", "status": "published", "category": "product", "user_id": pick(ids, "users", 0)},
				{"title": "Beta", "description": "Export listings as CSV", "status": "draft", "category": "product", "user_id": pick(ids, "users", 1)},
				{"title": "Gamma", "description": "Weekly digest email", "status": "published", "category": "growth", "user_id": pick(ids, "users", 2)},
			}
		}},
		{resource: "votes", rows: func(ids map[string][]string) []model.Row {
			rows := make([]model.Row, 0, 4)
			for i, v := range []int{1, 1, -1, 1} {
				rows = append(rows, model.Row{"idea_id": pick(ids, "ideas", i), "user_id": pick(ids, "users", i+1), "value": v})
			}
			return rows
		}},
		{resource: "packages", rows: fixed(
			model.Row{"name": "Starter", "description": "For individuals", "price": 9.0, "billing_interval": "monthly", "status": "active"},
			model.Row{"name": "Team", "description": "Up to 20 seats", "price": 49.0, "billing_interval": "monthly", "status": "active"},
			model.Row{"name": "Enterprise", "description": "Annual contract", "price": 4900.0, "billing_interval": "yearly", "status": "inactive"},
		)},
		{resource: "invoices", rows: fixed(
			model.Row{"number": "INV-1001", "customer_email": "grace@example.com", "amount": 49.0, "currency": "USD", "status": "paid", "due_at": start.AddDate(0, 0, -20)},
			model.Row{"number": "INV-1002", "customer_email": "alan@example.com", "amount": 9.0, "currency": "EUR", "status": "pending", "due_at": start.AddDate(0, 0, 10)},
		)},
		{resource: "courses", rows: fixed(
			model.Row{"title": "Go Fundamentals", "description": "Types, interfaces, concurrency", "level": "beginner", "status": "published"},
			model.Row{"title": "Production Postgres", "description": "Indexes and query plans", "level": "advanced", "status": "draft"},
		)},
		{resource: "lessons", rows: func(ids map[string][]string) []model.Row {
			course := pick(ids, "courses", 0)
			return []model.Row{
				{"course_id": course, "title": "Hello, World", "position": 1, "status": "published"},
				{"course_id": course, "title": "Slices and maps", "position": 2, "status": "published"},
				{"course_id": course, "title": "Goroutines", "position": 3, "status": "draft"},
			}
		}},
		{resource: "calendar_events", rows: fixed(
			model.Row{"title": "Release planning", "location": "Room 4", "starts_at": start, "ends_at": start.Add(time.Hour), "status": "scheduled"},
			model.Row{"title": "Customer call", "location": "Video", "starts_at": start.AddDate(0, 0, 2), "status": "scheduled"},
		)},
	}
}
