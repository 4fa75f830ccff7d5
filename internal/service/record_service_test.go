package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/event"
	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
)

func TestRecordService_CreateStampsAndStores(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")

	row, err := f.records.Create(context.Background(), ideas, model.Row{
		"title":    "Solar roof",
		"status":   "draft",
		"unknown":  "dropped",
		"id":       "client-chosen",
		"category": "energy",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, row.ID())
	assert.NotEqual(t, "client-chosen", row.ID())
	assert.NotContains(t, row, "unknown")
	assert.False(t, row.Time(model.FieldCreatedAt).IsZero())
	assert.Equal(t, row.Time(model.FieldCreatedAt), row.Time(model.FieldUpdatedAt))

	stored, err := f.records.Get(context.Background(), ideas, row.ID())
	require.NoError(t, err)
	assert.Equal(t, "Solar roof", stored["title"])
	assert.Equal(t, "energy", stored["category"])
}

func TestRecordService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		resource string
		input    model.Row
		fields   []string
	}{
		{
			name:     "missing required",
			resource: "ideas",
			input:    model.Row{"description": "no title"},
			fields:   []string{"title", "status"},
		},
		{
			name:     "not one of",
			resource: "ideas",
			input:    model.Row{"title": "x", "status": "maybe"},
			fields:   []string{"status"},
		},
		{
			name:     "bad email",
			resource: "users",
			input:    model.Row{"full_name": "Ada", "email": "nope", "role": "admin", "status": "active"},
			fields:   []string{"email"},
		},
		{
			name:     "not a number",
			resource: "packages",
			input:    model.Row{"name": "Pro", "price": "cheap", "billing_interval": "monthly", "status": "active"},
			fields:   []string{"price"},
		},
		{
			name:     "vote value",
			resource: "votes",
			input:    model.Row{"idea_id": "i1", "user_id": "u1", "value": 5},
			fields:   []string{"value"},
		},
		{
			name:     "bad timestamp",
			resource: "calendar_events",
			input:    model.Row{"title": "Standup", "starts_at": "tomorrow", "status": "scheduled"},
			fields:   []string{"starts_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.records.Create(context.Background(), f.resource(t, tt.resource), tt.input)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)

			got := make([]string, 0, len(verr.Fields))
			for _, fe := range verr.Fields {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}

	count, err := f.source.Count(context.Background(), "ideas")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordService_CreateCoercesTypes(t *testing.T) {
	f := newFixture(t)

	row, err := f.records.Create(context.Background(), f.resource(t, "calendar_events"), model.Row{
		"title":     "Launch",
		"starts_at": "2026-03-01T10:00",
		"status":    "scheduled",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), row.Time("starts_at"))

	vote, err := f.records.Create(context.Background(), f.resource(t, "votes"), model.Row{
		"idea_id": "i1", "user_id": "u1", "value": float64(-1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), vote["value"])
}

func TestRecordService_CreateAutoPopulatedIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.records.Create(context.Background(), f.resource(t, "activity_log"), model.Row{"action": "created"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRecordService_UpdateMergesSuppliedFields(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")
	created := f.createIdea(t, "Draft idea", "first pass", "draft")

	updated, err := f.records.Update(context.Background(), ideas, created.ID(), model.Row{"status": "published"})
	require.NoError(t, err)

	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, "published", updated["status"])
	assert.Equal(t, "Draft idea", updated["title"])
	assert.Equal(t, "first pass", updated["description"])
	assert.True(t, updated.Time(model.FieldUpdatedAt).After(created.Time(model.FieldCreatedAt)))
}

func TestRecordService_UpdateValidatesOnlySuppliedFields(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")
	created := f.createIdea(t, "Idea", "", "draft")

	_, err := f.records.Update(context.Background(), ideas, created.ID(), model.Row{"status": "gone"})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "status", verr.Fields[0].Field)

	stored, err := f.records.Get(context.Background(), ideas, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "draft", stored["status"])
}

func TestRecordService_DeleteThenUpdateIsNotFound(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")
	created := f.createIdea(t, "Doomed", "", "draft")

	result, err := f.records.Delete(context.Background(), ideas, created.ID())
	require.NoError(t, err)
	assert.Equal(t, model.DeleteResult{ID: created.ID(), Label: "Doomed", Deleted: true}, result)

	_, err = f.records.Update(context.Background(), ideas, created.ID(), model.Row{"title": "Back"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.records.Delete(context.Background(), ideas, created.ID())
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.records.Get(context.Background(), ideas, created.ID())
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, created.ID(), nf.ID)
}

func TestRecordService_PublishesEvents(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")
	events, unsubscribe := f.bus.Subscribe("test")
	defer unsubscribe()

	created := f.createIdea(t, "Evented", "", "draft")
	_, err := f.records.Update(context.Background(), ideas, created.ID(), model.Row{"status": "published"})
	require.NoError(t, err)
	_, err = f.records.Delete(context.Background(), ideas, created.ID())
	require.NoError(t, err)

	var got []event.Type
	for range 3 {
		select {
		case e := <-events:
			assert.Equal(t, "ideas", e.Resource)
			assert.Equal(t, created.ID(), e.RecordID)
			assert.Equal(t, "Evented", e.Label)
			got = append(got, e.Type)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	assert.Equal(t, []event.Type{event.TypeRowCreated, event.TypeRowUpdated, event.TypeRowDeleted}, got)
}

func TestRecordService_StoreFailureIsDataSourceError(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")

	src := new(repository.MockSource)
	storeErr := model.NewDataSourceError("insert", "ideas", errors.New("permission denied for table ideas"))
	src.On("Insert", mock.Anything, "ideas", mock.AnythingOfType("model.Row")).Return(nil, storeErr).Once()

	svc := NewRecordService(src, nil, nil)
	_, err := svc.Create(context.Background(), ideas, model.Row{"title": "x", "status": "draft"})

	var dsErr *model.DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "insert", dsErr.Op)
	assert.Contains(t, err.Error(), "permission denied")
	src.AssertExpectations(t)
}

func TestRecordService_DeleteFailureKeepsRow(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")

	src := new(repository.MockSource)
	src.On("Get", mock.Anything, "ideas", "i1").Return(model.Row{"id": "i1", "title": "Kept"}, nil).Once()
	src.On("Delete", mock.Anything, "ideas", "i1").Return(model.NewDataSourceError("delete", "ideas", errors.New("timeout"))).Once()

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe("test")
	defer unsubscribe()

	svc := NewRecordService(src, bus, nil)
	_, err := svc.Delete(context.Background(), ideas, "i1")
	require.Error(t, err)

	select {
	case e := <-events:
		t.Fatalf("unexpected event %s", e.Type)
	default:
	}
	src.AssertExpectations(t)
}
