package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go-admin-panel/internal/event"
	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
	"go-admin-panel/internal/resource"
)

// RecordService is the create/update/delete contract shared by every admin
// table. Successful mutations are published on the event bus.
type RecordService struct {
	source    repository.Source
	bus       event.Bus
	validator *Validator
	now       func() time.Time
}

func NewRecordService(source repository.Source, bus event.Bus, validator *Validator) *RecordService {
	if validator == nil {
		validator = NewValidator()
	}

	return &RecordService{
		source:    source,
		bus:       bus,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for created_at and updated_at.
func (s *RecordService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RecordService) Get(ctx context.Context, res *resource.Resource, id string) (model.Row, error) {
	row, err := s.source.Get(ctx, res.Table, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", res.Name, err)
	}

	return row, nil
}

// Create validates input against the resource's fields, stamps id and
// timestamps and inserts one row. Keys that are not declared fields are dropped.
func (s *RecordService) Create(ctx context.Context, res *resource.Resource, input model.Row) (model.Row, error) {
	if res.AutoPopulated {
		verr := &model.ValidationError{}
		verr.Add(res.Name, "Rows are recorded automatically and cannot be created")
		return nil, verr
	}

	row, verr := s.prepare(res, input, true)
	if verr.HasErrors() {
		return nil, verr
	}

	now := s.now()
	row[model.FieldID] = uuid.NewString()
	row[model.FieldCreatedAt] = now
	row[model.FieldUpdatedAt] = now

	created, err := s.source.Insert(ctx, res.Table, row)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", res.Name, err)
	}

	s.publish(event.TypeRowCreated, res, created)
	return created, nil
}

// Update merges the supplied fields into an existing row. The row is looked
// up first so a missing id fails with *model.NotFoundError before any write.
func (s *RecordService) Update(ctx context.Context, res *resource.Resource, id string, input model.Row) (model.Row, error) {
	if _, err := s.source.Get(ctx, res.Table, id); err != nil {
		return nil, fmt.Errorf("update %s: %w", res.Name, err)
	}

	fields, verr := s.prepare(res, input, false)
	if verr.HasErrors() {
		return nil, verr
	}
	fields[model.FieldUpdatedAt] = s.now()

	updated, err := s.source.Update(ctx, res.Table, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", res.Name, err)
	}

	s.publish(event.TypeRowUpdated, res, updated)
	return updated, nil
}

// Delete removes a row and returns its display label for confirmation
// messages.
func (s *RecordService) Delete(ctx context.Context, res *resource.Resource, id string) (model.DeleteResult, error) {
	row, err := s.source.Get(ctx, res.Table, id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete %s: %w", res.Name, err)
	}

	if err := s.source.Delete(ctx, res.Table, id); err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete %s: %w", res.Name, err)
	}

	s.publish(event.TypeRowDeleted, res, row)
	return model.DeleteResult{ID: id, Label: res.Label(row), Deleted: true}, nil
}

// prepare keeps declared fields, converts them to their stored types and
// validates them. On create every field is checked so required rules apply to
// missing keys; on update only supplied keys are.
func (s *RecordService) prepare(res *resource.Resource, input model.Row, create bool) (model.Row, *model.ValidationError) {
	verr := &model.ValidationError{}
	out := model.Row{}

	for _, f := range res.Fields {
		raw, present := input[f.Name]
		if !present && !create {
			continue
		}

		value, err := coerce(f, raw)
		if err != nil {
			verr.Add(f.Name, err.Error())
			continue
		}

		s.validator.Field(verr, f, value)
		if present {
			out[f.Name] = value
		}
	}

	return out, verr
}

func (s *RecordService) publish(t event.Type, res *resource.Resource, row model.Row) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Resource:  res.Name,
		RecordID:  row.ID(),
		Label:     res.Label(row),
		Payload:   row,
		Timestamp: s.now().Format(time.RFC3339Nano),
	})
	slog.Debug("record event published", "type", t, "resource", res.Name, "id", row.ID())
}
