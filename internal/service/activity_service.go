package service

import (
	"context"
	"log/slog"

	"go-admin-panel/internal/event"
	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
	"go-admin-panel/internal/resource"
)

// ActivityRecorder appends one activity_log row per mutation event. The log
// is itself a listable resource.
type ActivityRecorder struct {
	source repository.Source
	bus    event.Bus
	log    *resource.Resource
}

func NewActivityRecorder(source repository.Source, bus event.Bus, log *resource.Resource) *ActivityRecorder {
	return &ActivityRecorder{source: source, bus: bus, log: log}
}

// Run records events until ctx is done or the bus closes the subscription.
func (a *ActivityRecorder) Run(ctx context.Context) {
	events, unsubscribe := a.bus.Subscribe("activity")
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := a.Record(ctx, e); err != nil {
				slog.Error("failed to record activity", "type", e.Type, "resource", e.Resource, "error", err)
			}
		}
	}
}

func (a *ActivityRecorder) Record(ctx context.Context, e event.Event) error {
	if e.Resource == a.log.Name {
		return nil
	}

	_, err := a.source.Insert(ctx, a.log.Table, model.Row{
		"action":    e.Type.Action(),
		"resource":  e.Resource,
		"record_id": e.RecordID,
		"label":     e.Label,
	})
	if err != nil {
		return err
	}

	slog.Info("activity", "action", e.Type.Action(), "resource", e.Resource, "id", e.RecordID, "label", e.Label)
	return nil
}
