package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
	"go-admin-panel/internal/resource"
)

type OverviewService struct {
	source      repository.Source
	resources   []*resource.Resource
	concurrency int
}

func NewOverviewService(source repository.Source, resources []*resource.Resource, concurrency int) *OverviewService {
	if concurrency <= 0 {
		concurrency = 8
	}

	return &OverviewService{source: source, resources: resources, concurrency: concurrency}
}

// Counts queries the row count of every table concurrently. A table whose
// count fails reports zero and an error marker; the others are unaffected.
func (s *OverviewService) Counts(ctx context.Context) model.Overview {
	counts := make([]model.TableCount, len(s.resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, res := range s.resources {
		g.Go(func() error {
			tc := model.TableCount{Resource: res.Name, Title: res.Title, Table: res.Table}
			n, err := s.source.Count(gctx, res.Table)
			if err != nil {
				slog.Warn("table count failed", "table", res.Table, "error", err)
				tc.Error = err.Error()
			} else {
				tc.Count = n
			}
			counts[i] = tc
			return nil
		})
	}
	_ = g.Wait()

	out := model.Overview{Tables: counts}
	for _, tc := range counts {
		out.Total += tc.Count
		if tc.Error != "" {
			out.Failed++
		}
	}

	return out
}
