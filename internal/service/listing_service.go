package service

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
	"go-admin-panel/internal/resource"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListingService implements the search/filter/paginate/count contract shared
// by every admin table. It only reads.
type ListingService struct {
	source       repository.Source
	defaultLimit int
	maxLimit     int
}

func NewListingService(source repository.Source, defaultLimit int, maxLimit int) *ListingService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageSize
	}
	if maxLimit < defaultLimit {
		maxLimit = max(defaultLimit, MaxPageSize)
	}

	return &ListingService{source: source, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ParseRequest reads search, page, limit and the resource's declared filter
// fields from query parameters. Other parameters are ignored.
func (s *ListingService) ParseRequest(res *resource.Resource, values url.Values) model.ListingRequest {
	req := model.ListingRequest{
		Search:  strings.TrimSpace(values.Get("search")),
		Filters: map[string]string{},
		Page:    parseInt(values.Get("page"), 1),
		Limit:   parseInt(values.Get("limit"), s.defaultLimit),
	}

	for _, field := range res.FilterFields {
		if v := strings.TrimSpace(values.Get(field)); v != "" {
			req.Filters[field] = v
		}
	}

	return s.normalize(req)
}

func (s *ListingService) normalize(req model.ListingRequest) model.ListingRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = s.defaultLimit
	}
	if req.Limit > s.maxLimit {
		req.Limit = s.maxLimit
	}
	req.Page = min(req.Page, model.MaxPage(req.Limit))

	return req
}

// List returns one page of the resource's rows matching the request. Total
// counts every match, not just the returned page. Store failures come back as
// *model.DataSourceError; nothing is retried.
func (s *ListingService) List(ctx context.Context, res *resource.Resource, req model.ListingRequest) (model.ListingResult, error) {
	req = s.normalize(req)

	q := repository.Query{
		Table:  res.Table,
		Offset: req.Offset(),
		Limit:  req.Limit,
	}

	field, asc := res.OrderBy()
	q.Order = []repository.Order{{Field: field, Ascending: asc}}

	if req.Search != "" && len(res.SearchFields) > 0 {
		q.Search = &repository.Search{Fields: res.SearchFields, Term: req.Search}
	}

	verr := &model.ValidationError{}
	for _, key := range slices.Sorted(maps.Keys(req.Filters)) {
		if !res.IsFilterable(key) {
			continue
		}

		value, err := filterValue(res, key, req.Filters[key])
		if err != nil {
			verr.Add(key, err.Error())
			continue
		}
		q.Eq = append(q.Eq, repository.Eq{Field: key, Value: value})
	}
	if verr.HasErrors() {
		return model.ListingResult{}, verr
	}

	rows, total, err := s.source.Select(ctx, q)
	if err != nil {
		return model.ListingResult{}, fmt.Errorf("list %s: %w", res.Name, err)
	}

	return model.ListingResult{Rows: rows, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

func filterValue(res *resource.Resource, key string, raw string) (any, error) {
	f, ok := res.Field(key)
	if !ok {
		return raw, nil
	}

	v, err := coerce(f, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid filter value: %w", err)
	}

	return v, nil
}

func parseInt(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}

	return v
}
