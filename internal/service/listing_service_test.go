package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/repository"
)

func TestListingService_DefaultListingIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		f.createIdea(t, title, "", "draft")
	}

	ideas := f.resource(t, "ideas")
	result, err := f.listing.List(context.Background(), ideas, f.listing.ParseRequest(ideas, url.Values{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, rowTitles(result.Rows))
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.False(t, result.Pagination().Visible())
}

func TestListingService_PageSizeFormula(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")
	const total = 23
	for i := 0; i < total; i++ {
		f.createIdea(t, fmt.Sprintf("idea %02d", i), "", "draft")
	}

	for _, limit := range []int{1, 5, 10, 23, 50} {
		for page := 1; page <= 6; page++ {
			result, err := f.listing.List(context.Background(), ideas, model.ListingRequest{Page: page, Limit: limit})
			require.NoError(t, err)

			want := min(limit, max(0, total-(page-1)*limit))
			assert.Len(t, result.Rows, want, "page=%d limit=%d", page, limit)
			assert.Equal(t, total, result.Total)
		}
	}
}

func TestListingService_PagesAreContiguousSlices(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")
	for i := 0; i < 12; i++ {
		f.createIdea(t, fmt.Sprintf("idea %02d", i), "", "draft")
	}

	all, err := f.listing.List(context.Background(), ideas, model.ListingRequest{Page: 1, Limit: 100})
	require.NoError(t, err)

	second, err := f.listing.List(context.Background(), ideas, model.ListingRequest{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, rowTitles(all.Rows[5:10]), rowTitles(second.Rows))
}

func TestListingService_SearchAndFilterCombineWithAnd(t *testing.T) {
	f := newFixture(t)
	f.createIdea(t, "Solar roof", "cheap power", "draft")
	f.createIdea(t, "Solar car", "fast", "published")
	f.createIdea(t, "Wind", "uses SOLAR backup", "published")
	f.createIdea(t, "Hydro", "dam", "published")

	ideas := f.resource(t, "ideas")
	req := f.listing.ParseRequest(ideas, url.Values{"search": {"solar"}, "status": {"published"}})
	result, err := f.listing.List(context.Background(), ideas, req)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Solar car", "Wind"}, rowTitles(result.Rows))
	assert.Equal(t, 2, result.Total)
}

func TestListingService_IgnoresUndeclaredFilters(t *testing.T) {
	f := newFixture(t)
	f.createIdea(t, "Alpha", "", "draft")

	ideas := f.resource(t, "ideas")
	req := f.listing.ParseRequest(ideas, url.Values{"title": {"nothing matches"}})
	assert.Empty(t, req.Filters)

	result, err := f.listing.List(context.Background(), ideas, model.ListingRequest{Filters: map[string]string{"title": "zzz"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestListingService_CreateThenSearchRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.createIdea(t, "Other", "unrelated", "draft")
	f.createIdea(t, "X", "Y", "draft")

	ideas := f.resource(t, "ideas")
	result, err := f.listing.List(context.Background(), ideas, model.ListingRequest{Search: "X"})
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "X", result.Rows[0]["title"])
}

func TestListingService_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.createIdea(t, fmt.Sprintf("idea %d", i), "", "draft")
	}

	ideas := f.resource(t, "ideas")
	req := model.ListingRequest{Page: 2, Limit: 3}
	first, err := f.listing.List(context.Background(), ideas, req)
	require.NoError(t, err)
	second, err := f.listing.List(context.Background(), ideas, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestListingService_ParseRequestCoercion(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")

	tests := []struct {
		name  string
		query url.Values
		page  int
		limit int
	}{
		{name: "defaults", query: url.Values{}, page: 1, limit: 10},
		{name: "zero limit", query: url.Values{"limit": {"0"}}, page: 1, limit: 10},
		{name: "negative limit", query: url.Values{"limit": {"-5"}}, page: 1, limit: 10},
		{name: "negative page", query: url.Values{"page": {"-3"}}, page: 1, limit: 10},
		{name: "zero page", query: url.Values{"page": {"0"}}, page: 1, limit: 10},
		{name: "garbage", query: url.Values{"page": {"two"}, "limit": {"ten"}}, page: 1, limit: 10},
		{name: "explicit", query: url.Values{"page": {"3"}, "limit": {"25"}}, page: 3, limit: 25},
		{name: "over the cap", query: url.Values{"limit": {"100000"}}, page: 1, limit: 100},
		{name: "huge page", query: url.Values{"page": {"922337203685477590"}}, page: model.MaxPage(10), limit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.listing.ParseRequest(ideas, tt.query)
			assert.Equal(t, tt.page, req.Page)
			assert.Equal(t, tt.limit, req.Limit)
			assert.GreaterOrEqual(t, req.Offset(), 0)
		})
	}
}

func TestListingService_NormalizesDirectRequests(t *testing.T) {
	f := newFixture(t)
	f.createIdea(t, "Alpha", "", "draft")

	result, err := f.listing.List(context.Background(), f.resource(t, "ideas"), model.ListingRequest{Page: -2, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.Len(t, result.Rows, 1)
}

func TestListingService_HugePageIsPastTheEnd(t *testing.T) {
	f := newFixture(t)
	f.createIdea(t, "Alpha", "", "draft")
	f.createIdea(t, "Beta", "", "draft")

	result, err := f.listing.List(context.Background(), f.resource(t, "ideas"), model.ListingRequest{Page: 922337203685477590, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 2, result.Total)
	assert.Greater(t, result.Page, 1)

	req := model.ListingRequest{Page: result.Page, Limit: result.Limit}
	assert.Positive(t, req.Offset())

	p := result.Pagination()
	assert.True(t, p.HasPrev)
	assert.False(t, p.HasNext)
}

func TestListingService_DeclaredOrderField(t *testing.T) {
	f := newFixture(t)
	lessons := f.resource(t, "lessons")
	for _, pos := range []int{3, 1, 2} {
		_, err := f.records.Create(context.Background(), lessons, model.Row{
			"course_id": "c1", "title": fmt.Sprintf("lesson %d", pos), "position": pos, "status": "draft",
		})
		require.NoError(t, err)
	}

	result, err := f.listing.List(context.Background(), lessons, model.ListingRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson 1", "lesson 2", "lesson 3"}, rowTitles(result.Rows))
}

func TestListingService_InvalidNumericFilter(t *testing.T) {
	f := newFixture(t)
	votes := f.resource(t, "votes")

	_, err := f.listing.List(context.Background(), votes, model.ListingRequest{Filters: map[string]string{"value": "up"}})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "value", verr.Fields[0].Field)
}

func TestListingService_DataSourceErrorIsSignalled(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")

	src := new(repository.MockSource)
	storeErr := model.NewDataSourceError("select", "ideas", errors.New("connection refused"))
	src.On("Select", mock.Anything, mock.Anything).Return(nil, 0, storeErr).Once()

	svc := NewListingService(src, 10, 100)
	_, err := svc.List(context.Background(), ideas, model.ListingRequest{})

	var dsErr *model.DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Contains(t, err.Error(), "connection refused")
	src.AssertNumberOfCalls(t, "Select", 1)
}

func TestListingService_BuildsQuery(t *testing.T) {
	f := newFixture(t)
	ideas := f.resource(t, "ideas")

	src := new(repository.MockSource)
	src.On("Select", mock.Anything, repository.Query{
		Table:  "ideas",
		Eq:     []repository.Eq{{Field: "category", Value: "energy"}, {Field: "status", Value: "draft"}},
		Search: &repository.Search{Fields: []string{"title", "description"}, Term: "sun"},
		Order:  []repository.Order{{Field: "created_at"}},
		Offset: 40,
		Limit:  20,
	}).Return([]model.Row{}, 0, nil).Once()

	svc := NewListingService(src, 10, 100)
	_, err := svc.List(context.Background(), ideas, model.ListingRequest{
		Search:  "sun",
		Filters: map[string]string{"status": "draft", "category": "energy"},
		Page:    3,
		Limit:   20,
	})
	require.NoError(t, err)
	src.AssertExpectations(t)
}
