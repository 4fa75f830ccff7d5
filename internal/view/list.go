package view

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
)

// ListView is the template context of a listing page and its fragment.
type ListView struct {
	Chrome
	Resource    string
	Columns     []model.ColumnDescriptor
	Data        []model.Row
	Actions     []model.Action
	BulkActions []model.Action
	Pagination  model.Pagination
	Query       url.Values
	Search      string
	Filters     []Filter
	CurrentURL  string
	Colspan     int
	Error       string

	res *resource.Resource
}

type Filter struct {
	Field string
	Value string
}

// Cell is one rendered table cell. Secondary is only set for
// title_description columns.
type Cell struct {
	Type      model.ColumnType
	Text      string
	Secondary string
	Time      time.Time
}

// NewListView builds the listing context. query is the request's query string;
// search, filters and limit are carried into every generated link.
func NewListView(chrome Chrome, res *resource.Resource, result model.ListingResult, query url.Values, currentURL string) ListView {
	kept := url.Values{}
	filters := make([]Filter, 0, len(res.FilterFields))
	if s := strings.TrimSpace(query.Get("search")); s != "" {
		kept.Set("search", s)
	}
	if l := strings.TrimSpace(query.Get("limit")); l != "" {
		kept.Set("limit", strconv.Itoa(result.Limit))
	}
	for _, f := range res.FilterFields {
		v := strings.TrimSpace(query.Get(f))
		if v != "" {
			kept.Set(f, v)
		}
		filters = append(filters, Filter{Field: f, Value: v})
	}

	data := result.Rows
	if data == nil {
		data = []model.Row{}
	}

	return ListView{
		Chrome:      chrome,
		Resource:    res.Name,
		Columns:     res.VisibleColumns(),
		Data:        data,
		Actions:     res.Actions,
		BulkActions: res.BulkActions,
		Pagination:  result.Pagination(),
		Query:       kept,
		Search:      kept.Get("search"),
		Filters:     filters,
		CurrentURL:  currentURL,
		Colspan:     res.Colspan(),
		res:         res,
	}
}

// WithError returns the view emptied of rows and carrying a message. Pages
// render it as a banner over an empty table.
func (v ListView) WithError(message string) ListView {
	v.Data = []model.Row{}
	v.Pagination = model.NewPagination(1, max(v.Pagination.Limit, 1), 0)
	v.Error = message
	return v
}

// PageURL links to another page of the same listing.
func (v ListView) PageURL(page int) string {
	q := cloneValues(v.Query)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}

	if enc := q.Encode(); enc != "" {
		return v.CurrentURL + "?" + enc
	}
	return v.CurrentURL
}

// RowURL addresses one row. The current page is kept so a mutation through
// it can answer with the same page of the listing.
func (v ListView) RowURL(id string) string {
	q := cloneValues(v.Query)
	if v.Pagination.Page > 1 {
		q.Set("page", strconv.Itoa(v.Pagination.Page))
	}

	u := v.CurrentURL + "/" + url.PathEscape(id)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// BulkURL is the endpoint of a bulk action over the selected rows.
func (v ListView) BulkURL(action string) string {
	q := cloneValues(v.Query)
	if v.Pagination.Page > 1 {
		q.Set("page", strconv.Itoa(v.Pagination.Page))
	}

	u := v.CurrentURL + "/bulk/" + url.PathEscape(action)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (v ListView) Cell(col model.ColumnDescriptor, row model.Row) Cell {
	c := Cell{Type: col.Type}
	switch col.Type {
	case model.ColumnDate:
		c.Time = row.Time(col.Key)
	case model.ColumnTitleDescription:
		c.Text = row.String(col.Key)
		if col.SecondaryKey != "" {
			c.Secondary = row.String(col.SecondaryKey)
		}
	default:
		c.Text = row.String(col.Key)
	}

	return c
}

func (v ListView) Label(row model.Row) string {
	if v.res == nil {
		return row.ID()
	}
	return v.res.Label(row)
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for k, vs := range in {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
