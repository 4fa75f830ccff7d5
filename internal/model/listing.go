package model

import "math"

type ColumnType string

const (
	ColumnText             ColumnType = "text"
	ColumnStatus           ColumnType = "status"
	ColumnDate             ColumnType = "date"
	ColumnTitleDescription ColumnType = "title_description"
)

// ColumnDescriptor says how one field of a row is labeled and rendered in a
// listing. It carries no behavior.
type ColumnDescriptor struct {
	Key          string     `json:"key" yaml:"key"`
	Label        string     `json:"label" yaml:"label"`
	Type         ColumnType `json:"type" yaml:"type"`
	SecondaryKey string     `json:"secondary_key,omitempty" yaml:"secondary_key"`
	Hidden       bool       `json:"hidden,omitempty" yaml:"hidden"`
	HideOnMobile bool       `json:"hide_on_mobile,omitempty" yaml:"hide_on_mobile"`
}

type Action struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label" yaml:"label"`
	Method  string `json:"method" yaml:"method"`
	Confirm bool   `json:"confirm,omitempty" yaml:"confirm"`
}

type ListingRequest struct {
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
}

// MaxPage is the highest page number whose offset and page window fit in
// an int for the given page size.
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	return math.MaxInt/limit - PageWindow
}

// Offset is the index of the first row of the requested page. It is never
// negative.
func (q ListingRequest) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}

	return (min(q.Page, MaxPage(q.Limit)) - 1) * q.Limit
}

type ListingResult struct {
	Rows  []Row `json:"rows"`
	Total int   `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func (r ListingResult) Pagination() Pagination {
	return NewPagination(r.Page, r.Limit, r.Total)
}
