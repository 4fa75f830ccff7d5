package model

// PageWindow is the number of page links shown around the current page.
const PageWindow = 5

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	PrevPage   int   `json:"prev_page,omitempty"`
	NextPage   int   `json:"next_page,omitempty"`
	Pages      []int `json:"pages"`
}

// NewPagination derives page metadata for a listing. The visible window holds
// at most PageWindow numbers centered on page and clamped to [1, TotalPages];
// when the right edge clamps, the window is re-expanded to the left.
func NewPagination(page int, limit int, total int) Pagination {
	if page < 1 {
		page = 1
	}

	p := Pagination{Page: page, Limit: limit, Total: total, Pages: []int{}}
	if limit <= 0 || total <= 0 {
		return p
	}

	p.TotalPages = (total + limit - 1) / limit
	p.HasPrev = page > 1
	p.HasNext = page < p.TotalPages
	if p.HasPrev {
		p.PrevPage = page - 1
	}
	if p.HasNext {
		p.NextPage = page + 1
	}

	start := max(1, page-PageWindow/2)
	end := min(p.TotalPages, start+PageWindow-1)
	if end-start+1 < PageWindow {
		start = max(1, end-PageWindow+1)
	}

	for n := start; n <= end; n++ {
		p.Pages = append(p.Pages, n)
	}

	return p
}

// Visible reports whether a pagination control should be rendered at all.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}
