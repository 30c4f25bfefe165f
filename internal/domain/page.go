package domain

// Link listings are paged; the defaults keep a trip's board on one page.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100

	// MaxPage bounds the page number so (Page-1)*Limit always fits an OFFSET.
	MaxPage = 1_000_000
)

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query values.
// Nil or non-positive values fall back to page 1 and DefaultPageLimit;
// pages above MaxPage and limits above MaxPageLimit are clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes the page that was returned alongside the grand total.
type Pagination struct {
	Page  int
	Limit int
	Total int64
}

// Of returns the Pagination for these params given the total row count.
func (p PaginationParams) Of(total int64) Pagination {
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total}
}
