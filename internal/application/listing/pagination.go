package listing

// Default pagination values.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Pagination is the current page and page size of a screen.
// Page is 1-based and never below 1.
type Pagination struct {
	page     int
	pageSize int
}

// NewPagination returns pagination on page 1, clamping pageSize to [1, MaxPageSize]
// and using DefaultPageSize for non-positive values.
func NewPagination(pageSize int) Pagination {
	p := Pagination{page: 1}
	p.setSize(pageSize)
	return p
}

// Page returns the current page.
func (p Pagination) Page() int { return p.page }

// PageSize returns the current page size.
func (p Pagination) PageSize() int { return p.pageSize }

// Reset returns to page 1.
func (p *Pagination) Reset() { p.page = 1 }

// SetPage moves to page, clamped to at least 1. Reports whether the page changed.
func (p *Pagination) SetPage(page int) bool {
	if page < 1 {
		page = 1
	}
	if page == p.page {
		return false
	}
	p.page = page
	return true
}

// SetPageSize changes the page size and returns to page 1.
// Reports whether anything changed.
func (p *Pagination) SetPageSize(size int) bool {
	before := *p
	p.setSize(size)
	p.page = 1
	return before != *p
}

func (p *Pagination) setSize(size int) {
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	p.pageSize = size
}
