package domain

// ListingQuery uniquely determines which remote listing call is issued.
// It is comparable, so two queries can be checked for equality with ==.
type ListingQuery struct {
	Selection
	Page     int // 1-based
	PageSize int
}

// Validate checks page bounds and the selection.
func (q ListingQuery) Validate() error {
	if q.Page < 1 {
		return ErrInvalidPage
	}
	if q.PageSize < 1 {
		return ErrInvalidPageSize
	}
	return q.Selection.Validate()
}

// Offset returns the number of items skipped before this page.
func (q ListingQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// ListingResult is one page of a faceted listing.
type ListingResult[T any] struct {
	Items      []T
	Total      int // Total matching items across all pages
	TotalPages int // Always at least 1
}

// NewListingResult builds a page result, deriving TotalPages from total and pageSize.
func NewListingResult[T any](items []T, total, pageSize int) ListingResult[T] {
	if items == nil {
		items = []T{}
	}
	return ListingResult[T]{
		Items:      items,
		Total:      total,
		TotalPages: TotalPages(total, pageSize),
	}
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ListItemsParams contains parameters for a server-side faceted listing.
type ListItemsParams struct {
	Kind      Kind
	Selection Selection

	// Pagination (both required for correct pagination)
	Limit  int // Maximum number of items to return (page size)
	Offset int // Number of items to skip (for page N: offset = (N-1) * limit)
}

// PagedItems contains items matching ListItemsParams.
type PagedItems struct {
	Items      []Item
	TotalCount int  // Total matching items across all pages
	HasMore    bool // Whether there are more pages
}
