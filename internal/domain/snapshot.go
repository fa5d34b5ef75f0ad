package domain

import "time"

// Snapshot is a pre-rendered first page of the default listing of one kind.
// Consoles seed their controller with it so the first screen needs no request.
type Snapshot struct {
	Kind        Kind      `json:"kind"`
	Items       []Item    `json:"items"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"totalPages"`
	PageSize    int       `json:"pageSize"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Result returns the snapshot as a listing page.
func (s Snapshot) Result() ListingResult[Item] {
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	return ListingResult[Item]{Items: items, Total: s.Total, TotalPages: max(s.TotalPages, 1)}
}

// Fresh reports whether the snapshot is younger than maxAge at now.
// A non-positive maxAge accepts any age.
func (s Snapshot) Fresh(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return true
	}
	return now.Sub(s.GeneratedAt) <= maxAge
}
