package openapi

import "time"

// Item is the wire form of a content item.
type Item struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Site      string    `json:"site"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Category  string    `json:"category,omitempty"`
	Status    *string   `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListItemsData wraps the items of one page.
type ListItemsData struct {
	Items []Item `json:"items"`
}

// ListItemsResponse is the body of GET /api/v1/{kind}.
type ListItemsResponse struct {
	Data       ListItemsData `json:"data"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}

// ItemResponse is the body of single-item responses.
type ItemResponse struct {
	Data Item `json:"data"`
}

// CreateItemRequest is the body of POST /api/v1/{kind}.
type CreateItemRequest struct {
	Site     string  `json:"site"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary,omitempty"`
	Category string  `json:"category,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// UpdateItemRequest is the body of PATCH /api/v1/{kind}/{id}.
// Absent fields are left unchanged.
type UpdateItemRequest struct {
	Title       *string `json:"title,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	Category    *string `json:"category,omitempty"`
	Status      *string `json:"status,omitempty"`
	ClearStatus bool    `json:"clearStatus,omitempty"`
}

// Query parameter names of the listing endpoint.
const (
	ParamPage     = "page"
	ParamLimit    = "limit"
	ParamQuery    = "q"
	ParamCategory = "category"
	ParamStatus   = "status"
)
