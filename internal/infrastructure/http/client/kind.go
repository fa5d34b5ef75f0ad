package client

import (
	"context"
	"net/http"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
)

// KindClient serves one content kind. It satisfies listing.Retriever.
type KindClient struct {
	client *Client
	kind   domain.Kind
}

// Kind returns the content kind this client serves.
func (k *KindClient) Kind() domain.Kind {
	return k.kind
}

func (k *KindClient) collection() string {
	return "/api/v1/" + string(k.kind)
}

func (k *KindClient) member(id string) string {
	return k.collection() + "/" + id
}

// Retrieve fetches one listing page, sending the facet parameter for q.Facet.
func (k *KindClient) Retrieve(ctx context.Context, q domain.ListingQuery) (domain.ListingResult[domain.Item], error) {
	var body openapi.ListItemsResponse
	if err := k.client.do(ctx, http.MethodGet, k.collection(), listQuery(q), nil, &body); err != nil {
		return domain.ListingResult[domain.Item]{}, err
	}

	items := make([]domain.Item, len(body.Data.Items))
	for i, dto := range body.Data.Items {
		items[i] = ItemFromDTO(dto)
	}
	return domain.ListingResult[domain.Item]{
		Items:      items,
		Total:      body.Total,
		TotalPages: max(body.TotalPages, 1),
	}, nil
}

// Get fetches one item.
func (k *KindClient) Get(ctx context.Context, id string) (*domain.Item, error) {
	var body openapi.ItemResponse
	if err := k.client.do(ctx, http.MethodGet, k.member(id), nil, nil, &body); err != nil {
		return nil, err
	}
	item := ItemFromDTO(body.Data)
	return &item, nil
}

// Create stores a new item.
func (k *KindClient) Create(ctx context.Context, params domain.NewItemParams) (*domain.Item, error) {
	req := openapi.CreateItemRequest{
		Site:     params.Site,
		Title:    params.Title,
		Summary:  params.Summary,
		Category: params.Category,
	}
	if params.Status != nil {
		s := string(*params.Status)
		req.Status = &s
	}

	var body openapi.ItemResponse
	if err := k.client.do(ctx, http.MethodPost, k.collection(), nil, req, &body); err != nil {
		return nil, err
	}
	item := ItemFromDTO(body.Data)
	return &item, nil
}

// Update applies a partial update.
func (k *KindClient) Update(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.Item, error) {
	req := openapi.UpdateItemRequest{
		Title:       params.Title,
		Summary:     params.Summary,
		Category:    params.Category,
		ClearStatus: params.ClearStatus,
	}
	if params.Status != nil && !params.ClearStatus {
		s := string(*params.Status)
		req.Status = &s
	}

	var body openapi.ItemResponse
	if err := k.client.do(ctx, http.MethodPatch, k.member(id), nil, req, &body); err != nil {
		return nil, err
	}
	item := ItemFromDTO(body.Data)
	return &item, nil
}

// Delete removes an item.
func (k *KindClient) Delete(ctx context.Context, id string) error {
	return k.client.do(ctx, http.MethodDelete, k.member(id), nil, nil, nil)
}

// ItemFromDTO converts the wire form back into a domain item.
func ItemFromDTO(dto openapi.Item) domain.Item {
	item := domain.Item{
		ID:        dto.ID,
		Kind:      domain.Kind(dto.Kind),
		Site:      dto.Site,
		Title:     dto.Title,
		Summary:   dto.Summary,
		Category:  dto.Category,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
	if dto.Status != nil {
		status := domain.ContentStatus(*dto.Status)
		item.Status = &status
	}
	return item
}
