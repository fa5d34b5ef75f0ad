package handler

import (
	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
)

// MapItemToDTO converts domain.Item to openapi.Item.
func MapItemToDTO(item domain.Item) openapi.Item {
	dto := openapi.Item{
		ID:        item.ID,
		Kind:      string(item.Kind),
		Site:      item.Site,
		Title:     item.Title,
		Summary:   item.Summary,
		Category:  item.Category,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Status != nil {
		status := string(*item.Status)
		dto.Status = &status
	}
	return dto
}

// MapListingToDTO converts a listing page to the list response body.
func MapListingToDTO(result domain.ListingResult[domain.Item]) openapi.ListItemsResponse {
	items := make([]openapi.Item, len(result.Items))
	for i, item := range result.Items {
		items[i] = MapItemToDTO(item)
	}
	return openapi.ListItemsResponse{
		Data:       openapi.ListItemsData{Items: items},
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
}

// createParams converts a create request. Status is validated by the domain.
func createParams(kind domain.Kind, req openapi.CreateItemRequest) (domain.NewItemParams, error) {
	params := domain.NewItemParams{
		Kind:     kind,
		Site:     req.Site,
		Title:    req.Title,
		Summary:  req.Summary,
		Category: req.Category,
	}
	if req.Status != nil {
		status, err := domain.NewContentStatus(*req.Status)
		if err != nil {
			return domain.NewItemParams{}, err
		}
		params.Status = &status
	}
	return params, nil
}

// updateParams converts a partial update request.
func updateParams(req openapi.UpdateItemRequest) (domain.UpdateItemParams, error) {
	params := domain.UpdateItemParams{
		Title:       req.Title,
		Summary:     req.Summary,
		Category:    req.Category,
		ClearStatus: req.ClearStatus,
	}
	if req.Status != nil {
		status, err := domain.NewContentStatus(*req.Status)
		if err != nil {
			return domain.UpdateItemParams{}, err
		}
		params.Status = &status
	}
	return params, nil
}
