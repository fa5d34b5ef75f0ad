package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
)

// CreateItem handles POST /v1/{kind}.
func (h *ContentHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.NewKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var req openapi.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params, err := createParams(kind, req)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	item, err := h.service.CreateItem(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create item via HTTP",
			"kind", kind,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "item created via HTTP",
		"kind", kind,
		"item_id", item.ID)

	response.Created(w, openapi.ItemResponse{Data: MapItemToDTO(*item)})
}

// GetItem handles GET /v1/{kind}/{id}.
func (h *ContentHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.NewKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")

	item, err := h.service.GetItem(r.Context(), kind, id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, openapi.ItemResponse{Data: MapItemToDTO(*item)})
}

// UpdateItem handles PATCH /v1/{kind}/{id}.
func (h *ContentHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.NewKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")

	var req openapi.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params, err := updateParams(req)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), kind, id, params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to update item via HTTP",
			"kind", kind,
			"item_id", id,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, openapi.ItemResponse{Data: MapItemToDTO(*item)})
}

// DeleteItem handles DELETE /v1/{kind}/{id}.
func (h *ContentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.NewKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), kind, id); err != nil {
		slog.ErrorContext(r.Context(), "failed to delete item via HTTP",
			"kind", kind,
			"item_id", id,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "item deleted via HTTP",
		"kind", kind,
		"item_id", id)

	response.NoContent(w)
}
