package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
)

// ListItems serves one page of a faceted listing.
// GET /v1/{kind}?page&limit[&q|&category|&status]
func (h *ContentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.NewKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	query := r.URL.Query()
	page, ok := parsePositiveInt(query.Get(openapi.ParamPage), 1)
	if !ok {
		response.ValidationError(w, openapi.ParamPage, "must be a positive integer")
		return
	}
	// Zero lets the service apply its default page size.
	limit, ok := parsePositiveInt(query.Get(openapi.ParamLimit), 0)
	if !ok {
		response.ValidationError(w, openapi.ParamLimit, "must be a positive integer")
		return
	}

	sel, err := domain.SelectionFromParams(
		query.Get(openapi.ParamQuery),
		query.Get(openapi.ParamCategory),
		query.Get(openapi.ParamStatus),
	)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid listing facets",
			"kind", kind,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	result, err := h.service.ListItems(r.Context(), kind, sel, page, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list items via HTTP",
			"kind", kind,
			"selection", sel.String(),
			"page", page,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapListingToDTO(result))
}
