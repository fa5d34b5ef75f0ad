package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/newsdesk/internal/application/content"
	mw "github.com/rezkam/newsdesk/internal/infrastructure/http/middleware"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
)

// ContentHandler adapts HTTP requests to content service calls.
type ContentHandler struct {
	service *content.Service
}

// NewContentHandler creates a new HTTP API handler.
func NewContentHandler(service *content.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// NewOpenAPIRouter creates the API handler with request validation against
// the embedded OpenAPI document. Production and tests both go through it.
func NewOpenAPIRouter(service *content.Service) (http.Handler, error) {
	h := NewContentHandler(service)

	spec, err := openapi.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(mw.NewValidator(spec, mw.ValidationConfig{MultiError: true}))
	h.Routes(r)

	return r, nil
}

// Routes registers the content endpoints on r.
func (h *ContentHandler) Routes(r chi.Router) {
	r.Route("/v1/{kind}", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Get("/{id}", h.GetItem)
		r.Patch("/{id}", h.UpdateItem)
		r.Delete("/{id}", h.DeleteItem)
	})
}
