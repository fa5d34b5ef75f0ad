package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/application/content"
	"github.com/rezkam/newsdesk/internal/domain"
	httpapi "github.com/rezkam/newsdesk/internal/infrastructure/http"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/handler"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
	"github.com/rezkam/newsdesk/internal/infrastructure/persistence/sqlstore"
)

const testKey = "nd_000000000000_test"

type allowKey struct{}

func (allowKey) ValidateAPIKey(_ context.Context, apiKey string) (*domain.APIKey, error) {
	if apiKey != testKey {
		return nil, domain.ErrUnauthorized
	}
	return &domain.APIKey{ID: "test", Name: "test"}, nil
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store, err := sqlstore.NewStoreFromDSN(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	service := content.NewService(store, nil, content.Config{})
	router, err := handler.NewOpenAPIRouter(service)
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewAPIServer(router, allowKey{}, httpapi.ServerConfig{}).Handler())
	t.Cleanup(srv.Close)
	return &apiClient{t: t, server: srv}
}

func (c *apiClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer "+testKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (c *apiClient) create(kind string, req openapi.CreateItemRequest) openapi.Item {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/v1/"+kind, req)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	return decode[openapi.ItemResponse](c.t, resp).Data
}

func strPtr(s string) *string { return &s }

func TestHealthNeedsNoKey(t *testing.T) {
	api := newAPI(t)
	resp, err := api.server.Client().Get(api.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresKey(t *testing.T) {
	api := newAPI(t)
	resp, err := api.server.Client().Get(api.server.URL + "/api/v1/articles")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestItemLifecycle(t *testing.T) {
	api := newAPI(t)

	created := api.create("articles", openapi.CreateItemRequest{
		Site: "news", Title: "Budget passes", Category: "politics", Status: strPtr("breaking"),
	})
	assert.Equal(t, "articles", created.Kind)
	require.NotNil(t, created.Status)
	assert.Equal(t, "breaking", *created.Status)

	t.Run("get", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/articles/"+created.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Budget passes", decode[openapi.ItemResponse](t, resp).Data.Title)
	})

	t.Run("wrong kind is not found", func(t *testing.T) {
		resp := api.do(http.MethodGet, "/api/v1/features/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("patch", func(t *testing.T) {
		resp := api.do(http.MethodPatch, "/api/v1/articles/"+created.ID, openapi.UpdateItemRequest{
			Title: strPtr("Budget passes narrowly"), ClearStatus: true,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decode[openapi.ItemResponse](t, resp).Data
		assert.Equal(t, "Budget passes narrowly", updated.Title)
		assert.Nil(t, updated.Status)
	})

	t.Run("delete", func(t *testing.T) {
		resp := api.do(http.MethodDelete, "/api/v1/articles/"+created.ID, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = api.do(http.MethodDelete, "/api/v1/articles/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListItems(t *testing.T) {
	api := newAPI(t)
	for i := range 12 {
		req := openapi.CreateItemRequest{Site: "news", Title: fmt.Sprintf("Story %02d", i), Category: "sport"}
		if i%4 == 0 {
			req.Status = strPtr("live")
			req.Category = "politics"
		}
		api.create("articles", req)
	}
	api.create("features", openapi.CreateItemRequest{Site: "news", Title: "Story feature"})

	list := func(t *testing.T, query string) openapi.ListItemsResponse {
		t.Helper()
		resp := api.do(http.MethodGet, "/api/v1/articles"+query, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[openapi.ListItemsResponse](t, resp)
	}

	t.Run("default page", func(t *testing.T) {
		page := list(t, "")
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 1, page.TotalPages)
		assert.Len(t, page.Data.Items, 12)
	})

	t.Run("page and limit", func(t *testing.T) {
		page := list(t, "?page=3&limit=5")
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Data.Items, 2)
	})

	t.Run("search", func(t *testing.T) {
		page := list(t, "?q=story%2007")
		require.Len(t, page.Data.Items, 1)
		assert.Equal(t, "Story 07", page.Data.Items[0].Title)
	})

	t.Run("category", func(t *testing.T) {
		assert.Equal(t, 3, list(t, "?category=politics").Total)
	})

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, 3, list(t, "?status=live").Total)
	})

	t.Run("status all means no filter", func(t *testing.T) {
		assert.Equal(t, 12, list(t, "?status=all").Total)
	})

	t.Run("empty page beyond the end", func(t *testing.T) {
		page := list(t, "?page=9&limit=5")
		assert.Empty(t, page.Data.Items)
		assert.NotNil(t, page.Data.Items)
		assert.Equal(t, 12, page.Total)
	})
}

func TestListItems_Rejects(t *testing.T) {
	api := newAPI(t)

	tests := map[string]string{
		"two facets":     "/api/v1/articles?q=a&category=b",
		"unknown status": "/api/v1/articles?status=archived",
		"page zero":      "/api/v1/articles?page=0",
		"limit too big":  "/api/v1/articles?limit=500",
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			resp := api.do(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[response.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
			assert.NotNil(t, body.Error.Details)
		})
	}
}

func TestCreateItem_Validation(t *testing.T) {
	api := newAPI(t)

	resp := api.do(http.MethodPost, "/api/v1/articles", map[string]any{"site": "news"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/v1/articles", map[string]any{"site": "news", "title": "x", "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMapItemToDTO(t *testing.T) {
	status := domain.StatusHeadline
	dto := handler.MapItemToDTO(domain.Item{ID: "1", Kind: domain.KindOpinion, Title: "t", Status: &status})
	assert.Equal(t, "opinions", dto.Kind)
	require.NotNil(t, dto.Status)
	assert.Equal(t, "headline", *dto.Status)

	dto = handler.MapItemToDTO(domain.Item{ID: "2"})
	assert.Nil(t, dto.Status)
}
