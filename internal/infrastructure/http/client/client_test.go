package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/application/content"
	"github.com/rezkam/newsdesk/internal/application/listing"
	"github.com/rezkam/newsdesk/internal/domain"
	httpapi "github.com/rezkam/newsdesk/internal/infrastructure/http"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/client"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/handler"
	"github.com/rezkam/newsdesk/internal/infrastructure/persistence/sqlstore"
)

const testKey = "nd_000000000000_client"

type allowKey struct{}

func (allowKey) ValidateAPIKey(_ context.Context, apiKey string) (*domain.APIKey, error) {
	if apiKey != testKey {
		return nil, domain.ErrUnauthorized
	}
	return &domain.APIKey{ID: "test"}, nil
}

// newRemote runs the real API over an in-memory store.
func newRemote(t *testing.T) string {
	t.Helper()
	store, err := sqlstore.NewStoreFromDSN(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	router, err := handler.NewOpenAPIRouter(content.NewService(store, nil, content.Config{}))
	require.NoError(t, err)
	srv := httptest.NewServer(httpapi.NewAPIServer(router, allowKey{}, httpapi.ServerConfig{}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func newKindClient(t *testing.T, baseURL, key string, kind domain.Kind) *client.KindClient {
	t.Helper()
	c, err := client.New(client.Config{BaseURL: baseURL, APIKey: key})
	require.NoError(t, err)
	return c.Kind(kind)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://example.com"} {
		_, err := client.New(client.Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestKindClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	articles := newKindClient(t, newRemote(t), testKey, domain.KindArticle)

	live := domain.StatusLive
	created, err := articles.Create(ctx, domain.NewItemParams{Site: "news", Title: "Flood warning", Category: "weather", Status: &live})
	require.NoError(t, err)
	assert.Equal(t, domain.KindArticle, created.Kind)
	require.NotNil(t, created.Status)
	assert.Equal(t, domain.StatusLive, *created.Status)

	got, err := articles.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flood warning", got.Title)

	title := "Flood warning lifted"
	updated, err := articles.Update(ctx, created.ID, domain.UpdateItemParams{Title: &title, ClearStatus: true})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Nil(t, updated.Status)

	require.NoError(t, articles.Delete(ctx, created.ID))

	_, err = articles.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestKindClient_Retrieve(t *testing.T) {
	ctx := context.Background()
	opinions := newKindClient(t, newRemote(t), testKey, domain.KindOpinion)

	headline := domain.StatusHeadline
	for i, title := range []string{"On taxes", "On trains", "On tides", "On tariffs", "Weekend reading"} {
		params := domain.NewItemParams{Site: "news", Title: title, Category: "economy"}
		if i == 1 {
			params.Category = "transport"
			params.Status = &headline
		}
		_, err := opinions.Create(ctx, params)
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		query     domain.ListingQuery
		wantTotal int
		wantItems int
		wantPages int
	}{
		{name: "none", query: domain.ListingQuery{Page: 1, PageSize: 2}, wantTotal: 5, wantItems: 2, wantPages: 3},
		{name: "last page", query: domain.ListingQuery{Page: 3, PageSize: 2}, wantTotal: 5, wantItems: 1, wantPages: 3},
		{name: "search", query: domain.ListingQuery{Selection: domain.SearchSelection("on t"), Page: 1, PageSize: 10}, wantTotal: 4, wantItems: 4, wantPages: 1},
		{name: "category", query: domain.ListingQuery{Selection: domain.CategorySelection("transport"), Page: 1, PageSize: 10}, wantTotal: 1, wantItems: 1, wantPages: 1},
		{name: "status", query: domain.ListingQuery{Selection: domain.StatusSelection(domain.StatusHeadline), Page: 1, PageSize: 10}, wantTotal: 1, wantItems: 1, wantPages: 1},
		{name: "no match", query: domain.ListingQuery{Selection: domain.SearchSelection("zzz"), Page: 1, PageSize: 10}, wantTotal: 0, wantItems: 0, wantPages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := opinions.Retrieve(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.Total)
			assert.Len(t, res.Items, tt.wantItems)
			assert.Equal(t, tt.wantPages, res.TotalPages)
			for _, item := range res.Items {
				assert.Equal(t, domain.KindOpinion, item.Kind)
			}
		})
	}
}

func TestKindClient_SatisfiesRetriever(t *testing.T) {
	var _ listing.Retriever[domain.Item] = (*client.KindClient)(nil)
	b := listing.BindAll[domain.Item](&client.KindClient{})
	assert.NotNil(t, b.For(domain.FacetStatus))
}

func TestKindClient_Unauthorized(t *testing.T) {
	graphics := newKindClient(t, newRemote(t), "nd_badbadbadbad_x", domain.KindGraphic)
	_, err := graphics.Retrieve(context.Background(), domain.ListingQuery{Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, client.IsRetryable(err))
}

func TestKindClient_SendsFacetParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/api/v1/sections", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  map[string]any{"items": []any{}},
			"total": 0, "totalPages": 0,
		})
	}))
	t.Cleanup(srv.Close)

	sections := newKindClient(t, srv.URL, "k", domain.KindSection)
	res, err := sections.Retrieve(context.Background(), domain.ListingQuery{
		Selection: domain.CategorySelection("sport"), Page: 2, PageSize: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"25"}, gotQuery["limit"])
	assert.Equal(t, []string{"sport"}, gotQuery["category"])
	assert.NotContains(t, gotQuery, "q")
	assert.NotContains(t, gotQuery, "status")
}

func TestKindClient_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Kind(domain.KindArticle).Retrieve(context.Background(), domain.ListingQuery{Page: 1, PageSize: 5})

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Message)
	assert.True(t, client.IsRetryable(err))
}
