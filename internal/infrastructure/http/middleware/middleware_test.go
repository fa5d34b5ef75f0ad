package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
)

type stubValidator struct {
	key *domain.APIKey
	err error
}

func (s stubValidator) ValidateAPIKey(_ context.Context, apiKey string) (*domain.APIKey, error) {
	if s.err != nil {
		return nil, s.err
	}
	if apiKey != "nd_good" {
		return nil, domain.ErrUnauthorized
	}
	return s.key, nil
}

func TestAuth_Validate(t *testing.T) {
	key := &domain.APIKey{ID: "k1", Name: "console"}
	var seen *domain.APIKey
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = APIKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name      string
		header    string
		validator stubValidator
		status    int
	}{
		{name: "valid", header: "Bearer nd_good", validator: stubValidator{key: key}, status: http.StatusOK},
		{name: "missing header", header: "", validator: stubValidator{key: key}, status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", validator: stubValidator{key: key}, status: http.StatusUnauthorized},
		{name: "bad key", header: "Bearer nd_bad", validator: stubValidator{key: key}, status: http.StatusUnauthorized},
		{name: "storage error", header: "Bearer nd_good", validator: stubValidator{err: errors.New("db down")}, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			NewAuth(tt.validator).Validate(next).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Same(t, key, seen)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestMaxBodyBytes(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})
	handler := MaxBodyBytes(16)(echo)

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "small", w.Body.String())
	})

	t.Run("content length over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		var body response.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "PAYLOAD_TOO_LARGE", body.Error.Code)
	})

	t.Run("unknown length over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestParseValidationError_NeverNil(t *testing.T) {
	assert.NotNil(t, parseValidationError(nil))
	details := parseValidationError(errors.New("something odd"))
	require.Len(t, details, 1)
	assert.Equal(t, "request", details[0].Field)
}
