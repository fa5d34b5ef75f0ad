// Package client is the remote content API client used by the console.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/openapi"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config holds remote API settings.
type Config struct {
	BaseURL    string // e.g. http://localhost:8080
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; its transport is wrapped with otelhttp
}

// Client talks to the content API.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := &http.Client{Timeout: timeout}
	transport := http.DefaultTransport
	if cfg.HTTPClient != nil {
		*hc = *cfg.HTTPClient
		if hc.Timeout == 0 {
			hc.Timeout = timeout
		}
		if hc.Transport != nil {
			transport = hc.Transport
		}
	}
	hc.Transport = otelhttp.NewTransport(transport)

	return &Client{baseURL: base, apiKey: cfg.APIKey, http: hc}, nil
}

// Kind returns a client scoped to one content kind.
func (c *Client) Kind(kind domain.Kind) *KindClient {
	return &KindClient{client: c, kind: kind}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []response.ErrorField
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote API returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the status onto the domain sentinel the server started from.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrItemNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body response.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Code = body.Error.Code
	apiErr.Message = body.Error.Message
	apiErr.Details = body.Error.Details
	return apiErr
}

// IsRetryable reports whether err is a transport failure or a 5xx.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

func listQuery(q domain.ListingQuery) url.Values {
	v := url.Values{}
	v.Set(openapi.ParamPage, strconv.Itoa(max(q.Page, 1)))
	if q.PageSize > 0 {
		v.Set(openapi.ParamLimit, strconv.Itoa(q.PageSize))
	}
	if param := q.ActiveFacet().Param(); param != "" {
		v.Set(param, q.Value)
	}
	return v
}
