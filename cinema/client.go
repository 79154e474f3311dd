package cinema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const apiPrefix = "/api"

// Client is the HTTP adapter shared by every resource
type Client struct {
	baseURL    *url.URL
	tokens     TokenSource
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a new cinema API client. tokens may be nil for
// anonymous access to the public endpoints.
func NewClient(baseURL string, tokens TokenSource, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported URL scheme %q", ErrInvalidConfig, u.Scheme)
	}

	options := clientOptions{
		timeout:   DefaultTimeout,
		userAgent: "cinemactl",
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    u,
		tokens:     tokens,
		httpClient: httpClient,
		userAgent:  options.userAgent,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured backend root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpoint builds an absolute URL for a path below /api. The path must
// already be escaped; escaped separators inside a segment are kept.
func (c *Client) endpoint(path string, params url.Values) string {
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + apiPrefix + path
	decoded, err := url.PathUnescape(u.RawPath)
	if err != nil {
		decoded = u.RawPath
	}
	u.Path = decoded
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// doRequest performs an authenticated request against an absolute URL and
// decodes the JSON answer into out when out is non-nil.
func (c *Client) doRequest(ctx context.Context, method, requestURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain API token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Str("request_id", requestID).
		Msg("Making cinema API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// newAPIError builds an APIError, preferring the DRF "detail" field as message
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       string(body),
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		apiErr.Message = detail.Detail
	}

	return apiErr
}

// TestConnection verifies the backend answers a public list request
func (c *Client) TestConnection(ctx context.Context) error {
	var raw json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, c.endpoint(showPath, nil), nil, &raw); err != nil {
		return err
	}
	return nil
}

// Catalog returns the movie catalog resource
func (c *Client) Catalog() *Resource[CatalogItem, string, CatalogPayload] {
	return newResource[CatalogItem, string, CatalogPayload](c, catalogPath, "catalog entry")
}

// Shows returns the show resource
func (c *Client) Shows() *Resource[Show, int64, ShowPayload] {
	return newResource[Show, int64, ShowPayload](c, showPath, "show")
}

// Reservations returns the reservation resource
func (c *Client) Reservations() *Resource[Reservation, int64, ReservationPayload] {
	return newResource[Reservation, int64, ReservationPayload](c, reservationPath, "reservation")
}

// Events returns the reservation event resource
func (c *Client) Events() *Resource[ReservationEvent, string, EventPayload] {
	return newResource[ReservationEvent, string, EventPayload](c, eventPath, "reservation event")
}
