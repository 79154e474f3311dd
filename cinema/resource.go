package cinema

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Collection endpoints below /api
const (
	catalogPath     = "/movie-catalog/"
	showPath        = "/show/"
	reservationPath = "/reservations/"
	eventPath       = "/reservation-events/"
)

// maxPages bounds ListAll when a backend keeps returning next links
const maxPages = 1000

// ID is the set of identifier types used by the backend: numeric primary
// keys for relational rows and string object ids for document rows.
type ID interface {
	~int64 | ~string
}

// ListOptions are translated into DRF query parameters
type ListOptions struct {
	Page     int
	Search   string
	Ordering string
	ShowID   int64
}

func (o ListOptions) values() url.Values {
	params := url.Values{}
	if o.Page > 1 {
		params.Set("page", strconv.Itoa(o.Page))
	}
	if o.Search != "" {
		params.Set("search", o.Search)
	}
	if o.Ordering != "" {
		params.Set("ordering", o.Ordering)
	}
	if o.ShowID > 0 {
		params.Set("show_id", strconv.FormatInt(o.ShowID, 10))
	}
	return params
}

// Resource maps one REST collection/item endpoint pair
type Resource[T any, K ID, P Payload] struct {
	client *Client
	path   string
	name   string
}

func newResource[T any, K ID, P Payload](c *Client, path, name string) *Resource[T, K, P] {
	return &Resource[T, K, P]{client: c, path: path, name: name}
}

func (r *Resource[T, K, P]) itemURL(id K) string {
	return r.client.endpoint(r.path+url.PathEscape(formatID(id))+"/", nil)
}

// List fetches the collection and returns the response verbatim
func (r *Resource[T, K, P]) List(ctx context.Context, opts ListOptions) (*ListResponse[T], error) {
	var resp ListResponse[T]
	if err := r.client.doRequest(ctx, http.MethodGet, r.client.endpoint(r.path, opts.values()), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.name, err)
	}
	return &resp, nil
}

// ListAll fetches every page by following next links
func (r *Resource[T, K, P]) ListAll(ctx context.Context, opts ListOptions) ([]T, error) {
	var all []T
	next := r.client.endpoint(r.path, opts.values())

	for page := 1; next != ""; page++ {
		if page > maxPages {
			return nil, fmt.Errorf("listing %s: more than %d pages", r.name, maxPages)
		}
		if err := r.client.sameHost(next); err != nil {
			return nil, fmt.Errorf("listing %s: %w", r.name, err)
		}

		var resp ListResponse[T]
		if err := r.client.doRequest(ctx, http.MethodGet, next, nil, &resp); err != nil {
			return nil, fmt.Errorf("listing %s: %w", r.name, err)
		}
		all = append(all, resp.Items()...)

		r.client.logger.Debug().
			Int("page", page).
			Int("count", len(resp.Items())).
			Int("total", len(all)).
			Msgf("Retrieved %s page", r.name)

		next = resp.NextURL()
	}

	return all, nil
}

// Create submits a new record and returns the server copy
func (r *Resource[T, K, P]) Create(ctx context.Context, payload P) (*T, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("creating %s: %w", r.name, err)
	}

	var created T
	if err := r.client.doRequest(ctx, http.MethodPost, r.client.endpoint(r.path, nil), payload, &created); err != nil {
		return nil, fmt.Errorf("creating %s: %w", r.name, err)
	}
	return &created, nil
}

// Update replaces the record with the given id
func (r *Resource[T, K, P]) Update(ctx context.Context, id K, payload P) (*T, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("updating %s %v: %w", r.name, id, err)
	}

	var updated T
	if err := r.client.doRequest(ctx, http.MethodPut, r.itemURL(id), payload, &updated); err != nil {
		return nil, fmt.Errorf("updating %s %v: %w", r.name, id, err)
	}
	return &updated, nil
}

// Delete removes the record with the given id
func (r *Resource[T, K, P]) Delete(ctx context.Context, id K) error {
	if err := r.client.doRequest(ctx, http.MethodDelete, r.itemURL(id), nil, nil); err != nil {
		return fmt.Errorf("deleting %s %v: %w", r.name, id, err)
	}
	return nil
}

// sameHost refuses to send credentials to a next link on another origin
func (c *Client) sameHost(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid pagination link %q: %w", raw, err)
	}
	if u.Scheme != c.baseURL.Scheme || u.Host != c.baseURL.Host {
		return fmt.Errorf("%w: %s", ErrForeignPage, raw)
	}
	return nil
}

func formatID[K ID](id K) string {
	switch v := any(id).(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	default:
		return fmt.Sprint(id)
	}
}
