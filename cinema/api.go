package cinema

import (
	"context"
)

// API defines the operations every resource exposes
type API[T any, K ID, P Payload] interface {
	// List fetches the collection, array or envelope, verbatim
	List(ctx context.Context, opts ListOptions) (*ListResponse[T], error)

	// ListAll fetches every page of the collection
	ListAll(ctx context.Context, opts ListOptions) ([]T, error)

	// Create submits a new record
	Create(ctx context.Context, payload P) (*T, error)

	// Update replaces an existing record
	Update(ctx context.Context, id K, payload P) (*T, error)

	// Delete removes a record
	Delete(ctx context.Context, id K) error
}

// Per-resource API shapes consumed by the screens
type (
	CatalogAPI     = API[CatalogItem, string, CatalogPayload]
	ShowAPI        = API[Show, int64, ShowPayload]
	ReservationAPI = API[Reservation, int64, ReservationPayload]
	EventAPI       = API[ReservationEvent, string, EventPayload]
)

var (
	_ CatalogAPI     = (*Resource[CatalogItem, string, CatalogPayload])(nil)
	_ ShowAPI        = (*Resource[Show, int64, ShowPayload])(nil)
	_ ReservationAPI = (*Resource[Reservation, int64, ReservationPayload])(nil)
	_ EventAPI       = (*Resource[ReservationEvent, string, EventPayload])(nil)
)
