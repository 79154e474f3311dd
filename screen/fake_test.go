package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/s0up4200/cinemactl/cinema"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory resource. Hooks override the default behaviour.
type fakeAPI[T any, K cinema.ID, P cinema.Payload] struct {
	mu    sync.Mutex
	items []T
	calls map[string]int

	// pageSize > 0 splits List results into numbered pages
	pageSize int

	listErr  error
	block    chan struct{}
	createFn func(P) (*T, error)
	updateFn func(K, P) (*T, error)
	deleteFn func(K) error
}

func newFakeAPI[T any, K cinema.ID, P cinema.Payload](items ...T) *fakeAPI[T, K, P] {
	return &fakeAPI[T, K, P]{items: items, calls: map[string]int{}}
}

func (f *fakeAPI[T, K, P]) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI[T, K, P]) setItems(items ...T) {
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
}

func (f *fakeAPI[T, K, P]) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func (f *fakeAPI[T, K, P]) List(ctx context.Context, opts cinema.ListOptions) (*cinema.ListResponse[T], error) {
	f.mu.Lock()
	f.calls["list"]++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := f.items
	page := &cinema.Page[T]{Count: len(items)}
	if f.pageSize > 0 {
		start := min(max(opts.Page-1, 0)*f.pageSize, len(items))
		end := min(start+f.pageSize, len(items))
		if end < len(items) {
			next := fmt.Sprintf("/api/fake/?page=%d", max(opts.Page, 1)+1)
			page.Next = &next
		}
		items = items[start:end]
	}
	page.Results = make([]T, len(items))
	copy(page.Results, items)
	return &cinema.ListResponse[T]{Page: page}, nil
}

func (f *fakeAPI[T, K, P]) ListAll(ctx context.Context, opts cinema.ListOptions) ([]T, error) {
	var all []T
	for opts.Page = 1; ; opts.Page++ {
		resp, err := f.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Items()...)
		if resp.NextURL() == "" {
			return all, nil
		}
	}
}

func (f *fakeAPI[T, K, P]) Create(_ context.Context, payload P) (*T, error) {
	f.mu.Lock()
	f.calls["create"]++
	fn := f.createFn
	f.mu.Unlock()

	if fn == nil {
		return nil, errBackend
	}
	return fn(payload)
}

func (f *fakeAPI[T, K, P]) Update(_ context.Context, id K, payload P) (*T, error) {
	f.mu.Lock()
	f.calls["update"]++
	fn := f.updateFn
	f.mu.Unlock()

	if fn == nil {
		return nil, errBackend
	}
	return fn(id, payload)
}

func (f *fakeAPI[T, K, P]) Delete(_ context.Context, id K) error {
	f.mu.Lock()
	f.calls["delete"]++
	fn := f.deleteFn
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(id)
}

type (
	fakeCatalog      = fakeAPI[cinema.CatalogItem, string, cinema.CatalogPayload]
	fakeShows        = fakeAPI[cinema.Show, int64, cinema.ShowPayload]
	fakeReservations = fakeAPI[cinema.Reservation, int64, cinema.ReservationPayload]
	fakeEvents       = fakeAPI[cinema.ReservationEvent, string, cinema.EventPayload]
)

var (
	_ cinema.CatalogAPI     = (*fakeCatalog)(nil)
	_ cinema.ShowAPI        = (*fakeShows)(nil)
	_ cinema.ReservationAPI = (*fakeReservations)(nil)
	_ cinema.EventAPI       = (*fakeEvents)(nil)
)

func newFakeCatalog(items ...cinema.CatalogItem) *fakeCatalog {
	return newFakeAPI[cinema.CatalogItem, string, cinema.CatalogPayload](items...)
}

func newFakeShows(items ...cinema.Show) *fakeShows {
	return newFakeAPI[cinema.Show, int64, cinema.ShowPayload](items...)
}

func newFakeReservations(items ...cinema.Reservation) *fakeReservations {
	return newFakeAPI[cinema.Reservation, int64, cinema.ReservationPayload](items...)
}

func newFakeEvents(items ...cinema.ReservationEvent) *fakeEvents {
	return newFakeAPI[cinema.ReservationEvent, string, cinema.EventPayload](items...)
}
