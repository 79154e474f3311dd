package screen

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/cinemactl/cinema"
)

// deleteConcurrency bounds concurrent deletes in RemoveMany
const deleteConcurrency = 5

type listFunc[T any] func(ctx context.Context) ([]T, error)

// primaryList resolves the list response once, at the API boundary
func primaryList[T any, K cinema.ID, P cinema.Payload](api cinema.API[T, K, P], o options) listFunc[T] {
	return func(ctx context.Context) ([]T, error) {
		if o.allPages {
			return api.ListAll(ctx, o.list)
		}
		resp, err := api.List(ctx, o.list)
		if err != nil {
			return nil, err
		}
		return resp.Items(), nil
	}
}

// lookupList fetches a join collection without the screen's search or
// ordering; it follows pagination whenever the primary list does
func lookupList[T any, K cinema.ID, P cinema.Payload](api cinema.API[T, K, P], allPages bool) listFunc[T] {
	return primaryList(api, options{allPages: allPages})
}

// collection is the list state shared by every screen. The mutex guards
// the fields below it; network calls run without holding it. inFlight
// serializes operations so two responses never race on items.
type collection[T any, K comparable] struct {
	idOf   func(T) K
	fetch  listFunc[T]
	msgs   Messages
	policy SyncPolicy
	logger zerolog.Logger

	mu       sync.Mutex
	state    State
	items    []T
	errText  string
	inFlight bool
}

func newCollection[T any, K comparable](name string, idOf func(T) K, fetch listFunc[T], msgs Messages, o options) *collection[T, K] {
	return &collection[T, K]{
		idOf:   idOf,
		fetch:  fetch,
		msgs:   msgs,
		policy: o.policy,
		logger: o.logger.With().Str("screen", name).Logger(),
	}
}

// Items returns a copy of the current collection
func (c *collection[T, K]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the record with the given id
func (c *collection[T, K]) Find(id K) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Err returns the inline error text, empty when the last action succeeded
func (c *collection[T, K]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errText
}

// State returns the current lifecycle state
func (c *collection[T, K]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether an operation is running
func (c *collection[T, K]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *collection[T, K]) begin(op string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		c.logger.Debug().Str("op", op).Msg("Operation already in flight, skipping")
		return false
	}
	c.inFlight = true
	return true
}

func (c *collection[T, K]) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func (c *collection[T, K]) start() {
	c.mu.Lock()
	c.errText = ""
	c.state = StateLoading
	c.mu.Unlock()
}

func (c *collection[T, K]) fail(op, msg string, err error) {
	c.logger.Debug().Err(err).Str("op", op).Msg("Operation failed")

	c.mu.Lock()
	c.errText = msg
	c.state = StateError
	c.mu.Unlock()
}

// reject records a local validation failure. No request is made and the
// lifecycle state is left alone.
func (c *collection[T, K]) reject(msg string) {
	c.logger.Debug().Str("reason", msg).Msg("Input rejected")

	c.mu.Lock()
	c.errText = msg
	c.mu.Unlock()
}

// refresh replaces the collection wholesale. On failure the previous
// collection is kept.
func (c *collection[T, K]) refresh(ctx context.Context) bool {
	c.start()

	items, err := c.fetch(ctx)
	if err != nil {
		c.fail("load", c.msgs.Load, err)
		return false
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	c.items = items
	c.state = StateLoaded
	c.mu.Unlock()

	c.logger.Debug().Int("count", len(items)).Msg("Collection loaded")
	return true
}

func (c *collection[T, K]) load(ctx context.Context) bool {
	if !c.begin("load") {
		return false
	}
	defer c.end()

	return c.refresh(ctx)
}

// settle reconciles after a successful mutation according to the policy
func (c *collection[T, K]) settle(ctx context.Context, patch func([]T) []T) {
	if c.policy == SyncRefetch {
		c.refresh(ctx)
		return
	}

	c.mu.Lock()
	c.items = patch(c.items)
	c.state = StateLoaded
	c.mu.Unlock()
}

func (c *collection[T, K]) create(ctx context.Context, call func(context.Context) (*T, error)) bool {
	if !c.begin("create") {
		return false
	}
	defer c.end()

	c.start()
	created, err := call(ctx)
	if err != nil {
		c.fail("create", c.msgs.Create, err)
		return false
	}

	c.settle(ctx, func(items []T) []T {
		return append([]T{*created}, items...)
	})
	return true
}

func (c *collection[T, K]) update(ctx context.Context, call func(context.Context) (*T, error)) bool {
	if !c.begin("update") {
		return false
	}
	defer c.end()

	c.start()
	updated, err := call(ctx)
	if err != nil {
		c.fail("update", c.msgs.Update, err)
		return false
	}

	id := c.idOf(*updated)
	c.settle(ctx, func(items []T) []T {
		out := make([]T, 0, len(items)+1)
		replaced := false
		for _, item := range items {
			if c.idOf(item) == id {
				out = append(out, *updated)
				replaced = true
				continue
			}
			out = append(out, item)
		}
		if !replaced {
			out = append([]T{*updated}, out...)
		}
		return out
	})
	return true
}

func (c *collection[T, K]) remove(ctx context.Context, id K, call func(context.Context, K) error) bool {
	if !c.begin("delete") {
		return false
	}
	defer c.end()

	c.start()
	if err := call(ctx, id); err != nil {
		c.fail("delete", c.msgs.Delete, err)
		return false
	}

	c.settle(ctx, func(items []T) []T {
		return c.without(items, map[K]struct{}{id: {}})
	})
	return true
}

// removeMany deletes ids concurrently as one operation. Successful deletes
// are reconciled even when others fail.
func (c *collection[T, K]) removeMany(ctx context.Context, ids []K, call func(context.Context, K) error) (int, bool) {
	if !c.begin("delete") {
		return 0, false
	}
	defer c.end()

	c.start()

	var (
		mu      sync.Mutex
		removed = make(map[K]struct{}, len(ids))
		lastErr error
		failed  int
	)

	var g errgroup.Group
	g.SetLimit(deleteConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			err := call(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Debug().Err(err).Any("id", id).Msg("Failed to delete record")
				lastErr = err
				failed++
				return nil
			}
			removed[id] = struct{}{}
			return nil
		})
	}
	_ = g.Wait()

	if len(removed) > 0 {
		c.settle(ctx, func(items []T) []T {
			return c.without(items, removed)
		})
	}

	if failed > 0 {
		c.fail("delete", c.msgs.Delete, lastErr)
		return len(removed), false
	}
	if len(removed) == 0 {
		c.mu.Lock()
		c.state = StateLoaded
		c.mu.Unlock()
	}
	return len(removed), true
}

func (c *collection[T, K]) without(items []T, ids map[K]struct{}) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := ids[c.idOf(item)]; !ok {
			out = append(out, item)
		}
	}
	return out
}
