package screen

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/cinemactl/cinema"
)

// EventForm holds the raw input for a new reservation event
type EventForm struct {
	ReservationID int64
	EventType     string
	Source        string
	Note          string
}

// EventsScreen lists reservation events labelled by their reservation.
// Reservations and catalog entries are loaded alongside events and only
// serve the lookups.
type EventsScreen struct {
	*collection[cinema.ReservationEvent, string]

	api          cinema.EventAPI
	reservations cinema.ReservationAPI
	catalog      cinema.CatalogAPI
	opts         options

	formMu           sync.Mutex
	form             EventForm
	reservationItems []cinema.Reservation
	catalogItems     []cinema.CatalogItem
	reservationsByID map[int64]cinema.Reservation
	catalogByID      map[string]cinema.CatalogItem
}

// NewEventsScreen creates an events screen
func NewEventsScreen(api cinema.EventAPI, reservations cinema.ReservationAPI, catalog cinema.CatalogAPI, opts ...Option) *EventsScreen {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &EventsScreen{
		api:              api,
		reservations:     reservations,
		catalog:          catalog,
		opts:             o,
		reservationsByID: map[int64]cinema.Reservation{},
		catalogByID:      map[string]cinema.CatalogItem{},
	}
	s.collection = newCollection("events",
		func(e cinema.ReservationEvent) string { return e.ID },
		s.fetchAll, eventMessages, o)
	return s
}

// fetchAll loads events, reservations and catalog together. Lookups are
// rebuilt only when all three succeed.
func (s *EventsScreen) fetchAll(ctx context.Context) ([]cinema.ReservationEvent, error) {
	var (
		events       []cinema.ReservationEvent
		reservations []cinema.Reservation
		catalog      []cinema.CatalogItem
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		events, err = primaryList(s.api, s.opts)(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = lookupList(s.reservations, s.opts.allPages)(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = lookupList(s.catalog, s.opts.allPages)(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byReservation := make(map[int64]cinema.Reservation, len(reservations))
	for _, r := range reservations {
		byReservation[r.ID] = r
	}
	byCatalog := make(map[string]cinema.CatalogItem, len(catalog))
	for _, c := range catalog {
		byCatalog[c.ID] = c
	}

	s.formMu.Lock()
	s.reservationItems = reservations
	s.catalogItems = catalog
	s.reservationsByID = byReservation
	s.catalogByID = byCatalog
	if s.form.ReservationID == 0 && len(reservations) > 0 {
		s.form.ReservationID = reservations[0].ID
	}
	s.formMu.Unlock()

	return events, nil
}

// Load refreshes events and the lookups
func (s *EventsScreen) Load(ctx context.Context) bool {
	return s.load(ctx)
}

// Form returns the current input
func (s *EventsScreen) Form() EventForm {
	s.formMu.Lock()
	defer s.formMu.Unlock()
	return s.form
}

// SetForm replaces the current input
func (s *EventsScreen) SetForm(form EventForm) {
	s.formMu.Lock()
	s.form = form
	s.formMu.Unlock()
}

// Reservations returns the reservations available in the picker
func (s *EventsScreen) Reservations() []cinema.Reservation {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	out := make([]cinema.Reservation, len(s.reservationItems))
	copy(out, s.reservationItems)
	return out
}

// Catalog returns the catalog entries loaded with the last refresh
func (s *EventsScreen) Catalog() []cinema.CatalogItem {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	out := make([]cinema.CatalogItem, len(s.catalogItems))
	copy(out, s.catalogItems)
	return out
}

// Label names an event by its reservation's movie title, falling back to
// the raw reservation id.
func (s *EventsScreen) Label(e cinema.ReservationEvent) string {
	s.formMu.Lock()
	r, ok := s.reservationsByID[int64(e.ReservationID)]
	s.formMu.Unlock()

	if ok && r.ShowMovieTitle != "" {
		return r.ShowMovieTitle
	}
	return fmt.Sprintf("reservation_id: %d", e.ReservationID)
}

// CatalogLabel names a catalog entry by title, falling back to its id
func (s *EventsScreen) CatalogLabel(id string) string {
	s.formMu.Lock()
	c, ok := s.catalogByID[id]
	s.formMu.Unlock()

	if ok && c.MovieTitle != "" {
		return c.MovieTitle
	}
	return id
}

// Create validates the form and submits a new event. On success the event
// is first in the collection and the type, source and note are cleared;
// the reservation selection is kept.
func (s *EventsScreen) Create(ctx context.Context) bool {
	form := s.Form()

	if form.ReservationID == 0 {
		s.reject(msgSelectReservation)
		return false
	}
	eventType, err := cinema.ParseEventType(form.EventType)
	if err != nil {
		s.reject(msgEventTypeInvalid)
		return false
	}
	source, err := cinema.ParseEventSource(form.Source)
	if err != nil {
		s.reject(msgSourceInvalid)
		return false
	}

	payload := cinema.EventPayload{
		ReservationID: form.ReservationID,
		EventType:     eventType,
		Source:        source,
		Note:          form.Note,
	}

	ok := s.create(ctx, func(ctx context.Context) (*cinema.ReservationEvent, error) {
		return s.api.Create(ctx, payload)
	})
	if ok {
		s.formMu.Lock()
		s.form.EventType = ""
		s.form.Source = ""
		s.form.Note = ""
		s.formMu.Unlock()
	}
	return ok
}

// Delete removes the event with the given id
func (s *EventsScreen) Delete(ctx context.Context, id string) bool {
	return s.remove(ctx, id, s.api.Delete)
}

// RemoveMany deletes several events concurrently
func (s *EventsScreen) RemoveMany(ctx context.Context, ids []string) (int, bool) {
	return s.removeMany(ctx, ids, s.api.Delete)
}
