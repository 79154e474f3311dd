package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinemactl/cinema"
)

type eventsFixture struct {
	events       *fakeEvents
	reservations *fakeReservations
	catalog      *fakeCatalog
	screen       *EventsScreen
}

func newEventsFixture(opts ...Option) *eventsFixture {
	f := &eventsFixture{
		events: newFakeEvents(
			cinema.ReservationEvent{ID: "e1", ReservationID: 1, EventType: cinema.EventCreated, Source: cinema.SourceWeb},
			cinema.ReservationEvent{ID: "e2", ReservationID: 99, EventType: cinema.EventCancelled, Source: cinema.SourceSystem},
		),
		reservations: newFakeReservations(
			cinema.Reservation{ID: 1, ShowMovieTitle: "Dune", CustomerName: "Ana"},
			cinema.Reservation{ID: 2, ShowMovieTitle: "Alien", CustomerName: "Luis"},
		),
		catalog: newFakeCatalog(
			cinema.CatalogItem{ID: "m1", MovieTitle: "Dune"},
		),
	}
	f.screen = NewEventsScreen(f.events, f.reservations, f.catalog, opts...)
	return f
}

func TestEventsLoadJoinsLookups(t *testing.T) {
	f := newEventsFixture()
	s := f.screen

	require.True(t, s.Load(context.Background()))
	assert.Equal(t, 1, f.events.count("list"))
	assert.Equal(t, 1, f.reservations.count("list"))
	assert.Equal(t, 1, f.catalog.count("list"))

	events := s.Items()
	require.Len(t, events, 2)
	assert.Equal(t, "Dune", s.Label(events[0]))
	assert.Equal(t, "reservation_id: 99", s.Label(events[1]))

	assert.Equal(t, "Dune", s.CatalogLabel("m1"))
	assert.Equal(t, "m404", s.CatalogLabel("m404"))

	assert.Len(t, s.Reservations(), 2)
	assert.Len(t, s.Catalog(), 1)
	assert.Equal(t, int64(1), s.Form().ReservationID, "first reservation is preselected")
}

func TestEventsLookupsFollowPagination(t *testing.T) {
	ctx := context.Background()
	newFixture := func(opts ...Option) *eventsFixture {
		f := newEventsFixture(opts...)
		f.events.setItems(cinema.ReservationEvent{ID: "e1", ReservationID: 2, EventType: cinema.EventCreated})
		f.reservations.pageSize = 1
		f.catalog.pageSize = 1
		f.catalog.setItems(
			cinema.CatalogItem{ID: "m1", MovieTitle: "Dune"},
			cinema.CatalogItem{ID: "m2", MovieTitle: "Alien"},
		)
		return f
	}

	f := newFixture(WithAllPages(true))
	require.True(t, f.screen.Load(ctx))
	assert.Equal(t, "Alien", f.screen.Label(f.screen.Items()[0]))
	assert.Equal(t, "Alien", f.screen.CatalogLabel("m2"))
	assert.Len(t, f.screen.Reservations(), 2)
	assert.Equal(t, 2, f.reservations.count("list"))
	assert.Equal(t, 2, f.catalog.count("list"))

	f = newFixture()
	require.True(t, f.screen.Load(ctx))
	assert.Equal(t, "reservation_id: 2", f.screen.Label(f.screen.Items()[0]), "only the first page is joined")
	assert.Equal(t, "m2", f.screen.CatalogLabel("m2"))
}

func TestEventsLookupsAreRebuilt(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture()
	s := f.screen
	require.True(t, s.Load(ctx))

	f.reservations.setItems(cinema.Reservation{ID: 99, ShowMovieTitle: "Brazil"})
	require.True(t, s.Load(ctx))

	events := s.Items()
	assert.Equal(t, "reservation_id: 1", s.Label(events[0]), "stale entries are dropped")
	assert.Equal(t, "Brazil", s.Label(events[1]))
}

func TestEventsLoadFailure(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture()
	s := f.screen
	require.True(t, s.Load(ctx))

	f.catalog.setListErr(errBackend)
	f.reservations.setItems()

	assert.False(t, s.Load(ctx))
	assert.Equal(t, eventMessages.Load, s.Err())
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, "Dune", s.Label(s.Items()[0]), "lookups survive a failed load")
}

func TestEventsCreate(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture()
	s := f.screen

	var got cinema.EventPayload
	f.events.createFn = func(p cinema.EventPayload) (*cinema.ReservationEvent, error) {
		got = p
		return &cinema.ReservationEvent{ID: "e3", ReservationID: cinema.RefID(p.ReservationID), EventType: p.EventType, Source: p.Source, Note: p.Note}, nil
	}
	require.True(t, s.Load(ctx))

	form := s.Form()
	form.ReservationID = 2
	form.EventType = "checked-in"
	form.Source = ""
	form.Note = "row 5"
	s.SetForm(form)
	require.True(t, s.Create(ctx))

	assert.Equal(t, int64(2), got.ReservationID)
	assert.Equal(t, cinema.EventCheckedIn, got.EventType)
	assert.Equal(t, cinema.SourceWeb, got.Source, "source defaults to Web")
	assert.Equal(t, "row 5", got.Note)

	events := s.Items()
	require.Len(t, events, 3)
	assert.Equal(t, "e3", events[0].ID)
	assert.Equal(t, "Alien", s.Label(events[0]))

	assert.Equal(t, EventForm{ReservationID: 2}, s.Form(), "selection survives, inputs are cleared")
}

func TestEventsCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		form EventForm
		want string
	}{
		{name: "no reservation", form: EventForm{}, want: msgSelectReservation},
		{name: "unknown type", form: EventForm{ReservationID: 1, EventType: "Refunded"}, want: msgEventTypeInvalid},
		{name: "unknown source", form: EventForm{ReservationID: 1, Source: "Kiosk"}, want: msgSourceInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEventsFixture()
			f.screen.SetForm(tt.form)

			assert.False(t, f.screen.Create(context.Background()))
			assert.Equal(t, tt.want, f.screen.Err())
			assert.Equal(t, 0, f.events.count("create"))
		})
	}
}

func TestEventsDelete(t *testing.T) {
	ctx := context.Background()
	f := newEventsFixture()
	s := f.screen
	require.True(t, s.Load(ctx))

	require.True(t, s.Delete(ctx, "e1"))
	events := s.Items()
	require.Len(t, events, 1)
	assert.Equal(t, "e2", events[0].ID)
}
