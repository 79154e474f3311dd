package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/s0up4200/cinemactl/cinema"
	"github.com/s0up4200/cinemactl/screen"
)

// row is one rendered line of a pane
type row struct {
	id    string
	title string
	desc  string
}

// pane adapts a screen to the tab view
type pane interface {
	Name() string
	Load(ctx context.Context) bool
	State() screen.State
	Err() string
	Rows() []row
	// Remove deletes the record behind a row id. Read-only panes return false
	// without calling the backend.
	Remove(ctx context.Context, id string) bool
	Deletable() bool
}

type catalogPane struct{ s *screen.CatalogScreen }

func (p catalogPane) Name() string { return "Catalog" }
func (p catalogPane) Load(ctx context.Context) bool { return p.s.Load(ctx) }
func (p catalogPane) State() screen.State { return p.s.State() }
func (p catalogPane) Err() string { return p.s.Err() }
func (p catalogPane) Deletable() bool { return true }
func (p catalogPane) Remove(ctx context.Context, id string) bool { return p.s.Delete(ctx, id) }

func (p catalogPane) Rows() []row {
	items := p.s.Items()
	rows := make([]row, len(items))
	for i, item := range items {
		var parts []string
		if item.Genre != "" {
			parts = append(parts, item.Genre)
		}
		if item.DurationMin > 0 {
			parts = append(parts, fmt.Sprintf("%d min", item.DurationMin))
		}
		if item.Rating != "" {
			parts = append(parts, item.Rating)
		}
		if !item.IsActive {
			parts = append(parts, "inactive")
		}
		rows[i] = row{id: item.ID, title: item.MovieTitle, desc: strings.Join(parts, " • ")}
	}
	return rows
}

type showPane struct{ s *screen.ShowAdminScreen }

func (p showPane) Name() string { return "Shows" }
func (p showPane) Load(ctx context.Context) bool { return p.s.Load(ctx) }
func (p showPane) State() screen.State { return p.s.State() }
func (p showPane) Err() string { return p.s.Err() }
func (p showPane) Deletable() bool { return true }

func (p showPane) Remove(ctx context.Context, id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false
	}
	return p.s.Delete(ctx, n)
}

func (p showPane) Rows() []row {
	shows := p.s.Items()
	rows := make([]row, len(shows))
	for i, show := range shows {
		rows[i] = row{
			id:    strconv.FormatInt(show.ID, 10),
			title: show.MovieTitle,
			desc:  fmt.Sprintf("Room: %s | Price: %s | Seats: %d", show.Room, show.Price.StringFixed(2), show.AvailableSeats),
		}
	}
	return rows
}

func reservationRows(reservations []cinema.Reservation) []row {
	rows := make([]row, len(reservations))
	for i, r := range reservations {
		rows[i] = row{
			id:    strconv.FormatInt(r.ID, 10),
			title: fmt.Sprintf("%s [%d] %s", r.CustomerName, r.Seats, r.Status),
			desc:  r.ShowMovieTitle,
		}
	}
	return rows
}

type reservationPane struct{ s *screen.ReservationAdminScreen }

func (p reservationPane) Name() string { return "Reservations" }
func (p reservationPane) Load(ctx context.Context) bool { return p.s.Load(ctx) }
func (p reservationPane) State() screen.State { return p.s.State() }
func (p reservationPane) Err() string { return p.s.Err() }
func (p reservationPane) Deletable() bool { return true }
func (p reservationPane) Rows() []row { return reservationRows(p.s.Items()) }

func (p reservationPane) Remove(ctx context.Context, id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false
	}
	return p.s.Delete(ctx, n)
}

type publicPane struct{ s *screen.PublicReservationsScreen }

func (p publicPane) Name() string { return "Public" }
func (p publicPane) Load(ctx context.Context) bool { return p.s.Load(ctx) }
func (p publicPane) State() screen.State { return p.s.State() }
func (p publicPane) Err() string { return p.s.Err() }
func (p publicPane) Deletable() bool { return false }
func (p publicPane) Rows() []row { return reservationRows(p.s.Items()) }
func (p publicPane) Remove(context.Context, string) bool { return false }

type eventPane struct{ s *screen.EventsScreen }

func (p eventPane) Name() string { return "Events" }
func (p eventPane) Load(ctx context.Context) bool { return p.s.Load(ctx) }
func (p eventPane) State() screen.State { return p.s.State() }
func (p eventPane) Err() string { return p.s.Err() }
func (p eventPane) Deletable() bool { return true }

func (p eventPane) Remove(ctx context.Context, id string) bool { return p.s.Delete(ctx, id) }

func (p eventPane) Rows() []row {
	events := p.s.Items()
	rows := make([]row, len(events))
	for i, e := range events {
		desc := fmt.Sprintf("%s via %s", e.EventType, e.Source)
		if e.Note != "" {
			desc += " | " + e.Note
		}
		rows[i] = row{id: e.ID, title: p.s.Label(e), desc: desc}
	}
	return rows
}

// panesFor builds one pane per screen, in tab order
func panesFor(client *cinema.Client, opts ...screen.Option) []pane {
	return []pane{
		catalogPane{screen.NewCatalogScreen(client.Catalog(), opts...)},
		showPane{screen.NewShowAdminScreen(client.Shows(), opts...)},
		reservationPane{screen.NewReservationAdminScreen(client.Reservations(), client.Shows(), opts...)},
		publicPane{screen.NewPublicReservationsScreen(client.Reservations(), opts...)},
		eventPane{screen.NewEventsScreen(client.Events(), client.Reservations(), client.Catalog(), opts...)},
	}
}
