package screen

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinemactl/cinema"
)

// ReservationForm holds the raw input for creating or editing a reservation
type ReservationForm struct {
	ShowID       int64
	ShowTitle    string
	CustomerName string
	Seats        string
	Status       string
}

// ReservationAdminScreen is the admin view over reservations. It also
// keeps the show list used by the picker.
type ReservationAdminScreen struct {
	*collection[cinema.Reservation, int64]

	api    cinema.ReservationAPI
	shows  listFunc[cinema.Show]
	logger zerolog.Logger

	formMu    sync.Mutex
	form      ReservationForm
	editID    int64
	showItems []cinema.Show
}

// NewReservationAdminScreen creates a reservation admin screen
func NewReservationAdminScreen(api cinema.ReservationAPI, shows cinema.ShowAPI, opts ...Option) *ReservationAdminScreen {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &ReservationAdminScreen{
		collection: newCollection("reservations",
			func(r cinema.Reservation) int64 { return r.ID },
			primaryList(api, o), reservationMessages, o),
		api:    api,
		logger: o.logger.With().Str("screen", "reservations").Logger(),
	}
	if shows != nil {
		s.shows = lookupList(shows, o.allPages)
	}
	return s
}

// Form returns the current input and the id being edited, 0 when creating
func (s *ReservationAdminScreen) Form() (ReservationForm, int64) {
	s.formMu.Lock()
	defer s.formMu.Unlock()
	return s.form, s.editID
}

// SetForm replaces the current input without changing the edit target
func (s *ReservationAdminScreen) SetForm(form ReservationForm) {
	s.formMu.Lock()
	s.form = form
	s.formMu.Unlock()
}

// Shows returns the shows available in the picker
func (s *ReservationAdminScreen) Shows() []cinema.Show {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	out := make([]cinema.Show, len(s.showItems))
	copy(out, s.showItems)
	return out
}

// SelectShow picks a show and defaults the denormalized title to its title
func (s *ReservationAdminScreen) SelectShow(id int64) {
	s.formMu.Lock()
	defer s.formMu.Unlock()
	s.selectShowLocked(id)
}

func (s *ReservationAdminScreen) selectShowLocked(id int64) {
	s.form.ShowID = id
	s.form.ShowTitle = ""
	for _, show := range s.showItems {
		if show.ID == id {
			s.form.ShowTitle = show.MovieTitle
			return
		}
	}
}

// StartEdit fills the form from an existing reservation
func (s *ReservationAdminScreen) StartEdit(r cinema.Reservation) {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	s.editID = r.ID
	s.form = ReservationForm{
		ShowID:       int64(r.ShowID),
		ShowTitle:    r.ShowMovieTitle,
		CustomerName: r.CustomerName,
		Seats:        strconv.Itoa(r.Seats),
		Status:       string(r.Status),
	}
}

// Clear resets the form, leaves edit mode and preselects the first show
func (s *ReservationAdminScreen) Clear() {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	s.form = ReservationForm{}
	s.editID = 0
	if len(s.showItems) > 0 {
		s.selectShowLocked(s.showItems[0].ID)
	}
}

// Load refreshes reservations and, best effort, the show picker. A show
// failure is logged and does not affect the result.
func (s *ReservationAdminScreen) Load(ctx context.Context) bool {
	if !s.begin("load") {
		return false
	}
	defer s.end()

	ok := s.refresh(ctx)
	s.loadShows(ctx)
	return ok
}

func (s *ReservationAdminScreen) loadShows(ctx context.Context) {
	if s.shows == nil {
		return
	}

	items, err := s.shows(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Failed to load shows for picker")
		return
	}

	s.formMu.Lock()
	defer s.formMu.Unlock()

	s.showItems = items
	if s.form.ShowID == 0 && len(items) > 0 {
		s.selectShowLocked(items[0].ID)
	}
}

// Save creates a new reservation, or updates the one being edited
func (s *ReservationAdminScreen) Save(ctx context.Context) bool {
	form, editID := s.Form()

	if form.ShowID == 0 {
		s.reject(msgSelectShow)
		return false
	}
	customer := strings.TrimSpace(form.CustomerName)
	if customer == "" {
		s.reject(msgCustomerRequired)
		return false
	}
	seats, err := parseOptionalInt(form.Seats)
	if err != nil {
		s.reject(msgSeatsNumeric)
		return false
	}
	status, err := cinema.ParseReservationStatus(form.Status)
	if err != nil {
		s.reject(msgStatusInvalid)
		return false
	}

	title := strings.TrimSpace(form.ShowTitle)
	if title == "" {
		title = s.showTitle(form.ShowID)
	}

	payload := cinema.ReservationPayload{
		ShowID:         form.ShowID,
		ShowMovieTitle: title,
		CustomerName:   customer,
		Seats:          seats,
		Status:         status,
	}

	var ok bool
	if editID != 0 {
		ok = s.update(ctx, func(ctx context.Context) (*cinema.Reservation, error) {
			return s.api.Update(ctx, editID, payload)
		})
	} else {
		ok = s.create(ctx, func(ctx context.Context) (*cinema.Reservation, error) {
			return s.api.Create(ctx, payload)
		})
	}
	if ok {
		s.Clear()
	}
	return ok
}

func (s *ReservationAdminScreen) showTitle(id int64) string {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	for _, show := range s.showItems {
		if show.ID == id {
			return show.MovieTitle
		}
	}
	return ""
}

// Delete removes the reservation with the given id
func (s *ReservationAdminScreen) Delete(ctx context.Context, id int64) bool {
	return s.remove(ctx, id, s.api.Delete)
}

// RemoveMany deletes several reservations concurrently
func (s *ReservationAdminScreen) RemoveMany(ctx context.Context, ids []int64) (int, bool) {
	return s.removeMany(ctx, ids, s.api.Delete)
}

// PublicReservationsScreen is the read-only public reservation list
type PublicReservationsScreen struct {
	*collection[cinema.Reservation, int64]
}

// NewPublicReservationsScreen creates the public reservation list
func NewPublicReservationsScreen(api cinema.ReservationAPI, opts ...Option) *PublicReservationsScreen {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &PublicReservationsScreen{
		collection: newCollection("public",
			func(r cinema.Reservation) int64 { return r.ID },
			primaryList(api, o), publicMessages, o),
	}
}

// Load replaces the collection with a fresh list
func (s *PublicReservationsScreen) Load(ctx context.Context) bool {
	return s.load(ctx)
}
