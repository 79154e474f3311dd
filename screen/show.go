package screen

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/s0up4200/cinemactl/cinema"
)

// ShowForm holds the raw input for creating or editing a show
type ShowForm struct {
	Title string
	Room  string
	Price string
	Seats string
}

// ShowAdminScreen is the admin view over shows
type ShowAdminScreen struct {
	*collection[cinema.Show, int64]

	api cinema.ShowAPI

	formMu sync.Mutex
	form   ShowForm
	editID int64
}

// NewShowAdminScreen creates a show admin screen backed by api
func NewShowAdminScreen(api cinema.ShowAPI, opts ...Option) *ShowAdminScreen {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &ShowAdminScreen{
		collection: newCollection("shows",
			func(s cinema.Show) int64 { return s.ID },
			primaryList(api, o), showMessages, o),
		api: api,
	}
}

// Form returns the current input and the id being edited, 0 when creating
func (s *ShowAdminScreen) Form() (ShowForm, int64) {
	s.formMu.Lock()
	defer s.formMu.Unlock()
	return s.form, s.editID
}

// SetForm replaces the current input without changing the edit target
func (s *ShowAdminScreen) SetForm(form ShowForm) {
	s.formMu.Lock()
	s.form = form
	s.formMu.Unlock()
}

// StartEdit fills the form from an existing show
func (s *ShowAdminScreen) StartEdit(show cinema.Show) {
	s.formMu.Lock()
	defer s.formMu.Unlock()

	s.editID = show.ID
	s.form = ShowForm{
		Title: show.MovieTitle,
		Room:  show.Room,
		Price: show.Price.String(),
		Seats: strconv.Itoa(show.AvailableSeats),
	}
}

// Clear resets the form and leaves edit mode
func (s *ShowAdminScreen) Clear() {
	s.formMu.Lock()
	s.form = ShowForm{}
	s.editID = 0
	s.formMu.Unlock()
}

// Load replaces the collection with a fresh list
func (s *ShowAdminScreen) Load(ctx context.Context) bool {
	return s.load(ctx)
}

// Save creates a new show, or updates the one being edited
func (s *ShowAdminScreen) Save(ctx context.Context) bool {
	form, editID := s.Form()

	title := strings.TrimSpace(form.Title)
	if title == "" {
		s.reject(msgTitleRequired)
		return false
	}
	price, err := parseOptionalDecimal(form.Price)
	if err != nil {
		s.reject(msgPriceNumeric)
		return false
	}
	seats, err := parseOptionalInt(form.Seats)
	if err != nil {
		s.reject(msgSeatsNumeric)
		return false
	}

	payload := cinema.ShowPayload{
		MovieTitle:     title,
		Room:           strings.TrimSpace(form.Room),
		Price:          price,
		AvailableSeats: seats,
	}

	var ok bool
	if editID != 0 {
		ok = s.update(ctx, func(ctx context.Context) (*cinema.Show, error) {
			return s.api.Update(ctx, editID, payload)
		})
	} else {
		ok = s.create(ctx, func(ctx context.Context) (*cinema.Show, error) {
			return s.api.Create(ctx, payload)
		})
	}
	if ok {
		s.Clear()
	}
	return ok
}

// Delete removes the show with the given id
func (s *ShowAdminScreen) Delete(ctx context.Context, id int64) bool {
	return s.remove(ctx, id, s.api.Delete)
}

// RemoveMany deletes several shows concurrently
func (s *ShowAdminScreen) RemoveMany(ctx context.Context, ids []int64) (int, bool) {
	return s.removeMany(ctx, ids, s.api.Delete)
}
