package screen

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/cinemactl/cinema"
)

// CatalogForm holds the raw input for a new catalog entry
type CatalogForm struct {
	Title    string
	Genre    string
	Duration string
	Rating   string
	Active   bool
}

// NewCatalogForm returns an empty form. New entries are active by default.
func NewCatalogForm() CatalogForm {
	return CatalogForm{Active: true}
}

// CatalogScreen lists, creates and deletes movie catalog entries
type CatalogScreen struct {
	*collection[cinema.CatalogItem, string]

	api cinema.CatalogAPI

	formMu sync.Mutex
	form   CatalogForm
}

// NewCatalogScreen creates a catalog screen backed by api
func NewCatalogScreen(api cinema.CatalogAPI, opts ...Option) *CatalogScreen {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &CatalogScreen{
		collection: newCollection("catalog",
			func(c cinema.CatalogItem) string { return c.ID },
			primaryList(api, o), catalogMessages, o),
		api:  api,
		form: NewCatalogForm(),
	}
}

// Form returns the current input
func (s *CatalogScreen) Form() CatalogForm {
	s.formMu.Lock()
	defer s.formMu.Unlock()
	return s.form
}

// SetForm replaces the current input
func (s *CatalogScreen) SetForm(form CatalogForm) {
	s.formMu.Lock()
	s.form = form
	s.formMu.Unlock()
}

// Load replaces the collection with a fresh list
func (s *CatalogScreen) Load(ctx context.Context) bool {
	return s.load(ctx)
}

// Create validates the form and submits it. On success the new entry is
// first in the collection and the form is reset.
func (s *CatalogScreen) Create(ctx context.Context) bool {
	form := s.Form()

	title := strings.TrimSpace(form.Title)
	if title == "" {
		s.reject(msgTitleRequired)
		return false
	}
	duration, err := parseOptionalInt(form.Duration)
	if err != nil {
		s.reject(msgDurationNumeric)
		return false
	}

	payload := cinema.CatalogPayload{
		MovieTitle:  title,
		Genre:       strings.TrimSpace(form.Genre),
		DurationMin: duration,
		Rating:      strings.TrimSpace(form.Rating),
		IsActive:    form.Active,
	}

	ok := s.create(ctx, func(ctx context.Context) (*cinema.CatalogItem, error) {
		return s.api.Create(ctx, payload)
	})
	if ok {
		s.SetForm(NewCatalogForm())
	}
	return ok
}

// Delete removes the entry with the given id
func (s *CatalogScreen) Delete(ctx context.Context, id string) bool {
	return s.remove(ctx, id, s.api.Delete)
}

// RemoveMany deletes several entries concurrently and returns how many
// were removed
func (s *CatalogScreen) RemoveMany(ctx context.Context, ids []string) (int, bool) {
	return s.removeMany(ctx, ids, s.api.Delete)
}

func parseOptionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
