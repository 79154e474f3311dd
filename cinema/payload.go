package cinema

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Payload is a request body that can check itself before submission
type Payload interface {
	Validate() error
}

// CatalogPayload is the body for creating or replacing a catalog entry
type CatalogPayload struct {
	MovieTitle  string `json:"movie_title" validate:"required,max=120"`
	Genre       string `json:"genre,omitempty" validate:"max=120"`
	DurationMin int    `json:"duration_min" validate:"gte=0"`
	Rating      string `json:"rating" validate:"max=120"`
	IsActive    bool   `json:"is_active"`
}

// Validate implements Payload
func (p CatalogPayload) Validate() error {
	return validatePayload(p)
}

// ShowPayload is the body for creating or replacing a show
type ShowPayload struct {
	MovieTitle     string          `json:"movie_title" validate:"required,max=120"`
	Room           string          `json:"room" validate:"max=120"`
	Price          decimal.Decimal `json:"price"`
	AvailableSeats int             `json:"available_seats" validate:"gte=0"`
}

// Validate implements Payload
func (p ShowPayload) Validate() error {
	if err := validatePayload(p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPayload)
	}
	return nil
}

// ReservationPayload is the body for creating or replacing a reservation.
// ShowMovieTitle is kept in sync by the caller; the backend treats it as
// read-only.
type ReservationPayload struct {
	ShowID         int64             `json:"show_id" validate:"required,gt=0"`
	ShowMovieTitle string            `json:"show_movie_title,omitempty"`
	CustomerName   string            `json:"customer_name" validate:"required,max=120"`
	Seats          int               `json:"seats" validate:"gte=0"`
	Status         ReservationStatus `json:"status" validate:"oneof=RESERVED CONFIRMED CANCELLED"`
}

// Validate implements Payload
func (p ReservationPayload) Validate() error {
	return validatePayload(p)
}

// EventPayload is the body for creating or replacing a reservation event
type EventPayload struct {
	ReservationID int64       `json:"reservation_id" validate:"required,gt=0"`
	EventType     EventType   `json:"event_type" validate:"oneof=Created Confirmed Cancelled Checked_In"`
	Source        EventSource `json:"source" validate:"oneof=Web Mobile System"`
	Note          string      `json:"note"`
}

// Validate implements Payload
func (p EventPayload) Validate() error {
	return validatePayload(p)
}

func validatePayload(p any) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
