package cinema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// StatusReserved is the initial state
	StatusReserved ReservationStatus = "RESERVED"
	// StatusConfirmed marks a paid or confirmed reservation
	StatusConfirmed ReservationStatus = "CONFIRMED"
	// StatusCancelled marks a cancelled reservation
	StatusCancelled ReservationStatus = "CANCELLED"
)

// ReservationStatuses lists every accepted status in display order
var ReservationStatuses = []ReservationStatus{StatusReserved, StatusConfirmed, StatusCancelled}

// ParseReservationStatus accepts any casing; empty input yields StatusReserved
func ParseReservationStatus(s string) (ReservationStatus, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return StatusReserved, nil
	}
	for _, status := range ReservationStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

// EventType classifies a reservation event
type EventType string

const (
	EventCreated   EventType = "Created"
	EventConfirmed EventType = "Confirmed"
	EventCancelled EventType = "Cancelled"
	EventCheckedIn EventType = "Checked_In"
)

// EventTypes lists every accepted event type
var EventTypes = []EventType{EventCreated, EventConfirmed, EventCancelled, EventCheckedIn}

// ParseEventType matches case-insensitively; empty input yields EventCreated
func ParseEventType(s string) (EventType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EventCreated, nil
	}
	for _, t := range EventTypes {
		if strings.EqualFold(string(t), s) || strings.EqualFold(strings.ReplaceAll(string(t), "_", "-"), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

// EventSource identifies the client that produced an event
type EventSource string

const (
	SourceWeb    EventSource = "Web"
	SourceMobile EventSource = "Mobile"
	SourceSystem EventSource = "System"
)

// EventSources lists every accepted source
var EventSources = []EventSource{SourceWeb, SourceMobile, SourceSystem}

// ParseEventSource matches case-insensitively; empty input yields SourceWeb
func ParseEventSource(s string) (EventSource, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SourceWeb, nil
	}
	for _, src := range EventSources {
		if strings.EqualFold(string(src), s) {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown event source %q", s)
}

// Timestamp decodes the date and datetime layouts DRF emits, with or
// without a zone. Null and empty strings decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// RefID is a numeric foreign key that the backend may serialize as a
// number or as a numeric string.
type RefID int64

// UnmarshalJSON implements json.Unmarshaler
func (r *RefID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*r = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid reference %q: %w", s, err)
		}
		*r = RefID(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RefID(n)
	return nil
}

// CatalogItem is a movie catalog document
type CatalogItem struct {
	ID          string `json:"id"`
	MovieTitle  string `json:"movie_title"`
	Genre       string `json:"genre"`
	DurationMin int    `json:"duration_min"`
	Rating      string `json:"rating"`
	IsActive    bool   `json:"is_active"`
}

// UnmarshalJSON accepts the document id as either "id" or "_id"
func (c *CatalogItem) UnmarshalJSON(data []byte) error {
	type alias CatalogItem
	aux := struct {
		*alias
		ObjectID string `json:"_id"`
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.ObjectID
	}
	return nil
}

// FilterEnv exposes the fields to filter expressions
func (c CatalogItem) FilterEnv() map[string]any {
	return map[string]any{
		"ID":          c.ID,
		"Title":       c.MovieTitle,
		"Genre":       c.Genre,
		"DurationMin": c.DurationMin,
		"Rating":      c.Rating,
		"Active":      c.IsActive,
	}
}

// Show is a scheduled screening
type Show struct {
	ID             int64           `json:"id"`
	MovieTitle     string          `json:"movie_title"`
	Room           string          `json:"room"`
	Price          decimal.Decimal `json:"price"`
	AvailableSeats int             `json:"available_seats"`
}

// FilterEnv exposes the fields to filter expressions
func (s Show) FilterEnv() map[string]any {
	price, _ := s.Price.Float64()
	return map[string]any{
		"ID":             s.ID,
		"Title":          s.MovieTitle,
		"Room":           s.Room,
		"Price":          price,
		"AvailableSeats": s.AvailableSeats,
	}
}

// Reservation is a customer's booking for a show. ShowMovieTitle is
// denormalized by the backend and read-only.
type Reservation struct {
	ID             int64             `json:"id"`
	ShowID         RefID             `json:"show_id"`
	ShowMovieTitle string            `json:"show_movie_title"`
	CustomerName   string            `json:"customer_name"`
	Seats          int               `json:"seats"`
	Status         ReservationStatus `json:"status"`
	CreatedAt      Timestamp         `json:"created_at"`
}

// FilterEnv exposes the fields to filter expressions
func (r Reservation) FilterEnv() map[string]any {
	return map[string]any{
		"ID":           r.ID,
		"ShowID":       int64(r.ShowID),
		"Title":        r.ShowMovieTitle,
		"CustomerName": r.CustomerName,
		"Seats":        r.Seats,
		"Status":       string(r.Status),
		"CreatedAt":    r.CreatedAt.Time,
	}
}

// ReservationEvent is an audit entry attached to a reservation
type ReservationEvent struct {
	ID            string      `json:"id"`
	ReservationID RefID       `json:"reservation_id"`
	EventType     EventType   `json:"event_type"`
	Source        EventSource `json:"source"`
	Note          string      `json:"note"`
	CreatedAt     Timestamp   `json:"created_at"`
}

// UnmarshalJSON accepts the document id as either "id" or "_id"
func (e *ReservationEvent) UnmarshalJSON(data []byte) error {
	type alias ReservationEvent
	aux := struct {
		*alias
		ObjectID string `json:"_id"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = aux.ObjectID
	}
	return nil
}

// FilterEnv exposes the fields to filter expressions
func (e ReservationEvent) FilterEnv() map[string]any {
	return map[string]any{
		"ID":            e.ID,
		"ReservationID": int64(e.ReservationID),
		"EventType":     string(e.EventType),
		"Source":        string(e.Source),
		"Note":          e.Note,
		"CreatedAt":     e.CreatedAt.Time,
	}
}
