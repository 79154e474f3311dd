package screen

import (
	"fmt"
	"strings"

	"github.com/s0up4200/cinemactl/cinema"
)

// ConsoleFormatter renders screen collections as trees for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

type treeEntry struct {
	head    string
	details []string
}

func writeTree(sb *strings.Builder, entries []treeEntry) {
	for i, entry := range entries {
		isLast := i == len(entries)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(sb, "%s── %s\n", prefix, entry.head)
		for _, line := range entry.details {
			fmt.Fprintf(sb, "%s%s\n", indent, line)
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}
}

func header(sb *strings.Builder, singular, plural string, n int) {
	noun := plural
	if n == 1 {
		noun = singular
	}
	fmt.Fprintf(sb, "\n%s (%d):\n\n", noun, n)
}

// FormatCatalog formats catalog entries
func (f *ConsoleFormatter) FormatCatalog(items []cinema.CatalogItem) string {
	if len(items) == 0 {
		return "No catalog entries found"
	}

	entries := make([]treeEntry, 0, len(items))
	for _, item := range items {
		var parts []string
		if item.Genre != "" {
			parts = append(parts, item.Genre)
		}
		if item.DurationMin > 0 {
			parts = append(parts, fmt.Sprintf("%d min", item.DurationMin))
		}
		if item.Rating != "" {
			parts = append(parts, "Rated "+item.Rating)
		}
		if !item.IsActive {
			parts = append(parts, "inactive")
		}

		entry := treeEntry{head: fmt.Sprintf("%s [%s]", item.MovieTitle, item.ID)}
		if len(parts) > 0 {
			entry.details = append(entry.details, strings.Join(parts, " | "))
		}
		entries = append(entries, entry)
	}

	var sb strings.Builder
	header(&sb, "Catalog entry", "Catalog entries", len(items))
	writeTree(&sb, entries)
	sb.WriteString("\n")
	return sb.String()
}

// FormatShows formats shows
func (f *ConsoleFormatter) FormatShows(shows []cinema.Show) string {
	if len(shows) == 0 {
		return "No shows found"
	}

	entries := make([]treeEntry, 0, len(shows))
	for _, show := range shows {
		entry := treeEntry{head: fmt.Sprintf("%s [%d]", show.MovieTitle, show.ID)}
		line := fmt.Sprintf("Price: %s | Seats: %d", show.Price.StringFixed(2), show.AvailableSeats)
		if show.Room != "" {
			line = fmt.Sprintf("Room: %s | %s", show.Room, line)
		}
		entry.details = append(entry.details, line)
		entries = append(entries, entry)
	}

	var sb strings.Builder
	header(&sb, "Show", "Shows", len(shows))
	writeTree(&sb, entries)
	sb.WriteString("\n")
	return sb.String()
}

// FormatReservations formats reservations
func (f *ConsoleFormatter) FormatReservations(reservations []cinema.Reservation) string {
	if len(reservations) == 0 {
		return "No reservations found"
	}

	entries := make([]treeEntry, 0, len(reservations))
	for _, r := range reservations {
		entry := treeEntry{head: fmt.Sprintf("%s [%d] %s", r.CustomerName, r.ID, r.Status)}
		entry.details = append(entry.details,
			fmt.Sprintf("Show: %s (%d) | Seats: %d", r.ShowMovieTitle, r.ShowID, r.Seats))
		if !r.CreatedAt.IsZero() {
			entry.details = append(entry.details, "Created: "+r.CreatedAt.Format("2006-01-02 15:04"))
		}
		entries = append(entries, entry)
	}

	var sb strings.Builder
	header(&sb, "Reservation", "Reservations", len(reservations))
	writeTree(&sb, entries)
	sb.WriteString("\n")
	return sb.String()
}

// FormatEvents formats reservation events, naming each with label
func (f *ConsoleFormatter) FormatEvents(events []cinema.ReservationEvent, label func(cinema.ReservationEvent) string) string {
	if len(events) == 0 {
		return "No reservation events found"
	}

	entries := make([]treeEntry, 0, len(events))
	for _, e := range events {
		entry := treeEntry{head: fmt.Sprintf("%s [%s]", label(e), e.ID)}

		parts := []string{fmt.Sprintf("%s via %s", e.EventType, e.Source)}
		if !e.CreatedAt.IsZero() {
			parts = append(parts, "Date: "+e.CreatedAt.Format("2006-01-02"))
		}
		entry.details = append(entry.details, strings.Join(parts, " | "))
		if e.Note != "" {
			entry.details = append(entry.details, "Note: "+e.Note)
		}
		entries = append(entries, entry)
	}

	var sb strings.Builder
	header(&sb, "Reservation event", "Reservation events", len(events))
	writeTree(&sb, entries)
	sb.WriteString("\n")
	return sb.String()
}

// FormatDeletion lists records about to be deleted
func (f *ConsoleFormatter) FormatDeletion(noun string, labels []string) string {
	if len(labels) == 0 {
		return ""
	}

	entries := make([]treeEntry, 0, len(labels))
	for _, l := range labels {
		entries = append(entries, treeEntry{head: l})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s to be deleted (%d):\n\n", noun, len(labels))
	writeTree(&sb, entries)
	sb.WriteString("\n")
	return sb.String()
}
