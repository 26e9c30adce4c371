package domain

import "time"

// Event is the seat inventory aggregate. AvailableSeats never drops below
// zero; the ledger decrements it on reservation and increments it on
// restitution.
type Event struct {
	ID             string
	Title          string
	Description    string
	Price          int64
	StartDate      time.Time
	EndDate        time.Time
	AvailableSeats int
	Category       string
	Location       string
	OrganizerID    string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
