package domain

import "time"

// UserRole distinguishes attendees from event organizers.
type UserRole string

const (
	UserRoleUser      UserRole = "USER"
	UserRoleOrganizer UserRole = "ORGANIZER"
)

// User is the domain model for registered accounts. Points is a mutable
// credit balance, debited at reservation and credited back on restitution.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Points       int64
	ReferralCode string
	ReferredBy   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
