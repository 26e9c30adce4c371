package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Password         string          `json:"password"`
	Role             domain.UserRole `json:"role,omitempty"`
	ReferralCodeUsed string          `json:"referralCodeUsed,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the safe account representation (no password hash).
type UserResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         domain.UserRole `json:"role"`
	Points       int64           `json:"points"`
	ReferralCode string          `json:"referral_code"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
