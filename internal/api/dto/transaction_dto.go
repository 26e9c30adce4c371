package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// TransactionResponse is the purchase record representation.
type TransactionResponse struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"user_id"`
	EventID         string                   `json:"event_id"`
	TotalPrice      int64                    `json:"total_price"`
	PointsUsed      int64                    `json:"points_used"`
	VoucherID       *string                  `json:"voucher_id,omitempty"`
	Status          domain.TransactionStatus `json:"status"`
	PaymentProof    *string                  `json:"payment_proof,omitempty"`
	ExpiresAt       time.Time                `json:"expires_at"`
	AdminDeadlineAt time.Time                `json:"admin_deadline_at"`
	CreatedAt       time.Time                `json:"created_at"`
	User            *UserResponse            `json:"user,omitempty"`
	Event           *EventResponse           `json:"event,omitempty"`
}

// PaymentProofRequest is the JSON alternative to multipart upload.
type PaymentProofRequest struct {
	PaymentProof string `json:"paymentProof"`
}

// AdminUpdateRequest carries the organizer decision.
type AdminUpdateRequest struct {
	Status domain.TransactionStatus `json:"status"`
}
