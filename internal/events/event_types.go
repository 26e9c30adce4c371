package events

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTransactionCreated       EventType = "transaction_created"
	EventPaymentProofSubmitted    EventType = "payment_proof_submitted"
	EventTransactionStatusChanged EventType = "transaction_status_changed"
	EventRestitutionApplied       EventType = "restitution_applied"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	TransactionID string      `json:"transaction_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// TransactionCreatedPayload payload.
type TransactionCreatedPayload struct {
	UserID     string    `json:"user_id"`
	EventID    string    `json:"event_id"`
	TotalPrice int64     `json:"total_price"`
	PointsUsed int64     `json:"points_used"`
	VoucherID  *string   `json:"voucher_id,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PaymentProofSubmittedPayload payload.
type PaymentProofSubmittedPayload struct {
	UserID       string `json:"user_id"`
	PaymentProof string `json:"payment_proof"`
}

// TransactionStatusChangedPayload payload.
type TransactionStatusChangedPayload struct {
	OldStatus domain.TransactionStatus `json:"old_status"`
	NewStatus domain.TransactionStatus `json:"new_status"`
	Trigger   string                   `json:"trigger"`
}

// RestitutionAppliedPayload payload.
type RestitutionAppliedPayload struct {
	UserID         string `json:"user_id"`
	EventID        string `json:"event_id"`
	PointsReturned int64  `json:"points_returned"`
	SeatsReturned  int    `json:"seats_returned"`
}
