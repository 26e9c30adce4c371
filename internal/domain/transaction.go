package domain

import "time"

// TransactionStatus enumerates lifecycle states for a ticket purchase.
type TransactionStatus string

const (
	StatusWaitingPayment      TransactionStatus = "WAITING_PAYMENT"
	StatusWaitingConfirmation TransactionStatus = "WAITING_CONFIRMATION"
	StatusDone                TransactionStatus = "DONE"
	StatusExpired             TransactionStatus = "EXPIRED"
	StatusCanceled            TransactionStatus = "CANCELED"
	StatusRejected            TransactionStatus = "REJECTED"
)

// Transaction is the central purchase record. Exactly one seat decrement and
// one points debit are tied to it while it sits in a WAITING_* state; any
// transition out of a seat-holding state either restores both or neither.
type Transaction struct {
	ID              string
	UserID          string
	EventID         string
	TotalPrice      int64
	PointsUsed      int64
	VoucherID       *string
	Status          TransactionStatus
	PaymentProof    *string
	ExpiresAt       time.Time
	AdminDeadlineAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Populated by joined queries only.
	User  *User
	Event *Event
}

var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusWaitingPayment:      {StatusWaitingConfirmation, StatusExpired},
	StatusWaitingConfirmation: {StatusDone, StatusRejected, StatusCanceled},
	StatusDone:                {},
	StatusExpired:             {},
	StatusCanceled:            {},
	StatusRejected:            {},
}

// CanTransition reports whether current -> next is in the transition table.
func CanTransition(current, next TransactionStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transitions leave the status.
func (s TransactionStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// RequiresRestitution reports whether entering the status must credit back
// the points debit and the held seat. DONE keeps the seat; the waiting
// states still hold it.
func (s TransactionStatus) RequiresRestitution() bool {
	switch s {
	case StatusExpired, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}
