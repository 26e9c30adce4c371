package domain

import "time"

// Voucher is a percentage discount scoped to a single event. Immutable once
// created; the transaction flow only reads it.
type Voucher struct {
	ID              string
	Code            string
	DiscountPercent int
	EventID         string
	StartDate       time.Time
	EndDate         time.Time
	CreatedAt       time.Time
}

// ActiveAt reports whether the voucher window covers t, bounds inclusive.
func (v Voucher) ActiveAt(t time.Time) bool {
	return !t.Before(v.StartDate) && !t.After(v.EndDate)
}
