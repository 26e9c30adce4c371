package dto

import "time"

// EventResponse describes a browsable event.
type EventResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	AvailableSeats int       `json:"available_seats"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	OrganizerID    string    `json:"organizer_id"`
}

// RegisterEventRequest is the registration payload for POST /events/:id/register.
type RegisterEventRequest struct {
	UserID      string `json:"userId,omitempty"`
	PointsToUse int64  `json:"pointsToUse,omitempty"`
	VoucherCode string `json:"voucherCode,omitempty"`
}

// CreateVoucherRequest payload for organizer voucher creation.
type CreateVoucherRequest struct {
	Code            string    `json:"code,omitempty"`
	DiscountPercent int       `json:"discountPercent"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
}

// VoucherResponse describes a created voucher.
type VoucherResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	EventID         string    `json:"event_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}
