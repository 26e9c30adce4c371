package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// VoucherService creates event-scoped discount vouchers for organizers.
type VoucherService struct {
	vouchers repository.VoucherRepository
	events   repository.EventRepository
}

// NewVoucherService constructs the service.
func NewVoucherService(voucherRepo repository.VoucherRepository, eventRepo repository.EventRepository) *VoucherService {
	return &VoucherService{vouchers: voucherRepo, events: eventRepo}
}

// VoucherCreateInput describes a new voucher.
type VoucherCreateInput struct {
	EventID         string
	Code            string
	DiscountPercent int
	StartDate       time.Time
	EndDate         time.Time
}

// Create validates and persists a voucher. Only the event's organizer may
// create vouchers for it.
func (s *VoucherService) Create(ctx context.Context, organizerID string, input VoucherCreateInput) (*domain.Voucher, error) {
	if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		return nil, apperrors.NewValidationError("discountPercent must be between 1 and 100",
			map[string]any{"discount_percent": input.DiscountPercent})
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.NewValidationError("startDate and endDate required", nil)
	}
	if !input.StartDate.Before(input.EndDate) {
		return nil, apperrors.NewValidationError("startDate must be before endDate", nil)
	}

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": input.EventID})
		}
		return nil, apperrors.MapError(err)
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.NewForbidden("event belongs to another organizer")
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = generateVoucherCode()
	}

	voucher := &domain.Voucher{
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		EventID:         event.ID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	}
	if err := s.vouchers.Create(ctx, voucher); err != nil {
		return nil, apperrors.MapError(err)
	}
	return voucher, nil
}

func generateVoucherCode() string {
	return "VCH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
