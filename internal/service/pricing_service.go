package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// Quote is a priced, validated registration request. Nothing is debited yet;
// balances move only inside the atomic reservation.
type Quote struct {
	Event      *domain.Event
	User       *domain.User
	TotalPrice int64
	PointsUsed int64
	VoucherID  *string
}

// PricingService validates eligibility and computes the settled price for a
// registration request.
type PricingService struct {
	events   repository.EventRepository
	users    repository.UserRepository
	vouchers repository.VoucherRepository
	now      func() time.Time
}

// PricingDependencies bundles repositories for the pricing service.
type PricingDependencies struct {
	EventRepo   repository.EventRepository
	UserRepo    repository.UserRepository
	VoucherRepo repository.VoucherRepository
	Now         func() time.Time
}

// NewPricingService constructs the service.
func NewPricingService(deps PricingDependencies) *PricingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &PricingService{
		events:   deps.EventRepo,
		users:    deps.UserRepo,
		vouchers: deps.VoucherRepo,
		now:      now,
	}
}

// Resolve produces a quote for (eventID, userID, pointsRequested, voucherCode).
// Points over-request is silently clamped to the user's balance; the result
// is floored at zero, so points and voucher may jointly zero out a price.
func (s *PricingService) Resolve(ctx context.Context, eventID, userID string, pointsRequested int64, voucherCode string) (*Quote, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if !event.IsActive {
		return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if event.AvailableSeats <= 0 {
		return nil, apperrors.NewInsufficientInventory(event.ID)
	}

	pointsUsed := pointsRequested
	if pointsUsed < 0 {
		pointsUsed = 0
	}
	if pointsUsed > user.Points {
		pointsUsed = user.Points
	}

	var voucherID *string
	var voucherDiscount int64
	if voucherCode != "" {
		voucher, err := s.vouchers.GetByCode(ctx, voucherCode)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("voucher", map[string]any{"code": voucherCode})
			}
			return nil, apperrors.MapError(err)
		}
		if voucher.EventID != event.ID {
			return nil, apperrors.NewVoucherIneligible("voucher not applicable for this event",
				map[string]any{"code": voucherCode, "event_id": event.ID})
		}
		if !voucher.ActiveAt(s.now()) {
			return nil, apperrors.NewVoucherIneligible("voucher not active",
				map[string]any{"code": voucherCode})
		}
		voucherID = &voucher.ID
		voucherDiscount = discountAmount(event.Price, voucher.DiscountPercent)
	}

	total := event.Price - pointsUsed - voucherDiscount
	if total < 0 {
		total = 0
	}

	return &Quote{
		Event:      event,
		User:       user,
		TotalPrice: total,
		PointsUsed: pointsUsed,
		VoucherID:  voucherID,
	}, nil
}

// discountAmount rounds half-up on the percentage product.
func discountAmount(price int64, percent int) int64 {
	return int64(math.Round(float64(price) * float64(percent) / 100))
}
