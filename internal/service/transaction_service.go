package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// TransactionService drives the purchase lifecycle: reservation, payment
// proof, admin decision and the time-based transitions injected by the
// sweeper. Every transition is checked against the domain transition table
// before it touches the ledger.
type TransactionService struct {
	pricing      *PricingService
	ledger       repository.Ledger
	transactions repository.TransactionRepository
	dispatcher   events.Dispatcher
	registration config.RegistrationConfig
	now          func() time.Time
}

// TransactionDependencies bundles collaborators for the service.
type TransactionDependencies struct {
	Pricing         *PricingService
	Ledger          repository.Ledger
	TransactionRepo repository.TransactionRepository
	Dispatcher      events.Dispatcher
	Registration    config.RegistrationConfig
	Now             func() time.Time
}

// NewTransactionService constructs the service.
func NewTransactionService(deps TransactionDependencies) *TransactionService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TransactionService{
		pricing:      deps.Pricing,
		ledger:       deps.Ledger,
		transactions: deps.TransactionRepo,
		dispatcher:   deps.Dispatcher,
		registration: deps.Registration,
		now:          now,
	}
}

// Register prices the request and atomically reserves a seat, debits points
// and inserts the WAITING_PAYMENT transaction.
func (s *TransactionService) Register(ctx context.Context, userID, eventID string, pointsRequested int64, voucherCode string) (*domain.Transaction, error) {
	quote, err := s.pricing.Resolve(ctx, eventID, userID, pointsRequested, voucherCode)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txn, err := s.ledger.Reserve(ctx, repository.ReserveInput{
		UserID:          userID,
		EventID:         eventID,
		TotalPrice:      quote.TotalPrice,
		PointsUsed:      quote.PointsUsed,
		VoucherID:       quote.VoucherID,
		ExpiresAt:       now.Add(s.registration.PaymentWindow()),
		AdminDeadlineAt: now.Add(s.registration.AdminDeadline()),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoSeats):
			return nil, apperrors.NewInsufficientInventory(eventID)
		case errors.Is(err, repository.ErrNoPoints):
			return nil, apperrors.NewConflict("points balance changed, retry registration",
				map[string]any{"user_id": userID})
		default:
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:          events.EventTransactionCreated,
		TransactionID: txn.ID,
		Payload: events.TransactionCreatedPayload{
			UserID:     txn.UserID,
			EventID:    txn.EventID,
			TotalPrice: txn.TotalPrice,
			PointsUsed: txn.PointsUsed,
			VoucherID:  txn.VoucherID,
			ExpiresAt:  txn.ExpiresAt,
		},
	})
	return txn, nil
}

// SubmitPaymentProof attaches proof and moves the transaction to
// WAITING_CONFIRMATION. Only the owner may submit, and only from
// WAITING_PAYMENT.
func (s *TransactionService) SubmitPaymentProof(ctx context.Context, userID, transactionID, proof string) (*domain.Transaction, error) {
	current, err := s.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, apperrors.NewForbidden("transaction belongs to another user")
	}
	if current.Status != domain.StatusWaitingPayment {
		return nil, apperrors.NewInvalidTransition("invalid status to upload payment proof",
			map[string]any{"status": current.Status})
	}

	txn, err := s.transactions.SetPaymentProof(ctx, transactionID, proof)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race against the sweeper or a duplicate upload.
			return nil, apperrors.NewInvalidTransition("invalid status to upload payment proof", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:          events.EventPaymentProofSubmitted,
		TransactionID: txn.ID,
		Payload: events.PaymentProofSubmittedPayload{
			UserID:       txn.UserID,
			PaymentProof: proof,
		},
	})
	s.publishStatusChange(ctx, txn.ID, domain.StatusWaitingPayment, txn.Status, "payment_proof")
	return txn, nil
}

// AdminUpdate applies the organizer decision: DONE confirms the purchase,
// REJECTED restitutes points and seat. Any other target status is rejected.
func (s *TransactionService) AdminUpdate(ctx context.Context, transactionID string, status domain.TransactionStatus) (*domain.Transaction, error) {
	if status != domain.StatusDone && status != domain.StatusRejected {
		return nil, apperrors.NewValidationError("status must be DONE or REJECTED",
			map[string]any{"status": status})
	}

	current, err := s.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusWaitingConfirmation || !domain.CanTransition(current.Status, status) {
		return nil, apperrors.NewInvalidTransition("invalid status transition",
			map[string]any{"from": current.Status, "to": status})
	}

	var txn *domain.Transaction
	if status == domain.StatusDone {
		txn, err = s.ledger.Confirm(ctx, transactionID, domain.StatusWaitingConfirmation, domain.StatusDone)
	} else {
		txn, err = s.restitute(ctx, transactionID, domain.StatusWaitingConfirmation, domain.StatusRejected)
	}
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewInvalidTransition("invalid status transition", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishStatusChange(ctx, txn.ID, domain.StatusWaitingConfirmation, txn.Status, "admin_update")
	return txn, nil
}

// Expire drives WAITING_PAYMENT past its deadline to EXPIRED with
// restitution. Sweeper-only.
func (s *TransactionService) Expire(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.restitute(ctx, transactionID, domain.StatusWaitingPayment, domain.StatusExpired)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewInvalidTransition("transaction no longer awaiting payment", nil)
		}
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, txn.ID, domain.StatusWaitingPayment, txn.Status, "sweeper_expire")
	return txn, nil
}

// CancelOverdue drives WAITING_CONFIRMATION past the admin deadline to
// CANCELED with restitution. Sweeper-only.
func (s *TransactionService) CancelOverdue(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.restitute(ctx, transactionID, domain.StatusWaitingConfirmation, domain.StatusCanceled)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, apperrors.NewInvalidTransition("transaction no longer awaiting confirmation", nil)
		}
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, txn.ID, domain.StatusWaitingConfirmation, txn.Status, "sweeper_cancel")
	return txn, nil
}

// ListPending returns WAITING_CONFIRMATION transactions with joined user and
// event for the organizer review queue.
func (s *TransactionService) ListPending(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	txns, err := s.transactions.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return txns, nil
}

// ListForUser returns a user's transactions with joined events.
func (s *TransactionService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	txns, err := s.transactions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return txns, nil
}

func (s *TransactionService) getTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("transaction", map[string]any{"transaction_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return txn, nil
}

func (s *TransactionService) restitute(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error) {
	txn, err := s.ledger.Restitute(ctx, transactionID, from, to)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:          events.EventRestitutionApplied,
		TransactionID: txn.ID,
		Payload: events.RestitutionAppliedPayload{
			UserID:         txn.UserID,
			EventID:        txn.EventID,
			PointsReturned: txn.PointsUsed,
			SeatsReturned:  1,
		},
	})
	return txn, nil
}

func (s *TransactionService) publishStatusChange(ctx context.Context, transactionID string, from, to domain.TransactionStatus, trigger string) {
	s.publish(ctx, events.Event{
		Type:          events.EventTransactionStatusChanged,
		TransactionID: transactionID,
		Payload: events.TransactionStatusChangedPayload{
			OldStatus: from,
			NewStatus: to,
			Trigger:   trigger,
		},
	})
}

func (s *TransactionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
