package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// TransactionRepository encapsulates transaction reads and single-row
// guarded updates. Compound seat/points mutations live on the Ledger.
type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.Transaction, error)
	ListExpiredWaitingPayment(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
	ListOverdueWaitingConfirmation(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
	SetPaymentProof(ctx context.Context, id, proof string) (*domain.Transaction, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository instantiates repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, event_id, total_price, points_used, voucher_id,
               status, payment_proof, expires_at, admin_deadline_at, created_at, updated_at`

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	const query = `
        SELECT ` + transactionColumns + `
        FROM transactions WHERE id=$1`
	var txn domain.Transaction
	if err := r.pool.QueryRow(ctx, query, id).Scan(transactionFields(&txn)...); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT t.id, t.user_id, t.event_id, t.total_price, t.points_used, t.voucher_id,
               t.status, t.payment_proof, t.expires_at, t.admin_deadline_at, t.created_at, t.updated_at,
               e.id, e.title, e.description, e.price, e.start_date, e.end_date,
               e.available_seats, e.category, e.location, e.organizer_id, e.is_active, e.created_at, e.updated_at
        FROM transactions t
        JOIN events e ON e.id = t.event_id
        WHERE t.user_id=$1
        ORDER BY t.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var event domain.Event
		fields := append(transactionFields(&txn), eventFields(&event)...)
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		txn.Event = &event
		result = append(result, txn)
	}
	return result, rows.Err()
}

func (r *transactionRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT t.id, t.user_id, t.event_id, t.total_price, t.points_used, t.voucher_id,
               t.status, t.payment_proof, t.expires_at, t.admin_deadline_at, t.created_at, t.updated_at,
               u.id, u.name, u.email, u.password_hash, u.role, u.points, u.referral_code, u.referred_by, u.created_at, u.updated_at,
               e.id, e.title, e.description, e.price, e.start_date, e.end_date,
               e.available_seats, e.category, e.location, e.organizer_id, e.is_active, e.created_at, e.updated_at
        FROM transactions t
        JOIN users u ON u.id = t.user_id
        JOIN events e ON e.id = t.event_id
        WHERE t.status=$1
        ORDER BY t.created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, domain.StatusWaitingConfirmation, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var user domain.User
		var event domain.Event
		fields := append(transactionFields(&txn), userFields(&user)...)
		fields = append(fields, eventFields(&event)...)
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		txn.User = &user
		txn.Event = &event
		result = append(result, txn)
	}
	return result, rows.Err()
}

func (r *transactionRepository) ListExpiredWaitingPayment(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	return r.listOverdue(ctx, domain.StatusWaitingPayment, "expires_at", now, limit)
}

func (r *transactionRepository) ListOverdueWaitingConfirmation(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	return r.listOverdue(ctx, domain.StatusWaitingConfirmation, "admin_deadline_at", now, limit)
}

func (r *transactionRepository) listOverdue(ctx context.Context, status domain.TransactionStatus, deadlineColumn string, now time.Time, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE status=$1 AND ` + deadlineColumn + ` < $2
        ORDER BY ` + deadlineColumn + ` ASC LIMIT $3`
	rows, err := r.pool.Query(ctx, query, status, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// SetPaymentProof records proof and moves WAITING_PAYMENT to
// WAITING_CONFIRMATION in one guarded update; the WHERE clause makes a
// concurrent sweep or duplicate upload lose cleanly.
func (r *transactionRepository) SetPaymentProof(ctx context.Context, id, proof string) (*domain.Transaction, error) {
	const query = `
        UPDATE transactions
        SET payment_proof=$1, status=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4
        RETURNING ` + transactionColumns
	var txn domain.Transaction
	if err := r.pool.QueryRow(ctx, query,
		proof,
		domain.StatusWaitingConfirmation,
		id,
		domain.StatusWaitingPayment,
	).Scan(transactionFields(&txn)...); err != nil {
		return nil, err
	}
	return &txn, nil
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var result []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(transactionFields(&txn)...); err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	return result, rows.Err()
}

func transactionFields(txn *domain.Transaction) []any {
	return []any{
		&txn.ID,
		&txn.UserID,
		&txn.EventID,
		&txn.TotalPrice,
		&txn.PointsUsed,
		&txn.VoucherID,
		&txn.Status,
		&txn.PaymentProof,
		&txn.ExpiresAt,
		&txn.AdminDeadlineAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	}
}

func userFields(user *domain.User) []any {
	return []any{
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Points,
		&user.ReferralCode,
		&user.ReferredBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
}
