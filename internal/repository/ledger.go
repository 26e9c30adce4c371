package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// Sentinel errors surfaced by compound ledger operations. Services map them
// to the user-facing taxonomy.
var (
	// ErrNoSeats means the conditional seat decrement matched no row: the
	// event is out of inventory.
	ErrNoSeats = errors.New("no seats available")
	// ErrNoPoints means the conditional points debit matched no row: the
	// balance dropped below the debit between quote and reserve.
	ErrNoPoints = errors.New("insufficient points balance")
	// ErrStatusConflict means a guarded status flip matched no row: the
	// transaction already left the expected state.
	ErrStatusConflict = errors.New("transaction status changed concurrently")
)

// ReserveInput carries a priced quote into the atomic reservation.
type ReserveInput struct {
	UserID          string
	EventID         string
	TotalPrice      int64
	PointsUsed      int64
	VoucherID       *string
	ExpiresAt       time.Time
	AdminDeadlineAt time.Time
}

// Ledger exposes the compound all-or-nothing operations spanning users,
// events and transactions. Each method runs a single database transaction;
// the conditional UPDATEs take row locks, so two concurrent Reserve calls on
// the last seat serialize and exactly one succeeds.
type Ledger interface {
	Reserve(ctx context.Context, input ReserveInput) (*domain.Transaction, error)
	Restitute(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error)
	Confirm(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error)
}

type ledger struct {
	pool *pgxpool.Pool
}

// NewLedger returns a Postgres-backed ledger.
func NewLedger(pool *pgxpool.Pool) Ledger {
	return &ledger{pool: pool}
}

func (l *ledger) Reserve(ctx context.Context, input ReserveInput) (*domain.Transaction, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if input.PointsUsed > 0 {
		cmd, err := tx.Exec(ctx,
			`UPDATE users SET points = points - $1, updated_at=NOW() WHERE id=$2 AND points >= $1`,
			input.PointsUsed, input.UserID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, ErrNoPoints
		}
	}

	cmd, err := tx.Exec(ctx,
		`UPDATE events SET available_seats = available_seats - 1, updated_at=NOW()
         WHERE id=$1 AND available_seats > 0`,
		input.EventID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNoSeats
	}

	const insert = `
        INSERT INTO transactions (user_id, event_id, total_price, points_used, voucher_id, status, expires_at, admin_deadline_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING ` + transactionColumns
	var txn domain.Transaction
	if err := tx.QueryRow(ctx, insert,
		input.UserID,
		input.EventID,
		input.TotalPrice,
		input.PointsUsed,
		input.VoucherID,
		domain.StatusWaitingPayment,
		input.ExpiresAt,
		input.AdminDeadlineAt,
	).Scan(transactionFields(&txn)...); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Restitute flips the status and credits back the points debit and the held
// seat as one unit. The guarded flip runs first; once it matches, this
// transaction owns the restitution, so it happens at most once per record.
func (l *ledger) Restitute(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txn, err := flipStatus(ctx, tx, transactionID, from, to)
	if err != nil {
		return nil, err
	}

	if txn.PointsUsed > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET points = points + $1, updated_at=NOW() WHERE id=$2`,
			txn.PointsUsed, txn.UserID); err != nil {
			return nil, err
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE events SET available_seats = available_seats + 1, updated_at=NOW() WHERE id=$1`,
		txn.EventID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return txn, nil
}

// Confirm flips the status with no balance changes.
func (l *ledger) Confirm(ctx context.Context, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txn, err := flipStatus(ctx, tx, transactionID, from, to)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return txn, nil
}

func flipStatus(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionStatus) (*domain.Transaction, error) {
	const query = `
        UPDATE transactions SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING ` + transactionColumns
	var txn domain.Transaction
	if err := tx.QueryRow(ctx, query, to, transactionID, from).Scan(transactionFields(&txn)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}
	return &txn, nil
}
