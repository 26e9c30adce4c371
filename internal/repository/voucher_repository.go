package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// VoucherRepository defines persistence access for discount vouchers.
// Vouchers are immutable once created.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *domain.Voucher) error
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
}

type voucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository instantiates repository.
func NewVoucherRepository(pool *pgxpool.Pool) VoucherRepository {
	return &voucherRepository{pool: pool}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *domain.Voucher) error {
	const query = `
        INSERT INTO vouchers (code, discount_percent, event_id, start_date, end_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		voucher.Code,
		voucher.DiscountPercent,
		voucher.EventID,
		voucher.StartDate,
		voucher.EndDate,
	).Scan(&voucher.ID, &voucher.CreatedAt)
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	const query = `
        SELECT id, code, discount_percent, event_id, start_date, end_date, created_at
        FROM vouchers WHERE code=$1`
	var voucher domain.Voucher
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&voucher.ID,
		&voucher.Code,
		&voucher.DiscountPercent,
		&voucher.EventID,
		&voucher.StartDate,
		&voucher.EndDate,
		&voucher.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &voucher, nil
}
