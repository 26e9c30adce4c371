package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// EventRepository defines read access to the event catalog consumed by the
// transaction flow. Event CRUD beyond this lives outside the core.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListActive(ctx context.Context, limit, offset int) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, price, start_date, end_date,
               available_seats, category, location, organizer_id, is_active, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, description, price, start_date, end_date, available_seats, category, location, organizer_id, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Price,
		event.StartDate,
		event.EndDate,
		event.AvailableSeats,
		event.Category,
		event.Location,
		event.OrganizerID,
		event.IsActive,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `
        SELECT ` + eventColumns + `
        FROM events WHERE id=$1`
	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(eventFields(&event)...); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListActive(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ` + eventColumns + `
        FROM events WHERE is_active=TRUE ORDER BY start_date ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(eventFields(&event)...); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func eventFields(event *domain.Event) []any {
	return []any{
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Price,
		&event.StartDate,
		&event.EndDate,
		&event.AvailableSeats,
		&event.Category,
		&event.Location,
		&event.OrganizerID,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	}
}
