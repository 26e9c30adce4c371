package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// EventService exposes the read-only catalog the transaction flow consumes.
type EventService struct {
	events repository.EventRepository
}

// NewEventService constructs the service.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{events: eventRepo}
}

// ListActive returns active events for browsing.
func (s *EventService) ListActive(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	events, err := s.events.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return events, nil
}

// GetActive returns an event by id; archived events read as absent.
func (s *EventService) GetActive(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !event.IsActive {
		return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
	}
	return event, nil
}
