package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/service"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// EventsHandler serves the event catalog and registration endpoints.
type EventsHandler struct {
	events       *service.EventService
	transactions *service.TransactionService
	vouchers     *service.VoucherService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService, transactionService *service.TransactionService, voucherService *service.VoucherService) *EventsHandler {
	return &EventsHandler{events: eventService, transactions: transactionService, vouchers: voucherService}
}

// ListEvents GET /events.
func (h *EventsHandler) ListEvents(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	events, err := h.events.ListActive(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, eventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetEvent GET /events/:id.
func (h *EventsHandler) GetEvent(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return apperrors.NewValidationError("event id required", nil)
	}
	event, err := h.events.GetActive(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// RegisterForEvent POST /events/:id/register.
func (h *EventsHandler) RegisterForEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	eventID := strings.TrimSpace(c.Params("id"))
	if eventID == "" {
		return apperrors.NewValidationError("event id required", nil)
	}

	var req dto.RegisterEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID != "" && req.UserID != principal.User.ID {
		return apperrors.NewForbidden("cannot register on behalf of another user")
	}

	txn, err := h.transactions.Register(c.Context(), principal.User.ID, eventID, req.PointsToUse, req.VoucherCode)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": transactionResponse(txn)})
}

// CreateVoucher POST /events/:id/vouchers.
func (h *EventsHandler) CreateVoucher(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("organizer required")
	}
	eventID := strings.TrimSpace(c.Params("id"))
	if eventID == "" {
		return apperrors.NewValidationError("event id required", nil)
	}

	var req dto.CreateVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	voucher, err := h.vouchers.Create(c.Context(), principal.User.ID, service.VoucherCreateInput{
		EventID:         eventID,
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.VoucherResponse{
		ID:              voucher.ID,
		Code:            voucher.Code,
		DiscountPercent: voucher.DiscountPercent,
		EventID:         voucher.EventID,
		StartDate:       voucher.StartDate,
		EndDate:         voucher.EndDate,
	}})
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		Price:          event.Price,
		StartDate:      event.StartDate,
		EndDate:        event.EndDate,
		AvailableSeats: event.AvailableSeats,
		Category:       event.Category,
		Location:       event.Location,
		OrganizerID:    event.OrganizerID,
	}
}
