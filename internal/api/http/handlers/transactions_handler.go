package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/dto"
	"github.com/spec-kit/event-ticketing/internal/auth"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/service"
	"github.com/spec-kit/event-ticketing/internal/storage"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util"
)

// TransactionsHandler manages the purchase lifecycle endpoints.
type TransactionsHandler struct {
	transactions *service.TransactionService
	uploads      *storage.UploadStore
}

// NewTransactionsHandler constructs handler.
func NewTransactionsHandler(transactionService *service.TransactionService, uploads *storage.UploadStore) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactionService, uploads: uploads}
}

// SubmitPaymentProof POST /transactions/:id/payment-proof. Accepts either a
// multipart image under "file" or a JSON body with a paymentProof string.
func (h *TransactionsHandler) SubmitPaymentProof(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return apperrors.NewValidationError("transaction id required", nil)
	}

	var proof string
	if file, err := c.FormFile("file"); err == nil && file != nil {
		ref, err := h.uploads.SaveImage(file)
		if err != nil {
			return err
		}
		proof = ref
	} else {
		var req dto.PaymentProofRequest
		if err := c.BodyParser(&req); err == nil {
			proof = strings.TrimSpace(req.PaymentProof)
		}
	}
	if proof == "" {
		return apperrors.NewValidationError("no payment proof provided", nil)
	}

	txn, err := h.transactions.SubmitPaymentProof(c.Context(), principal.User.ID, id, proof)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionResponse(txn)})
}

// AdminUpdate POST /transactions/:id/admin-update.
func (h *TransactionsHandler) AdminUpdate(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return apperrors.NewValidationError("transaction id required", nil)
	}
	var req dto.AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	txn, err := h.transactions.AdminUpdate(c.Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": transactionResponse(txn)})
}

// ListPending GET /transactions/pending.
func (h *TransactionsHandler) ListPending(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	txns, err := h.transactions.ListPending(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, transactionResponse(&txns[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListForUser GET /transactions/user/:userId. Users see their own history;
// organizers may inspect any user's.
func (h *TransactionsHandler) ListForUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	userID := strings.TrimSpace(c.Params("userId"))
	if userID == "" {
		return apperrors.NewValidationError("user id required", nil)
	}
	if userID != principal.User.ID && principal.Role != domain.UserRoleOrganizer {
		return apperrors.NewForbidden("cannot view another user's transactions")
	}

	limit, offset := parsePagination(c)
	txns, err := h.transactions.ListForUser(c.Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, transactionResponse(&txns[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func transactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:              txn.ID,
		UserID:          txn.UserID,
		EventID:         txn.EventID,
		TotalPrice:      txn.TotalPrice,
		PointsUsed:      txn.PointsUsed,
		VoucherID:       txn.VoucherID,
		Status:          txn.Status,
		PaymentProof:    txn.PaymentProof,
		ExpiresAt:       txn.ExpiresAt,
		AdminDeadlineAt: txn.AdminDeadlineAt,
		CreatedAt:       txn.CreatedAt,
	}
	if txn.User != nil {
		user := userResponse(txn.User)
		resp.User = &user
	}
	if txn.Event != nil {
		event := eventResponse(txn.Event)
		resp.Event = &event
	}
	return resp
}
