package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTransactionCreated, n.handleTransactionCreated)
	n.dispatcher.Subscribe(events.EventPaymentProofSubmitted, n.handlePaymentProofSubmitted)
	n.dispatcher.Subscribe(events.EventTransactionStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventRestitutionApplied, n.handleRestitutionApplied)
}

func (n *NotificationService) handleTransactionCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TransactionCreated", zap.String("transaction_id", event.TransactionID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentProofSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentProofSubmitted", zap.String("transaction_id", event.TransactionID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TransactionStatusChanged", zap.String("transaction_id", event.TransactionID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRestitutionApplied(ctx context.Context, event events.Event) error {
	n.logger.Info("RestitutionApplied", zap.String("transaction_id", event.TransactionID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("transaction_id", event.TransactionID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("transaction_id", event.TransactionID),
		zap.String("event_type", string(event.Type)))
}
