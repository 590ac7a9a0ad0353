package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	aws_pkg "github.com/Viciouslight/YukiSoraShop-sub000/pkg/aws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher delivers committed payment events. Delivery is best-effort:
// callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event models.PaymentEvent) error
}

// InvoiceArchiver stores a copy of an issued invoice outside the database.
type InvoiceArchiver interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// MultiPublisher fans an event out to every configured publisher.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SNSEventPublisher publishes events as JSON to one SNS topic.
type SNSEventPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

func NewSNSEventPublisher(client aws_pkg.SNSPublisher, topicArn string) *SNSEventPublisher {
	return &SNSEventPublisher{client: client, topicArn: topicArn}
}

func (p *SNSEventPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}
	return p.client.Publish(ctx, p.topicArn, body, map[string]string{"event_type": event.Type})
}

// notifier bundles the post-commit side effects shared by the payment and invoice services.
type notifier struct {
	events   EventPublisher
	archiver InvoiceArchiver
	logger   *zap.Logger
}

func (n notifier) publish(ctx context.Context, eventType, method string, payment *models.Payment, invoiceNumber string, now time.Time) {
	if n.events == nil || payment == nil {
		return
	}
	event := models.PaymentEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		OrderID:       payment.OrderID,
		PaymentID:     payment.ID,
		Method:        method,
		Status:        string(payment.Status),
		Amount:        payment.Amount.StringFixed(2),
		Currency:      payment.Currency,
		InvoiceNumber: invoiceNumber,
		Timestamp:     now.UTC(),
	}
	if payment.TransactionRef != nil {
		event.TransactionRef = *payment.TransactionRef
	}
	if err := n.events.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish payment event",
			zap.String("event_type", eventType),
			zap.Uint("order_id", payment.OrderID),
			zap.Error(err),
		)
	}
}

func (n notifier) archive(ctx context.Context, inv *models.Invoice) {
	if n.archiver == nil || inv == nil {
		return
	}
	body, err := json.Marshal(inv)
	if err != nil {
		n.logger.Warn("Failed to encode invoice for archive", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return
	}
	key := fmt.Sprintf("%d/%s.json", inv.OrderID, inv.InvoiceNumber)
	if _, err := n.archiver.Put(ctx, key, "application/json", body); err != nil {
		n.logger.Warn("Failed to archive invoice",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Uint("order_id", inv.OrderID),
			zap.Error(err),
		)
	}
}
