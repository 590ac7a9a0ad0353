package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/metrics"
	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	invoiceNumberAttempts = 5
	invoiceTxAttempts     = 3
)

// InvoiceIssuer snapshots an order into an invoice. It works on any Store, so
// callers decide whether issuance shares their transaction.
type InvoiceIssuer struct {
	now    func() time.Time
	suffix func() int
}

// NewInvoiceIssuer creates an InvoiceIssuer. nil arguments select the wall
// clock and a random 4-digit suffix.
func NewInvoiceIssuer(now func() time.Time, suffix func() int) *InvoiceIssuer {
	if now == nil {
		now = time.Now
	}
	if suffix == nil {
		suffix = func() int { return rand.Intn(10000) }
	}
	return &InvoiceIssuer{now: now, suffix: suffix}
}

// Issue returns the order's issued invoice, creating it when none exists.
// created reports whether a new invoice was written.
func (i *InvoiceIssuer) Issue(ctx context.Context, store repository.Store, orderID uint, actor string) (inv *models.Invoice, created bool, err error) {
	existing, err := store.Invoices().FindIssuedByOrder(ctx, orderID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup invoice: %w", err)
	}

	order, err := store.Orders().GetWithDetails(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("load order: %w", err)
	}

	now := i.now()
	inv = &models.Invoice{
		OrderID: order.ID,
		Status:  models.InvoiceStatusIssued,
	}
	inv.Stamp(actor, now)

	subtotal := decimal.Zero
	for _, d := range order.Details {
		name := fmt.Sprintf("Product #%d", d.ProductID)
		if d.Product != nil && d.Product.ProductName != "" {
			name = d.Product.ProductName
		}
		line := models.InvoiceDetail{
			ProductID:   d.ProductID,
			ProductName: name,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			LineTotal:   d.LineTotal(),
		}
		line.Stamp(actor, now)
		inv.Details = append(inv.Details, line)
		subtotal = subtotal.Add(line.LineTotal)
	}
	inv.Subtotal = subtotal

	number, err := i.allocateNumber(ctx, store, order.ID, now)
	if err != nil {
		return nil, false, err
	}
	inv.InvoiceNumber = number

	if err := store.Invoices().Add(ctx, inv); err != nil {
		return nil, false, fmt.Errorf("save invoice: %w", err)
	}
	return inv, true, nil
}

// allocateNumber draws INV-{yyyyMMdd}-{orderId}-{nnnn} until it finds one not
// yet taken. The unique index still guards concurrent issuers.
func (i *InvoiceIssuer) allocateNumber(ctx context.Context, store repository.Store, orderID uint, now time.Time) (string, error) {
	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		number := fmt.Sprintf("INV-%s-%d-%04d", now.Format("20060102"), orderID, i.suffix()%10000)
		taken, err := store.Invoices().ExistsByNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check invoice number: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrInvoiceNumberExhausted
}

// InvoiceService exposes invoice issuance and lookup.
type InvoiceService interface {
	CreateInvoiceFromOrder(ctx context.Context, orderID uint, actor string) (*models.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID uint) (*models.Invoice, error)
}

type invoiceServiceImpl struct {
	uow    repository.UnitOfWork
	issuer *InvoiceIssuer
	notifier
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(uow repository.UnitOfWork, issuer *InvoiceIssuer, archiver InvoiceArchiver, logger *zap.Logger) InvoiceService {
	return &invoiceServiceImpl{
		uow:      uow,
		issuer:   issuer,
		notifier: notifier{archiver: archiver, logger: logger},
	}
}

// CreateInvoiceFromOrder is idempotent: an order's issued invoice is returned
// unchanged on every later call. A unique-number clash with a concurrent
// issuer restarts the transaction.
func (s *invoiceServiceImpl) CreateInvoiceFromOrder(ctx context.Context, orderID uint, actor string) (*models.Invoice, error) {
	ctx, span := tracer.Start(ctx, "InvoiceService.CreateInvoiceFromOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	var lastErr error
	for attempt := 0; attempt < invoiceTxAttempts; attempt++ {
		inv, created, err := s.issueOnce(ctx, orderID, actor)
		if err == nil {
			if created {
				metrics.RecordInvoiceIssued()
				s.logger.Info("Invoice issued",
					zap.Uint("order_id", orderID),
					zap.String("invoice_number", inv.InvoiceNumber),
				)
				s.archive(ctx, inv)
			}
			return inv, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			recordSpanError(span, err)
			return nil, err
		}
		lastErr = err
		s.logger.Warn("Invoice number clash, retrying", zap.Uint("order_id", orderID), zap.Int("attempt", attempt+1))
	}
	recordSpanError(span, lastErr)
	return nil, fmt.Errorf("%w: %v", ErrInvoiceNumberExhausted, lastErr)
}

func (s *invoiceServiceImpl) issueOnce(ctx context.Context, orderID uint, actor string) (*models.Invoice, bool, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	inv, created, err := s.issuer.Issue(ctx, tx, orderID, actor)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit invoice: %w", err)
	}
	return inv, created, nil
}

func (s *invoiceServiceImpl) GetInvoiceByOrder(ctx context.Context, orderID uint) (*models.Invoice, error) {
	inv, err := s.uow.Invoices().FindIssuedByOrder(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}
