package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/metrics"
	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/providers"
	"github.com/Viciouslight/YukiSoraShop-sub000/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	gatewayActor = "vnpay"
	retryMessage = "We could not record the payment right now. Please try again."
)

// ClientContext carries what the storefront knows about the paying customer.
type ClientContext struct {
	IP          string
	BankCode    string
	Description string
	OrderType   string
	Locale      string
	Actor       string
}

// CallbackParser decodes gateway callbacks.
type CallbackParser interface {
	Parse(query url.Values) providers.CallbackResult
}

// IPNAck is the acknowledgement body VNPay expects from the IPN endpoint.
type IPNAck struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// PaymentService drives the order, payment and invoice state machine.
type PaymentService interface {
	CreateCheckout(ctx context.Context, orderID uint, client ClientContext) (*models.CheckoutResponse, error)
	// HandleCallback always returns the gateway's verdict, even when recording
	// it locally failed.
	HandleCallback(ctx context.Context, query url.Values) providers.CallbackResult
	HandleIPN(ctx context.Context, query url.Values) IPNAck
	CreateCashPayment(ctx context.Context, orderID uint, actor string) *models.PaymentResult
	ConfirmCashPayment(ctx context.Context, orderID uint, actor string) *models.PaymentResult
}

// PaymentOption configures optional collaborators of the payment service.
type PaymentOption func(*paymentServiceImpl)

// WithClock overrides the time source.
func WithClock(now func() time.Time) PaymentOption {
	return func(s *paymentServiceImpl) { s.now = now }
}

// WithEventPublisher publishes an event after every committed state change.
func WithEventPublisher(p EventPublisher) PaymentOption {
	return func(s *paymentServiceImpl) { s.events = p }
}

// WithInvoiceArchiver stores a copy of every invoice the service issues.
func WithInvoiceArchiver(a InvoiceArchiver) PaymentOption {
	return func(s *paymentServiceImpl) { s.archiver = a }
}

type paymentServiceImpl struct {
	uow      repository.UnitOfWork
	builder  providers.CheckoutBuilder
	parser   CallbackParser
	issuer   *InvoiceIssuer
	currency string
	now      func() time.Time
	notifier
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	uow repository.UnitOfWork,
	builder providers.CheckoutBuilder,
	parser CallbackParser,
	issuer *InvoiceIssuer,
	currency string,
	logger *zap.Logger,
	opts ...PaymentOption,
) PaymentService {
	s := &paymentServiceImpl{
		uow:      uow,
		builder:  builder,
		parser:   parser,
		issuer:   issuer,
		currency: currency,
		now:      time.Now,
		notifier: notifier{logger: logger},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *paymentServiceImpl) CreateCheckout(ctx context.Context, orderID uint, client ClientContext) (*models.CheckoutResponse, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.CreateCheckout")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	resp, payment, err := s.createCheckout(ctx, orderID, client)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	metrics.RecordCheckoutCreated(models.PaymentMethodVNPay)
	s.logger.Info("Checkout session created",
		zap.Uint("order_id", orderID),
		zap.Uint("payment_id", payment.ID),
		zap.String("txn_ref", resp.TxnRef),
		zap.String("amount", resp.Amount),
	)
	s.publish(ctx, models.EventCheckoutCreated, models.PaymentMethodVNPay, payment, "", s.now())
	return resp, nil
}

func (s *paymentServiceImpl) createCheckout(ctx context.Context, orderID uint, client ClientContext) (*models.CheckoutResponse, *models.Payment, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := tx.Orders().GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load order: %w", err)
	}
	switch order.Status {
	case models.OrderStatusPaid:
		return nil, nil, ErrOrderAlreadyPaid
	case models.OrderStatusCanceled:
		return nil, nil, ErrOrderNotPayable
	}

	amount := order.EnsureGrandTotal()
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	now := s.now()
	actor := actorOr(client.Actor)
	method, err := ensureMethod(ctx, tx, models.PaymentMethodVNPay, actor, now, true)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.builder.BuildCheckout(ctx, providers.CheckoutRequest{
		OrderID:     order.ID,
		Amount:      amount,
		ClientIP:    client.IP,
		BankCode:    client.BankCode,
		Description: client.Description,
		OrderType:   client.OrderType,
		Locale:      client.Locale,
	})
	if err != nil {
		return nil, nil, err
	}

	payment, err := tx.Payments().FindLatest(ctx, order.ID, method.ID, models.PaymentStatusPending)
	switch {
	case err == nil:
		payment.Amount = amount
		payment.Currency = s.currency
		payment.TransactionRef = &session.TxnRef
		payment.Touch(actor, now)
		err = tx.Payments().Update(ctx, payment)
	case errors.Is(err, repository.ErrNotFound):
		payment = &models.Payment{
			OrderID:         order.ID,
			PaymentMethodID: method.ID,
			Amount:          amount,
			Currency:        s.currency,
			Status:          models.PaymentStatusPending,
			TransactionRef:  &session.TxnRef,
		}
		payment.Stamp(actor, now)
		err = tx.Payments().Add(ctx, payment)
	default:
		return nil, nil, fmt.Errorf("find pending payment: %w", err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("save payment: %w", err)
	}

	order.Touch(actor, now)
	if err := tx.Orders().Update(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("save order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit checkout: %w", err)
	}

	return &models.CheckoutResponse{
		PaymentURL: session.URL,
		TxnRef:     session.TxnRef,
		PaymentID:  payment.ID,
		Amount:     amount.StringFixed(2),
		ExpiresAt:  session.ExpiresAt,
	}, payment, nil
}

type callbackOutcome int

const (
	callbackApplied callbackOutcome = iota
	callbackDeclined
	callbackDuplicate
	callbackRejected
	callbackUnresolvable
	callbackPersistFailed
)

func (s *paymentServiceImpl) HandleCallback(ctx context.Context, query url.Values) providers.CallbackResult {
	res, _ := s.processCallback(ctx, query)
	return res
}

// HandleIPN applies the callback and answers with VNPay's acknowledgement codes.
// Any code other than 00 or 02 makes the gateway retry.
func (s *paymentServiceImpl) HandleIPN(ctx context.Context, query url.Values) IPNAck {
	_, outcome := s.processCallback(ctx, query)
	switch outcome {
	case callbackApplied, callbackDeclined:
		return IPNAck{RspCode: "00", Message: "Confirm Success"}
	case callbackDuplicate:
		return IPNAck{RspCode: "02", Message: "Order already confirmed"}
	case callbackRejected:
		return IPNAck{RspCode: "97", Message: "Invalid signature"}
	case callbackUnresolvable:
		return IPNAck{RspCode: "01", Message: "Order not found"}
	default:
		return IPNAck{RspCode: "99", Message: "Unknown error"}
	}
}

func (s *paymentServiceImpl) processCallback(ctx context.Context, query url.Values) (providers.CallbackResult, callbackOutcome) {
	ctx, span := tracer.Start(ctx, "PaymentService.HandleCallback")
	defer span.End()

	res := s.parser.Parse(query)
	span.SetAttributes(
		attribute.Int64("order.id", int64(res.OrderID)),
		attribute.Bool("payment.success", res.IsSuccess),
	)
	log := s.logger.With(zap.Uint("order_id", res.OrderID), zap.String("txn_ref", res.TransactionRef))

	// An unsigned callback must never touch the ledger.
	if !res.SignatureValid {
		log.Warn("Rejected callback with invalid signature")
		metrics.RecordCallback(metrics.CallbackRejected)
		return res, callbackRejected
	}
	if res.OrderID == 0 {
		log.Warn("Callback does not reference an order")
		metrics.RecordCallback(metrics.CallbackUnresolvable)
		return res, callbackUnresolvable
	}
	if _, err := s.uow.Orders().GetByID(ctx, res.OrderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Callback references an unknown order")
			metrics.RecordCallback(metrics.CallbackUnresolvable)
			return res, callbackUnresolvable
		}
		recordSpanError(span, err)
		log.Error("Failed to load order for callback", zap.Error(err))
		metrics.RecordCallback(metrics.CallbackPersistError)
		return res, callbackPersistFailed
	}

	applied, err := s.applyCallback(ctx, res)
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to record callback, rolled back", zap.Error(err))
		metrics.RecordCallback(metrics.CallbackPersistError)
		return res, callbackPersistFailed
	}

	now := s.now()
	switch applied.outcome {
	case callbackApplied:
		metrics.RecordCallback(metrics.CallbackSucceeded)
		metrics.RecordPayment(models.PaymentMethodVNPay, string(models.PaymentStatusPaid))
		log.Info("Payment confirmed by gateway", zap.Uint("payment_id", applied.payment.ID))
		s.publish(ctx, models.EventPaymentSucceeded, models.PaymentMethodVNPay, applied.payment, applied.invoiceNumber(), now)
	case callbackDeclined:
		metrics.RecordCallback(metrics.CallbackFailed)
		metrics.RecordPayment(models.PaymentMethodVNPay, string(applied.payment.Status))
		log.Info("Payment declined by gateway",
			zap.Uint("payment_id", applied.payment.ID),
			zap.String("response_code", res.ResponseCode),
			zap.String("transaction_status", res.TransactionStatus),
		)
		s.publish(ctx, models.EventPaymentFailed, models.PaymentMethodVNPay, applied.payment, "", now)
	case callbackDuplicate:
		metrics.RecordCallback(metrics.CallbackDuplicate)
		log.Info("Callback already applied", zap.Uint("payment_id", applied.payment.ID))
	}
	if applied.invoiceCreated {
		metrics.RecordInvoiceIssued()
		s.archive(ctx, applied.invoice)
	}
	return res, applied.outcome
}

type appliedCallback struct {
	outcome        callbackOutcome
	payment        *models.Payment
	invoice        *models.Invoice
	invoiceCreated bool
}

func (a appliedCallback) invoiceNumber() string {
	if a.invoice == nil {
		return ""
	}
	return a.invoice.InvoiceNumber
}

// applyCallback records a signed callback in one transaction. Replays find the
// payment already Paid and leave everything as it was.
func (s *paymentServiceImpl) applyCallback(ctx context.Context, res providers.CallbackResult) (*appliedCallback, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := tx.Orders().GetByID(ctx, res.OrderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	now := s.now()
	method, err := ensureMethod(ctx, tx, models.PaymentMethodVNPay, gatewayActor, now, false)
	if err != nil {
		return nil, err
	}

	payment, err := locatePayment(ctx, tx, order.ID, method.ID, res.TransactionRef)
	if err != nil {
		return nil, err
	}
	isNew := payment == nil
	if isNew {
		amount := res.Amount
		if !amount.IsPositive() {
			amount = order.Total()
		}
		payment = &models.Payment{
			OrderID:         order.ID,
			PaymentMethodID: method.ID,
			Amount:          amount,
			Currency:        res.Currency,
			Status:          models.PaymentStatusPending,
		}
		payment.Stamp(gatewayActor, now)
	}

	out := &appliedCallback{payment: payment}
	if payment.Status == models.PaymentStatusCanceled && !res.IsSuccess {
		out.outcome = callbackDuplicate
		return out, nil
	}
	if payment.Status == models.PaymentStatusPaid {
		if !res.IsSuccess {
			s.logger.Warn("Ignoring failure callback for a paid payment",
				zap.Uint("order_id", order.ID),
				zap.Uint("payment_id", payment.ID),
			)
			out.outcome = callbackDuplicate
			return out, nil
		}
		out.outcome = callbackDuplicate
	}

	if res.Amount.IsPositive() && !res.Amount.Equal(payment.Amount) {
		s.logger.Warn("Callback amount differs from payment amount",
			zap.Uint("order_id", order.ID),
			zap.String("callback_amount", res.Amount.StringFixed(2)),
			zap.String("payment_amount", payment.Amount.StringFixed(2)),
		)
	}

	raw := res.RawQuery
	payment.RawCallbackPayload = &raw
	if res.TransactionRef != "" {
		ref := res.TransactionRef
		payment.TransactionRef = &ref
	}
	if res.ProviderTransactionNo != "" {
		no := res.ProviderTransactionNo
		payment.ProviderTransactionNo = &no
	}

	if res.IsSuccess {
		payment.Status = models.PaymentStatusPaid
	} else {
		payment.Status = models.PaymentStatusCanceled
		out.outcome = callbackDeclined
	}
	payment.Touch(gatewayActor, now)

	if isNew {
		err = tx.Payments().Add(ctx, payment)
	} else {
		err = tx.Payments().Update(ctx, payment)
	}
	if err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}

	if res.IsSuccess {
		if order.Status != models.OrderStatusPaid {
			order.Status = models.OrderStatusPaid
			order.EnsureGrandTotal()
			order.Touch(gatewayActor, now)
			if err := tx.Orders().Update(ctx, order); err != nil {
				return nil, fmt.Errorf("save order: %w", err)
			}
		}
		out.invoice, out.invoiceCreated, err = s.issuer.Issue(ctx, tx, order.ID, gatewayActor)
		if err != nil {
			return nil, fmt.Errorf("issue invoice: %w", err)
		}
		if out.outcome == callbackDuplicate && out.invoiceCreated {
			out.outcome = callbackApplied
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit callback: %w", err)
	}
	return out, nil
}

// locatePayment prefers the payment carrying ref, then the newest Pending one
// for the order. A nil payment means none exists yet.
func locatePayment(ctx context.Context, store repository.Store, orderID, methodID uint, ref string) (*models.Payment, error) {
	if ref != "" {
		p, err := store.Payments().FindByTransactionRef(ctx, ref)
		switch {
		case err == nil && p.OrderID == orderID && p.PaymentMethodID == methodID:
			return p, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("find payment by ref: %w", err)
		}
	}
	p, err := store.Payments().FindLatest(ctx, orderID, methodID, models.PaymentStatusPending)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pending payment: %w", err)
	}
	return p, nil
}

func (s *paymentServiceImpl) CreateCashPayment(ctx context.Context, orderID uint, actor string) *models.PaymentResult {
	ctx, span := tracer.Start(ctx, "PaymentService.CreateCashPayment")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	actor = actorOr(actor)
	log := s.logger.With(zap.Uint("order_id", orderID))

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to begin cash payment", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := tx.Orders().GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Fail(orderID, models.ReasonOrderNotFound, fmt.Sprintf("Order %d was not found.", orderID))
	}
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to load order for cash payment", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}
	if order.Status == models.OrderStatusPaid || order.Status == models.OrderStatusCanceled {
		return models.Fail(orderID, models.ReasonInvalidState,
			fmt.Sprintf("Order %d is %s and cannot be paid in cash.", orderID, order.Status))
	}

	now := s.now()
	amount := order.EnsureGrandTotal()
	method, err := ensureMethod(ctx, tx, models.PaymentMethodCash, actor, now, true)
	if errors.Is(err, ErrPaymentMethodUnavailable) {
		return models.Fail(orderID, models.ReasonInvalidState, "Cash payment is not available.")
	}
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to resolve cash payment method", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}

	payment, err := tx.Payments().FindLatest(ctx, orderID, method.ID)
	isNew := errors.Is(err, repository.ErrNotFound)
	if err != nil && !isNew {
		recordSpanError(span, err)
		log.Error("Failed to load cash payment", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}
	if isNew {
		payment = &models.Payment{OrderID: orderID, PaymentMethodID: method.ID}
		payment.Stamp(actor, now)
	}
	payment.Amount = amount
	payment.Currency = s.currency
	payment.Status = models.PaymentStatusPending
	payment.Touch(actor, now)

	if isNew {
		err = tx.Payments().Add(ctx, payment)
	} else {
		err = tx.Payments().Update(ctx, payment)
	}
	if err == nil {
		order.Status = models.OrderStatusAwaitingCash
		order.Touch(actor, now)
		err = tx.Orders().Update(ctx, order)
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to record cash payment, rolled back", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}

	metrics.RecordPayment(models.PaymentMethodCash, string(payment.Status))
	log.Info("Cash payment pending", zap.Uint("payment_id", payment.ID), zap.String("actor", actor))
	s.publish(ctx, models.EventCashPaymentPending, models.PaymentMethodCash, payment, "", now)

	return &models.PaymentResult{
		Success:   true,
		Message:   fmt.Sprintf("Order %d will be paid in cash. Amount due: %s %s.", orderID, amount.StringFixed(0), s.currency),
		OrderID:   orderID,
		PaymentID: payment.ID,
		Status:    payment.Status,
		Amount:    amount,
		Currency:  s.currency,
	}
}

func (s *paymentServiceImpl) ConfirmCashPayment(ctx context.Context, orderID uint, actor string) *models.PaymentResult {
	ctx, span := tracer.Start(ctx, "PaymentService.ConfirmCashPayment")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	actor = actorOr(actor)
	log := s.logger.With(zap.Uint("order_id", orderID))

	order, err := s.uow.Orders().GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Fail(orderID, models.ReasonOrderNotFound, fmt.Sprintf("Order %d was not found.", orderID))
	}
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to load order for cash confirmation", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}
	if order.Status != models.OrderStatusAwaitingCash {
		return models.Fail(orderID, models.ReasonInvalidState,
			fmt.Sprintf("Order %d is %s, not awaiting a cash payment.", orderID, order.Status))
	}

	payment, inv, created, err := s.confirmCash(ctx, orderID, actor)
	if errors.Is(err, ErrOrderNotPayable) {
		return models.Fail(orderID, models.ReasonInvalidState,
			fmt.Sprintf("Order %d is no longer awaiting a cash payment.", orderID))
	}
	if err != nil {
		recordSpanError(span, err)
		log.Error("Failed to confirm cash payment, rolled back", zap.Error(err))
		return models.Fail(orderID, models.ReasonInternal, retryMessage)
	}

	now := s.now()
	metrics.RecordPayment(models.PaymentMethodCash, string(payment.Status))
	if created {
		metrics.RecordInvoiceIssued()
		s.archive(ctx, inv)
	}
	log.Info("Cash payment confirmed",
		zap.Uint("payment_id", payment.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("actor", actor),
	)
	s.publish(ctx, models.EventCashPaymentConfirmed, models.PaymentMethodCash, payment, inv.InvoiceNumber, now)

	return &models.PaymentResult{
		Success:        true,
		Message:        fmt.Sprintf("Cash payment for order %d confirmed. Invoice %s issued.", orderID, inv.InvoiceNumber),
		OrderID:        orderID,
		PaymentID:      payment.ID,
		Status:         payment.Status,
		TransactionRef: *payment.TransactionRef,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		InvoiceNumber:  inv.InvoiceNumber,
	}
}

// confirmCash marks the cash payment and the order Paid and issues the invoice
// in one transaction.
func (s *paymentServiceImpl) confirmCash(ctx context.Context, orderID uint, actor string) (*models.Payment, *models.Invoice, bool, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	order, err := tx.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("reload order: %w", err)
	}
	if order.Status != models.OrderStatusAwaitingCash {
		return nil, nil, false, ErrOrderNotPayable
	}

	now := s.now()
	method, err := ensureMethod(ctx, tx, models.PaymentMethodCash, actor, now, false)
	if err != nil {
		return nil, nil, false, err
	}

	payment, err := tx.Payments().FindLatest(ctx, orderID, method.ID)
	isNew := errors.Is(err, repository.ErrNotFound)
	if err != nil && !isNew {
		return nil, nil, false, fmt.Errorf("load cash payment: %w", err)
	}
	if isNew {
		payment = &models.Payment{
			OrderID:         orderID,
			PaymentMethodID: method.ID,
			Amount:          order.Total(),
			Currency:        s.currency,
		}
		payment.Stamp(actor, now)
	}
	payment.Status = models.PaymentStatusPaid
	if payment.TransactionRef == nil || *payment.TransactionRef == "" {
		ref := fmt.Sprintf("CASH-%d-%d", orderID, now.Unix())
		payment.TransactionRef = &ref
	}
	payment.Touch(actor, now)
	if isNew {
		err = tx.Payments().Add(ctx, payment)
	} else {
		err = tx.Payments().Update(ctx, payment)
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("save payment: %w", err)
	}

	order.Status = models.OrderStatusPaid
	order.EnsureGrandTotal()
	order.Touch(actor, now)
	if err := tx.Orders().Update(ctx, order); err != nil {
		return nil, nil, false, fmt.Errorf("save order: %w", err)
	}

	inv, created, err := s.issuer.Issue(ctx, tx, orderID, actor)
	if err != nil {
		return nil, nil, false, fmt.Errorf("issue invoice: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, false, fmt.Errorf("commit cash confirmation: %w", err)
	}
	return payment, inv, created, nil
}

func actorOr(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}
