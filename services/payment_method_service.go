package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/repository"
	"go.uber.org/zap"
)

// PaymentMethodService administers the payment methods offered at checkout.
type PaymentMethodService interface {
	ListActive(ctx context.Context) ([]models.PaymentMethod, error)
	Deactivate(ctx context.Context, id uint, actor string) error
}

type paymentMethodServiceImpl struct {
	uow    repository.UnitOfWork
	logger *zap.Logger
	now    func() time.Time
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(uow repository.UnitOfWork, logger *zap.Logger) PaymentMethodService {
	return &paymentMethodServiceImpl{uow: uow, logger: logger, now: time.Now}
}

func (s *paymentMethodServiceImpl) ListActive(ctx context.Context) ([]models.PaymentMethod, error) {
	return s.uow.PaymentMethods().ListActive(ctx)
}

// Deactivate soft-deletes the method. Payments that already reference it keep
// their history.
func (s *paymentMethodServiceImpl) Deactivate(ctx context.Context, id uint, actor string) error {
	err := s.uow.PaymentMethods().SoftDelete(ctx, id, actorOr(actor), s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPaymentMethodNotFound
	}
	if err != nil {
		return fmt.Errorf("deactivate payment method: %w", err)
	}
	s.logger.Info("Payment method deactivated", zap.Uint("payment_method_id", id), zap.String("actor", actor))
	return nil
}

// ensureMethod looks a method up by name and creates it active when missing.
// requireActive rejects inactive methods; callbacks for money already taken
// pass false.
func ensureMethod(ctx context.Context, store repository.Store, name, actor string, now time.Time, requireActive bool) (*models.PaymentMethod, error) {
	method, err := store.PaymentMethods().FindByName(ctx, name)
	if err == nil {
		if requireActive && (!method.IsActive || method.IsDeleted) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentMethodUnavailable, name)
		}
		return method, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup payment method %s: %w", name, err)
	}

	method = &models.PaymentMethod{Name: name, IsActive: true}
	method.Stamp(actor, now)
	if err := store.PaymentMethods().Add(ctx, method); err != nil {
		return nil, fmt.Errorf("create payment method %s: %w", name, err)
	}
	return method, nil
}
