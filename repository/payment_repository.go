package repository

import (
	"context"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Add(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	FindByTransactionRef(ctx context.Context, ref string) (*models.Payment, error)
	// FindLatest returns the newest payment for the order and method, optionally
	// restricted to the given statuses.
	FindLatest(ctx context.Context, orderID, methodID uint, statuses ...models.PaymentStatus) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID uint) ([]models.Payment, error)
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Add(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(payment).Error
}

func (r *GormPaymentRepository) FindByTransactionRef(ctx context.Context, ref string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Where("transaction_ref = ?", ref).
		Order("id DESC").
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindLatest(ctx context.Context, orderID, methodID uint, statuses ...models.PaymentStatus) (*models.Payment, error) {
	var payment models.Payment
	query := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Where("order_id = ? AND payment_method_id = ?", orderID, methodID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Order("id DESC").First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&payments).Error
	return payments, err
}
