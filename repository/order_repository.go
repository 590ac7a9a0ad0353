package repository

import (
	"context"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository reads orders and updates their payment-facing fields.
type OrderRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetWithDetails(ctx context.Context, id uint) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// GetWithDetails loads the order with its live lines and their products.
func (r *GormOrderRepository) GetWithDetails(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return notDeleted(db).Order("id")
		}).
		Preload("Details.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// Update saves the order row only; lines are never rewritten here.
func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}
