package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"gorm.io/gorm"
)

// PaymentMethodRepository defines the interface for payment method data access.
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id uint) (*models.PaymentMethod, error)
	// FindByName matches case-insensitively and includes inactive and
	// soft-deleted methods, since names stay unique across both.
	FindByName(ctx context.Context, name string) (*models.PaymentMethod, error)
	Add(ctx context.Context, method *models.PaymentMethod) error
	ListActive(ctx context.Context) ([]models.PaymentMethod, error)
	SoftDelete(ctx context.Context, id uint, actor string, now time.Time) error
}

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM.
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository.
func NewGormPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

func (r *GormPaymentMethodRepository) GetByID(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Where("id = ?", id).
		First(&method).Error
	if err != nil {
		return nil, translate(err)
	}
	return &method, nil
}

func (r *GormPaymentMethodRepository) FindByName(ctx context.Context, name string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&method).Error
	if err != nil {
		return nil, translate(err)
	}
	return &method, nil
}

func (r *GormPaymentMethodRepository) Add(ctx context.Context, method *models.PaymentMethod) error {
	return translate(r.db.WithContext(ctx).Create(method).Error)
}

func (r *GormPaymentMethodRepository) ListActive(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Where("is_active = ?", true).
		Order("name").
		Find(&methods).Error
	return methods, err
}

// SoftDelete flags the method deleted and inactive.
func (r *GormPaymentMethodRepository) SoftDelete(ctx context.Context, id uint, actor string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Scopes(notDeleted).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted":  true,
			"is_active":   false,
			"modified_at": now,
			"modified_by": actor,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
