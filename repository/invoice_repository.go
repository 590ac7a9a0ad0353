package repository

import (
	"context"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access.
type InvoiceRepository interface {
	FindIssuedByOrder(ctx context.Context, orderID uint) (*models.Invoice, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	// Add inserts the invoice together with its details.
	Add(ctx context.Context, invoice *models.Invoice) error
}

// GormInvoiceRepository implements InvoiceRepository using GORM.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository.
func NewGormInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) FindIssuedByOrder(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Scopes(notDeleted).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return notDeleted(db).Order("id")
		}).
		Where("order_id = ? AND status = ?", orderID, models.InvoiceStatusIssued).
		Order("id").
		First(&invoice).Error
	if err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("invoice_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *GormInvoiceRepository) Add(ctx context.Context, invoice *models.Invoice) error {
	return translate(r.db.WithContext(ctx).Create(invoice).Error)
}
