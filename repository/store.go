package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a live (not soft-deleted) row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the repositories the payment flow works with. The same
// interface is served by the root connection and by an open transaction.
type Store interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	PaymentMethods() PaymentMethodRepository
	Invoices() InvoiceRepository
}

// Tx is a Store bound to a database transaction.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// UnitOfWork is the root Store plus the ability to open transactions.
type UnitOfWork interface {
	Store
	Begin(ctx context.Context) (Tx, error)
}

// GormStore implements UnitOfWork on a gorm connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Orders() OrderRepository                 { return NewGormOrderRepository(s.db) }
func (s *GormStore) Payments() PaymentRepository             { return NewGormPaymentRepository(s.db) }
func (s *GormStore) PaymentMethods() PaymentMethodRepository { return NewGormPaymentMethodRepository(s.db) }
func (s *GormStore) Invoices() InvoiceRepository             { return NewGormInvoiceRepository(s.db) }

// Begin opens a transaction. Every repository obtained from the returned Tx
// reads and writes inside it.
func (s *GormStore) Begin(ctx context.Context) (Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{GormStore: GormStore{db: tx}}, nil
}

type gormTx struct {
	GormStore
	done bool
}

func (t *gormTx) Commit() error {
	if t.done {
		return gorm.ErrInvalidTransaction
	}
	t.done = true
	return t.db.Commit().Error
}

// Rollback is a no-op once the transaction has been committed or rolled back.
func (t *gormTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.db.Rollback().Error
}

func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
