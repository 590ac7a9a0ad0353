package models

import "github.com/shopspring/decimal"

type InvoiceStatus string

const (
	InvoiceStatusIssued InvoiceStatus = "Issued"
	InvoiceStatusVoided InvoiceStatus = "Voided"
)

// Invoice is an immutable snapshot of an order taken when it was paid.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	InvoiceNumber string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"invoice_number"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	Details       []InvoiceDetail `gorm:"foreignKey:InvoiceID" json:"details"`
	Audit         `gorm:"embedded"`
}

// InvoiceDetail copies product data at issuance so later catalog edits don't leak in.
type InvoiceDetail struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"-"`
	ProductID   uint            `gorm:"not null" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"line_total"`
	Audit       `gorm:"embedded"`
}
