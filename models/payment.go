package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusCanceled PaymentStatus = "Canceled"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

// Payment is one attempt to pay an order. An order may accumulate several.
type Payment struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	OrderID               uint            `gorm:"not null;index" json:"order_id"`
	PaymentMethodID       uint            `gorm:"not null;index" json:"payment_method_id"`
	Amount                decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Currency              string          `gorm:"type:varchar(10);not null" json:"currency"`
	Status                PaymentStatus   `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	TransactionRef        *string         `gorm:"type:varchar(128);index" json:"transaction_ref,omitempty"`
	ProviderTransactionNo *string         `gorm:"type:varchar(128)" json:"provider_transaction_no,omitempty"`
	RawCallbackPayload    *string         `gorm:"type:text" json:"-"`
	Audit                 `gorm:"embedded"`
}

// Well-known payment method names.
const (
	PaymentMethodVNPay = "VNPay"
	PaymentMethodCash  = "Cash"
)

// PaymentMethod names a way of paying. Inactive methods are never offered at checkout.
type PaymentMethod struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
	Audit    `gorm:"embedded"`
}

// PaymentEvent is published after a payment state change has been committed.
type PaymentEvent struct {
	EventID        string    `json:"event_id"`
	Type           string    `json:"type"`
	OrderID        uint      `json:"order_id"`
	PaymentID      uint      `json:"payment_id"`
	Method         string    `json:"method"`
	Status         string    `json:"status"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	InvoiceNumber  string    `json:"invoice_number,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Payment event types.
const (
	EventPaymentSucceeded     = "payment_succeeded"
	EventPaymentFailed        = "payment_failed"
	EventCheckoutCreated      = "checkout_session_created"
	EventCashPaymentPending   = "cash_payment_pending"
	EventCashPaymentConfirmed = "cash_payment_confirmed"
)
