package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest is the body of POST /payments/checkout/:orderId.
type CheckoutRequest struct {
	BankCode    string `json:"bank_code"`
	Description string `json:"description" binding:"max=1024"`
	OrderType   string `json:"order_type"`
	Locale      string `json:"locale" binding:"omitempty,oneof=vn en"`
}

// CheckoutResponse is returned once a checkout session has been persisted.
type CheckoutResponse struct {
	PaymentURL string    `json:"payment_url"`
	TxnRef     string    `json:"txn_ref"`
	PaymentID  uint      `json:"payment_id"`
	Amount     string    `json:"amount"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Failure reasons carried by PaymentResult.
const (
	ReasonOrderNotFound = "order_not_found"
	ReasonInvalidState  = "invalid_state"
	ReasonInternal      = "internal"
)

// PaymentResult reports the outcome of a caller-facing cash operation.
type PaymentResult struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	Reason         string          `json:"reason,omitempty"`
	OrderID        uint            `json:"order_id"`
	PaymentID      uint            `json:"payment_id,omitempty"`
	Status         PaymentStatus   `json:"status,omitempty"`
	TransactionRef string          `json:"transaction_ref,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	InvoiceNumber  string          `json:"invoice_number,omitempty"`
}

// Fail builds a failed result.
func Fail(orderID uint, reason, message string) *PaymentResult {
	return &PaymentResult{OrderID: orderID, Reason: reason, Message: message}
}
