package services

import (
	"errors"

	"github.com/Viciouslight/YukiSoraShop-sub000/providers"
)

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrOrderAlreadyPaid         = errors.New("order already paid")
	ErrOrderNotPayable          = errors.New("order cannot be paid")
	ErrPaymentMethodUnavailable = errors.New("payment method unavailable")
	ErrPaymentMethodNotFound    = errors.New("payment method not found")
	ErrInvoiceNotFound          = errors.New("invoice not found")
	ErrInvoiceNumberExhausted   = errors.New("could not allocate a unique invoice number")

	ErrInvalidAmount = providers.ErrInvalidAmount
	ErrGateway       = providers.ErrGateway
)
