package providers

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for non-positive checkout amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidOrder is returned when a checkout has no order id.
	ErrInvalidOrder = errors.New("order id is required")
	// ErrGateway wraps every failure talking to the payment gateway.
	ErrGateway = errors.New("payment gateway error")
)

// Config is the immutable VNPay merchant configuration shared by the builders and the parser.
type Config struct {
	Version       string
	Command       string
	TmnCode       string
	HashSecret    string
	BaseURL       string
	ReturnURL     string
	CurrCode      string
	Locale        string
	Location      *time.Location
	ExpireMinutes int
	APIURL        string
	APITimeout    time.Duration
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Config) expiry() time.Duration {
	if c.ExpireMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.ExpireMinutes) * time.Minute
}

// CheckoutRequest describes one attempt to pay an order.
type CheckoutRequest struct {
	OrderID     uint
	Amount      decimal.Decimal
	ClientIP    string
	BankCode    string
	Description string
	OrderType   string
	Locale      string
}

// CheckoutSession is the signed request handed back to the customer.
type CheckoutSession struct {
	URL       string
	TxnRef    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Params    Params
}

// CheckoutBuilder turns a checkout request into a URL the customer is sent to.
type CheckoutBuilder interface {
	BuildCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}
