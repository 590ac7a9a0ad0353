package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VNPay timestamps are wall-clock yyyyMMddHHmmss in the merchant's timezone.
const vnpTimeLayout = "20060102150405"

const defaultOrderType = "other"

var hundred = decimal.NewFromInt(100)

// RedirectBuilder builds signed VNPay payment URLs. It performs no I/O.
type RedirectBuilder struct {
	cfg Config
	now func() time.Time
}

// NewRedirectBuilder creates a RedirectBuilder for cfg.
func NewRedirectBuilder(cfg Config) *RedirectBuilder {
	return &RedirectBuilder{cfg: cfg, now: time.Now}
}

// WithClock replaces the builder's time source.
func (b *RedirectBuilder) WithClock(now func() time.Time) *RedirectBuilder {
	b.now = now
	return b
}

// BuildCheckout returns the redirect URL for req. ctx is accepted for interface
// parity; construction is CPU-bound and is not interrupted.
func (b *RedirectBuilder) BuildCheckout(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params, created, expires, err := buildParams(b.cfg, req, b.now())
	if err != nil {
		return nil, err
	}

	sig := Sign(params, b.cfg.HashSecret)
	sep := "?"
	if strings.Contains(b.cfg.BaseURL, "?") {
		sep = "&"
	}
	paymentURL := b.cfg.BaseURL + sep + Canonicalize(params) + "&" + ParamSecureHash + "=" + sig

	signed := make(Params, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed[ParamSecureHash] = sig

	return &CheckoutSession{
		URL:       paymentURL,
		TxnRef:    params["vnp_TxnRef"],
		CreatedAt: created,
		ExpiresAt: expires,
		Params:    signed,
	}, nil
}

// buildParams assembles the unsigned VNPay parameter set shared by both checkout variants.
func buildParams(cfg Config, req CheckoutRequest, now time.Time) (Params, time.Time, time.Time, error) {
	if req.OrderID == 0 {
		return nil, time.Time{}, time.Time{}, ErrInvalidOrder
	}
	if !req.Amount.IsPositive() {
		return nil, time.Time{}, time.Time{}, ErrInvalidAmount
	}

	created := now.In(cfg.location())
	expires := created.Add(cfg.expiry())

	locale := cfg.Locale
	if req.Locale != "" {
		locale = req.Locale
	}
	orderType := req.OrderType
	if orderType == "" {
		orderType = defaultOrderType
	}

	p := Params{
		"vnp_Version":    cfg.Version,
		"vnp_Command":    cfg.Command,
		"vnp_TmnCode":    cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(ToMinorUnits(req.Amount), 10),
		"vnp_CreateDate": created.Format(vnpTimeLayout),
		"vnp_ExpireDate": expires.Format(vnpTimeLayout),
		"vnp_CurrCode":   cfg.CurrCode,
		"vnp_IpAddr":     normalizeClientIP(req.ClientIP),
		"vnp_Locale":     locale,
		"vnp_OrderInfo":  SanitizeOrderInfo(req.Description, req.OrderID),
		"vnp_OrderType":  orderType,
		"vnp_ReturnUrl":  cfg.ReturnURL,
		"vnp_TxnRef":     NewTxnRef(req.OrderID, created),
	}
	if code, ok := ParseBankCode(req.BankCode); ok {
		p["vnp_BankCode"] = string(code)
	}
	return p, created, expires, nil
}

// NewTxnRef returns "{orderId}-{unixSeconds}".
func NewTxnRef(orderID uint, at time.Time) string {
	return fmt.Sprintf("%d-%d", orderID, at.Unix())
}

// ParseTxnRef splits ref on its first '-'. An unresolvable reference yields orderID 0.
func ParseTxnRef(ref string) (orderID uint, attemptUnix int64) {
	head, tail, ok := strings.Cut(strings.TrimSpace(ref), "-")
	if !ok {
		return 0, 0
	}
	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil {
		return 0, 0
	}
	ts, err := strconv.ParseInt(tail, 10, 64)
	if err != nil {
		ts = 0
	}
	return uint(id), ts
}

// ToMinorUnits encodes amount the VNPay way: amount x 100, truncated.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Truncate(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

func normalizeClientIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}
