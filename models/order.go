package models

import "github.com/shopspring/decimal"

// OrderStatus is the payment-facing lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "Pending"
	OrderStatusAwaitingCash OrderStatus = "AwaitingCash"
	OrderStatusPaid         OrderStatus = "Paid"
	OrderStatusCanceled     OrderStatus = "Canceled"
)

// Order is owned by the customer; only the payment flow and order creation mutate it.
type Order struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	AccountID   uint                `gorm:"not null;index" json:"account_id"`
	Status      OrderStatus         `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Subtotal    decimal.Decimal     `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	ShippingFee decimal.Decimal     `gorm:"type:numeric(18,2);not null;default:0" json:"shipping_fee"`
	GrandTotal  decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"grand_total"`
	Details     []OrderDetail       `gorm:"foreignKey:OrderID" json:"details,omitempty"`
	Audit       `gorm:"embedded"`
}

// Total returns the stored grand total, or subtotal plus shipping when it was never set.
func (o *Order) Total() decimal.Decimal {
	if o.GrandTotal.Valid {
		return o.GrandTotal.Decimal
	}
	return o.Subtotal.Add(o.ShippingFee)
}

// EnsureGrandTotal fills GrandTotal when unset and returns it.
func (o *Order) EnsureGrandTotal() decimal.Decimal {
	total := o.Total()
	o.GrandTotal = decimal.NewNullDecimal(total)
	return total
}

// OrderDetail is a single order line.
type OrderDetail struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Audit     `gorm:"embedded"`
}

// LineTotal is quantity times unit price.
func (d OrderDetail) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Product is the catalog row read when snapshotting invoice lines.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`
	Audit       `gorm:"embedded"`
}
