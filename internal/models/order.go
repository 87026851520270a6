package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks the payment side of an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod is the tag the customer picked at checkout. No gateway is called.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
	PaymentMethodUPIQR      PaymentMethod = "upi_qr"
)

// CancellableStatuses lists the states from which an order may still be cancelled.
var CancellableStatuses = []OrderStatus{OrderStatusPending, OrderStatusConfirmed}

// fulfillmentFlow maps a status to the statuses a fulfillment update may move it to.
var fulfillmentFlow = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed},
	OrderStatusConfirmed: {OrderStatusShipped},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in status s may be cancelled.
func (s OrderStatus) Cancellable() bool {
	for _, c := range CancellableStatuses {
		if s == c {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether fulfillment may move an order from s to next.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	for _, allowed := range fulfillmentFlow[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line item frozen at purchase time.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36);not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(255)"` // snapshot for display
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"` // unit price at the time of order
	Size        string          `json:"size" gorm:"type:varchar(32);not null;default:''"`
	Color       string          `json:"color" gorm:"type:varchar(32);not null;default:''"`
}

// Subtotal returns quantity × unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text;not null"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(32);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SumItems returns Σ(quantity × price) over the order's items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
