package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routing keys for order events.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is published after an order write commits.
type OrderEvent struct {
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int             `json:"item_count"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds an event of the given type from an order.
func NewOrderEvent(eventType string, o *Order) OrderEvent {
	return OrderEvent{
		Type:          eventType,
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		ItemCount:     len(o.Items),
		OccurredAt:    time.Now().UTC(),
	}
}

// FulfillmentUpdate is consumed from the warehouse queue.
type FulfillmentUpdate struct {
	OrderID string      `json:"order_id" validate:"required"`
	Status  OrderStatus `json:"status" validate:"required,oneof=confirmed shipped delivered"`
}
