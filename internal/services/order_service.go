package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/sirupsen/logrus"
)

// EventPublisher sends an order event to the broker under routingKey.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// PlaceOrderInput is the checkout request body.
type PlaceOrderInput struct {
	ShippingAddress string               `json:"shipping_address" validate:"required,min=5,max=500"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required,oneof=credit_card paypal upi_qr"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	publisher EventPublisher // nil disables events
	log       logrus.FieldLogger
}

// NewOrderService creates a new OrderService.
func NewOrderService(store repositories.Store, publisher EventPublisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// PlaceOrder converts the user's cart into an order in one transaction.
//
// The cart rows are locked, priced from the products read inside the same
// transaction, copied into order items and then deleted. Either all of it
// commits or none of it does.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, error) {
	var order *models.Order

	err := s.store.Atomic(ctx, func(tx repositories.Store) error {
		cart, err := tx.Carts().LockForCheckout(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		items := make([]models.OrderItem, 0, len(cart))
		consumed := make([]uint, 0, len(cart))
		for _, row := range cart {
			if row.Product == nil {
				return &ProductUnavailableError{ProductID: row.ProductID}
			}
			items = append(items, models.OrderItem{
				ProductID:   row.ProductID,
				ProductName: row.Product.Name,
				Quantity:    row.Quantity,
				Price:       row.Product.Price,
				Size:        row.Size,
				Color:       row.Color,
			})
			consumed = append(consumed, row.ID)
		}

		o := &models.Order{
			UserID:          userID,
			TotalAmount:     models.SumItems(items),
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			Status:          models.OrderStatusConfirmed,
			PaymentStatus:   models.PaymentStatusCompleted,
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := tx.Orders().AddItems(ctx, o.ID, items); err != nil {
			return err
		}
		if err := tx.Carts().DeleteByIDs(ctx, userID, consumed); err != nil {
			return err
		}

		o.Items = items
		order = o
		return nil
	})
	if err != nil {
		metrics.RecordOrderOperation(metrics.OpPlace, false)
		var unavailable *ProductUnavailableError
		if errors.Is(err, ErrEmptyCart) || errors.As(err, &unavailable) {
			return nil, err
		}
		s.log.WithError(err).WithField("user_id", userID).Error("Order placement rolled back")
		return nil, &TransactionError{Op: "place order", Err: err}
	}

	metrics.RecordOrderOperation(metrics.OpPlace, true)
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"items":    len(order.Items),
		"total":    order.TotalAmount.StringFixed(2),
	}).Info("Order placed")
	s.publish(models.EventOrderPlaced, order)

	return order, nil
}

// GetOrder returns an order owned by requesterID.
func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID string) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.store.Orders().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// CancelOrder cancels a pending or confirmed order owned by requesterID.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, requesterID string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, order, models.CancellableStatuses, models.OrderStatusCancelled, "cancel order")
	metrics.RecordOrderOperation(metrics.OpCancel, err == nil)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": orderID, "user_id": requesterID}).Info("Order cancelled")
	s.publish(models.EventOrderCancelled, updated)
	return updated, nil
}

// ApplyFulfillment advances an order along the fulfillment flow.
func (s *OrderService) ApplyFulfillment(ctx context.Context, update models.FulfillmentUpdate) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, update.OrderID)
	if err != nil {
		metrics.RecordOrderOperation(metrics.OpFulfillment, false)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", update.OrderID, err)
	}

	var from []models.OrderStatus
	if order.Status.CanAdvanceTo(update.Status) {
		from = []models.OrderStatus{order.Status}
	}
	updated, err := s.transition(ctx, order, from, update.Status, "apply fulfillment")
	metrics.RecordOrderOperation(metrics.OpFulfillment, err == nil)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": updated.ID,
		"from":     order.Status,
		"to":       updated.Status,
	}).Info("Order status changed")
	s.publish(models.EventOrderStatusChanged, updated)
	return updated, nil
}

// transition moves order to target with a conditional update guarded by from.
// An empty from, or a guard that no longer matches, yields InvalidTransitionError.
func (s *OrderService) transition(ctx context.Context, order *models.Order, from []models.OrderStatus, target models.OrderStatus, op string) (*models.Order, error) {
	if !containsStatus(from, order.Status) {
		return nil, &InvalidTransitionError{OrderID: order.ID, Current: order.Status, Target: target}
	}

	changed, err := s.store.Orders().UpdateStatus(ctx, order.ID, from, target)
	if err != nil {
		return nil, &TransactionError{Op: op, Err: err}
	}

	fresh, err := s.store.Orders().GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order %s: %w", order.ID, err)
	}
	if !changed {
		return nil, &InvalidTransitionError{OrderID: order.ID, Current: fresh.Status, Target: target}
	}
	return fresh, nil
}

func containsStatus(list []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *OrderService) publish(eventType string, order *models.Order) {
	entry := s.log.WithFields(logrus.Fields{"order_id": order.ID, "event": eventType})
	if s.publisher == nil {
		entry.Info("Event publisher is not configured, skipping publication")
		return
	}

	body, err := json.Marshal(models.NewOrderEvent(eventType, order))
	if err != nil {
		entry.WithError(err).Warn("Failed to marshal order event")
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		entry.WithError(err).Warn("Failed to publish order event")
		return
	}
	entry.Debug("Order event published")
}
