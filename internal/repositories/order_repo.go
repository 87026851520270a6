package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order header only. Items are written with AddItems.
	Create(ctx context.Context, order *models.Order) error
	AddItems(ctx context.Context, orderID string, items []models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	// UpdateStatus moves the order to status only when its current status is one
	// of from. It reports whether a row changed.
	UpdateStatus(ctx context.Context, id string, from []models.OrderStatus, to models.OrderStatus) (bool, error)
}
