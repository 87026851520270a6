package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// ListByUser returns the user's cart rows with their products, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	// LockForCheckout returns the user's cart rows locked for update. Each row's
	// Product is loaded in the same transaction and is nil when the product is gone.
	LockForCheckout(ctx context.Context, userID string) ([]models.CartItem, error)
	// AddItem inserts the row or adds its quantity to the existing row with the same key.
	AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	GetByKey(ctx context.Context, key models.CartKey) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, key models.CartKey, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, key models.CartKey) error
	Clear(ctx context.Context, userID string) error
	DeleteByIDs(ctx context.Context, userID string, ids []uint) error
}
