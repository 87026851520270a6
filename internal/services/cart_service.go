package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AddCartItemInput is the body of an add-to-cart request.
type AddCartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Size      string `json:"size" validate:"max=32"`
	Color     string `json:"color" validate:"max=32"`
}

// UpdateCartItemInput sets the quantity of an existing cart row.
type UpdateCartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Size      string `json:"size" validate:"max=32"`
	Color     string `json:"color" validate:"max=32"`
}

// CartService handles business logic related to shopping carts.
type CartService struct {
	store repositories.Store
	log   logrus.FieldLogger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store, log logrus.FieldLogger) *CartService {
	return &CartService{store: store, log: log}
}

// GetCart returns the user's cart priced at current product prices.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	items, err := s.store.Carts().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	total := decimal.Zero
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.Cart{Items: items, Total: total}, nil
}

// AddItem adds quantity of a product variant to the user's cart.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddCartItemInput) (*models.CartItem, error) {
	if _, err := s.store.Products().GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	item, err := s.store.Carts().AddItem(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Size:      in.Size,
		Color:     in.Color,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "product_id": in.ProductID, "quantity": item.Quantity}).Debug("Cart item added")
	return item, nil
}

// UpdateItem replaces the quantity of an existing cart row.
func (s *CartService) UpdateItem(ctx context.Context, userID string, in UpdateCartItemInput) (*models.CartItem, error) {
	key := models.CartKey{UserID: userID, ProductID: in.ProductID, Size: in.Size, Color: in.Color}
	item, err := s.store.Carts().UpdateQuantity(ctx, key, in.Quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

// RemoveItem deletes one cart row.
func (s *CartService) RemoveItem(ctx context.Context, key models.CartKey) error {
	if err := s.store.Carts().RemoveItem(ctx, key); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.store.Carts().Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
