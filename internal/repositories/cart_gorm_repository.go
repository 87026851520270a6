package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func whereKey(db *gorm.DB, key models.CartKey) *gorm.DB {
	return db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		key.UserID, key.ProductID, key.Size, key.Color)
}

// ListByUser implements CartRepository.
func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart of user %s: %w", userID, err)
	}
	return items, nil
}

// LockForCheckout implements CartRepository.
func (r *GORMCartRepository) LockForCheckout(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to lock cart of user %s: %w", userID, err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return items, nil
}

// AddItem implements CartRepository.
func (r *GORMCartRepository) AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size"}, {Name: "color"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
				"updated_at": time.Now(),
			}),
		}).
		Create(item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return r.GetByKey(ctx, item.Key())
}

// GetByKey implements CartRepository.
func (r *GORMCartRepository) GetByKey(ctx context.Context, key models.CartKey) (*models.CartItem, error) {
	var item models.CartItem
	if err := whereKey(r.db.WithContext(ctx).Preload("Product"), key).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %s/%s: %w", key.UserID, key.ProductID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

// UpdateQuantity implements CartRepository.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, key models.CartKey, quantity int) (*models.CartItem, error) {
	res := whereKey(r.db.WithContext(ctx).Model(&models.CartItem{}), key).Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item %s/%s: %w", key.UserID, key.ProductID, ErrNotFound)
	}
	return r.GetByKey(ctx, key)
}

// RemoveItem implements CartRepository.
func (r *GORMCartRepository) RemoveItem(ctx context.Context, key models.CartKey) error {
	res := whereKey(r.db.WithContext(ctx), key).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s/%s: %w", key.UserID, key.ProductID, ErrNotFound)
	}
	return nil
}

// Clear implements CartRepository.
func (r *GORMCartRepository) Clear(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart of user %s: %w", userID, err)
	}
	return nil
}

// DeleteByIDs implements CartRepository.
func (r *GORMCartRepository) DeleteByIDs(ctx context.Context, userID string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart items of user %s: %w", userID, err)
	}
	return nil
}
