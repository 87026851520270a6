package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartKey identifies one cart row. Size and Color are empty when not selected.
type CartKey struct {
	UserID    string
	ProductID string
	Size      string
	Color     string
}

// CartItem is a single (user, product, size, color) quantity record, pre-checkout.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product_variant"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product_variant"`
	Size      string    `json:"size" gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_cart_user_product_variant"`
	Color     string    `json:"color" gorm:"type:varchar(32);not null;default:'';uniqueIndex:idx_cart_user_product_variant"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the composite identity of the row.
func (c CartItem) Key() CartKey {
	return CartKey{UserID: c.UserID, ProductID: c.ProductID, Size: c.Size, Color: c.Color}
}

// Cart is the read model returned to clients.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}
