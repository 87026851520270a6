package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products in the catalog.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Brand       string          `json:"brand" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null" validate:"required,gt=0"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
	IsFeatured  bool            `json:"is_featured" gorm:"index"`
	CategoryID  *uint           `json:"category_id,omitempty" gorm:"index"`
	Category    *Category       `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL" validate:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}
