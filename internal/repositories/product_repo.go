package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// ProductSort selects the ordering of a product listing.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortRating    ProductSort = "rating"
)

// Valid reports whether s is a known sort order. The empty value means newest.
func (s ProductSort) Valid() bool {
	switch s {
	case "", SortNewest, SortPriceAsc, SortPriceDesc, SortRating:
		return true
	}
	return false
}

// ProductFilter narrows a product listing. A nil field means the filter is absent.
type ProductFilter struct {
	Category *string
	Search   *string
	Brand    *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   ProductSort
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Ensure(ctx context.Context, name string) (*models.Category, error)
}
