package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// List returns the products matching filter.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Preload("Category")

	if filter.Category != nil {
		categories := r.db.Model(&models.Category{}).
			Select("id").
			Where("LOWER(name) LIKE ?", likePattern(*filter.Category))
		q = q.Where("products.category_id IN (?)", categories)
	}
	if filter.Search != nil {
		p := likePattern(*filter.Search)
		q = q.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?)", p, p, p)
	}
	if filter.Brand != nil {
		q = q.Where("LOWER(products.brand) LIKE ?", likePattern(*filter.Brand))
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", *filter.MaxPrice)
	}

	switch filter.SortBy {
	case SortPriceAsc:
		q = q.Order("products.price ASC")
	case SortPriceDesc:
		q = q.Order("products.price DESC")
	case SortRating:
		q = q.Order("products.rating DESC")
	default:
		q = q.Order("products.created_at DESC")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListFeatured returns featured products, newest first.
func (r *GORMProductRepository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// ListByCategory returns the products of one category, newest first.
func (r *GORMProductRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products of category %d: %w", categoryID, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select("name", "description", "brand", "image_url", "price", "rating", "is_featured", "category_id").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product. Order items keep their snapshot.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *GORMCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Ensure returns the category called name, creating it if needed.
func (r *GORMCategoryRepository) Ensure(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure category %q: %w", name, err)
	}
	return &category, nil
}
