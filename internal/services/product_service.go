package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
	}
}

func translateProductErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

// ListProducts returns the products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.List(ctx, filter)
}

// ListFeatured returns the featured products.
func (s *ProductService) ListFeatured(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListFeatured(ctx)
}

// ListByCategory returns the products of one category.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	return s.repo.ListByCategory(ctx, categoryID)
}

// ListCategories returns every category.
func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateProductErr(err)
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product. Placed orders keep the price they were bought at.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	return translateProductErr(s.repo.Update(ctx, product))
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return translateProductErr(s.repo.Delete(ctx, id))
}
