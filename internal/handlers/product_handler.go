package handlers

import (
	"fmt"
	"strconv"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
		log:      log,
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes need auth.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/featured", h.HandleListFeatured)
	productRoutes.Get("/categories", h.HandleListCategories)
	productRoutes.Get("/category/:categoryId", h.HandleListByCategory)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// parseProductFilter reads the listing filters. Absent parameters stay nil.
func parseProductFilter(c *fiber.Ctx) (repositories.ProductFilter, error) {
	args := c.Context().QueryArgs()
	text := func(key string) *string {
		if !args.Has(key) {
			return nil
		}
		v := c.Query(key)
		return &v
	}
	price := func(key string) (*decimal.Decimal, error) {
		if !args.Has(key) {
			return nil, nil
		}
		d, err := decimal.NewFromString(c.Query(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		return &d, nil
	}

	filter := repositories.ProductFilter{
		Category: text("category"),
		Search:   text("search"),
		Brand:    text("brand"),
		SortBy:   repositories.ProductSort(c.Query("sortBy")),
	}
	var err error
	if filter.MinPrice, err = price("minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = price("maxPrice"); err != nil {
		return filter, err
	}
	if !filter.SortBy.Valid() {
		return filter, fmt.Errorf("invalid sortBy %q", filter.SortBy)
	}
	return filter, nil
}

// HandleListProducts lists products matching the query filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product filter",
			"error":   err.Error(),
		})
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// HandleListFeatured lists featured products.
func (h *ProductHandler) HandleListFeatured(c *fiber.Ctx) error {
	products, err := h.service.ListFeatured(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// HandleListCategories lists all categories.
func (h *ProductHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(categories)
}

// HandleListByCategory lists the products of one category.
func (h *ProductHandler) HandleListByCategory(c *fiber.Ctx) error {
	categoryID, err := strconv.ParseUint(c.Params("categoryId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category ID",
			"error":   err.Error(),
		})
	}

	products, err := h.service.ListByCategory(c.UserContext(), uint(categoryID))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := parseAndValidate(c, h.validate, &product); !ok {
		return err
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := parseAndValidate(c, h.validate, &product); !ok {
		return err
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, err)
	}

	updated, err := h.service.GetProduct(c.UserContext(), product.ID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(updated)
}

// HandleDeleteProduct soft-deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted", id),
	})
}
