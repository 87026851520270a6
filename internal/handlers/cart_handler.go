package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
		log:      log,
	}
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Put("/update", h.HandleUpdateItem)
	cartRoutes.Delete("/remove/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/clear", h.HandleClear)
}

// HandleGetCart returns the caller's cart and its total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product variant to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req services.AddCartItemInput
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	item, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added to cart",
		"item":    item,
	})
}

// HandleUpdateItem sets the quantity of a cart row.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req services.UpdateCartItemInput
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	item, err := h.service.UpdateItem(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart item updated",
		"item":    item,
	})
}

// HandleRemoveItem deletes one cart row, identified by product and the size/color query.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	key := models.CartKey{
		UserID:    middleware.UserID(c),
		ProductID: c.Params("productId"),
		Size:      c.Query("size"),
		Color:     c.Query("color"),
	}
	if err := h.service.RemoveItem(c.UserContext(), key); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
