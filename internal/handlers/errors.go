package handlers

import (
	"context"
	"errors"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError maps service errors to HTTP responses.
func respondError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	var (
		invalid     *services.InvalidTransitionError
		unavailable *services.ProductUnavailableError
		txErr       *services.TransactionError
	)

	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cart is empty", "error": err.Error()})
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found", "error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied", "error": err.Error()})
	case errors.Is(err, services.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found", "error": err.Error()})
	case errors.Is(err, services.ErrCartItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Cart item not found", "error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Registration failed", "error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication failed", "error": err.Error()})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":        "Order status does not allow this change",
			"error":          err.Error(),
			"current_status": invalid.Current,
		})
	case errors.As(err, &unavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":    "A product in the cart is no longer available",
			"error":      err.Error(),
			"product_id": unavailable.ProductID,
		})
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).WithField("path", c.Path()).Warn("Request deadline exceeded")
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{"message": "Request timed out", "error": "deadline exceeded"})
	case errors.As(err, &txErr):
		log.WithError(err).WithField("path", c.Path()).Error("Transaction failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Transaction failed", "error": txErr.Op})
	default:
		log.WithError(err).WithField("path", c.Path()).Error("Request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}
}
