package middleware

import (
	"time"

	"storefront/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records the count and latency of every request by matched route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		metrics.ObserveHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
