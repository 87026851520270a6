// Package server assembles the Fiber application and its routes.
package server

import (
	"context"
	"io"
	"time"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	healthTimeout         = 2 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Options wires the server to its collaborators.
type Options struct {
	Store     repositories.Store
	Publisher services.EventPublisher // nil disables order events
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *logrus.Logger
	Ping      func(ctx context.Context) error

	// RequestTimeout bounds the context handed to services under /api/v1.
	// Zero means defaultRequestTimeout.
	RequestTimeout time.Duration
}

// Server is the HTTP application plus the services behind it.
type Server struct {
	App      *fiber.App
	Auth     *services.AuthService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService

	accessLog io.Closer
}

// New builds the Fiber app with middleware, health, metrics and the /api/v1 routes.
func New(opts Options) *Server {
	log := opts.Logger
	accessLog := log.WriterLevel(logrus.InfoLevel)

	s := &Server{
		Auth:      services.NewAuthService(opts.Store.Users(), opts.JWTSecret, opts.TokenTTL, log),
		Products:  services.NewProductService(opts.Store.Products(), opts.Store.Categories()),
		Carts:     services.NewCartService(opts.Store, log),
		Orders:    services.NewOrderService(opts.Store, opts.Publisher, log),
		accessLog: accessLog,
	}

	app := fiber.New(fiber.Config{AppName: "storefront"})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		Output: accessLog,
	}))
	app.Use(middleware.Metrics())

	app.Get("/health", s.handleHealth(opts.Ping, opts.Publisher != nil))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	apiV1 := app.Group("/api/v1", timeout.New(func(c *fiber.Ctx) error { return c.Next() }, requestTimeout))
	auth := middleware.AuthRequired(s.Auth, log)

	handlers.NewAuthHandler(s.Auth, log).RegisterRoutes(apiV1)
	handlers.NewProductHandler(s.Products, log).RegisterRoutes(apiV1, auth)
	handlers.NewCartHandler(s.Carts, log).RegisterRoutes(apiV1, auth)
	handlers.NewOrderHandler(s.Orders, log).RegisterRoutes(apiV1, auth)

	s.App = app
	return s
}

func (s *Server) handleHealth(ping func(ctx context.Context) error, eventsEnabled bool) fiber.Handler {
	events := "disabled"
	if eventsEnabled {
		events = "enabled"
	}
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events,
		})
	}
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.App.ShutdownWithContext(ctx)
	s.accessLog.Close()
	return err
}
