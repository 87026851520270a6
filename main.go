package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/consumers"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/database"
	"storefront/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const fulfillmentConsumerTag = "storefront-fulfillment"

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("storefront exited")
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	// --- Database ---
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := repositories.Migrate(db); err != nil {
		return err
	}
	store := repositories.NewGORMStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedCatalog {
		if err := seedCatalog(ctx, store, log); err != nil {
			return err
		}
	}

	// --- RabbitMQ ---
	var (
		publisher services.EventPublisher
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQ.Enabled() {
		mqClient, err = rabbitmq.NewClient(cfg.RabbitMQ, log)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Warn("RABBITMQ_URL is empty, order events are disabled")
	}

	// --- HTTP ---
	srv := server.New(server.Options{
		Store:          store,
		Publisher:      publisher,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.JWTTTL,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	if mqClient != nil {
		consumer := consumers.NewFulfillmentConsumer(srv.Orders, log)
		if err := mqClient.Consume(ctx, cfg.RabbitMQ.FulfillmentQueue, fulfillmentConsumerTag, consumer.Handle); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", cfg.AppPort)
		errCh <- srv.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
	return nil
}

func newLogger(level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(lvl)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", format)
	}
	return log, nil
}

type seedProduct struct {
	category string
	product  models.Product
}

var catalogSeed = []seedProduct{
	{"Electronics", models.Product{Name: "Laptop", Brand: "Northwind", Description: "High performance laptop", Price: decimal.RequireFromString("1200.00"), Rating: 4.6, IsFeatured: true}},
	{"Electronics", models.Product{Name: "Keyboard", Brand: "Northwind", Description: "Mechanical keyboard", Price: decimal.RequireFromString("75.00"), Rating: 4.2}},
	{"Electronics", models.Product{Name: "Mouse", Brand: "Contoso", Description: "Ergonomic wireless mouse", Price: decimal.RequireFromString("25.00"), Rating: 4.0}},
	{"Apparel", models.Product{Name: "Denim Jacket", Brand: "Fabrikam", Description: "Classic blue denim", Price: decimal.RequireFromString("89.90"), Rating: 4.4, IsFeatured: true}},
	{"Apparel", models.Product{Name: "Running Shoes", Brand: "Fabrikam", Description: "Lightweight trail shoes", Price: decimal.RequireFromString("120.00"), Rating: 4.7}},
}

// seedCatalog fills an empty catalog with demo products.
func seedCatalog(ctx context.Context, store repositories.Store, log logrus.FieldLogger) error {
	existing, err := store.Products().List(ctx, repositories.ProductFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("products", len(existing)).Info("Catalog already populated, skipping seed")
		return nil
	}

	return store.Atomic(ctx, func(tx repositories.Store) error {
		for _, seed := range catalogSeed {
			category, err := tx.Categories().Ensure(ctx, seed.category)
			if err != nil {
				return err
			}
			product := seed.product
			product.CategoryID = &category.ID
			if err := tx.Products().Create(ctx, &product); err != nil {
				return fmt.Errorf("error seeding product %s: %w", product.Name, err)
			}
			log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Debug("Seeded product")
		}
		return nil
	})
}
