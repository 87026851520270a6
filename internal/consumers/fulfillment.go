// Package consumers holds the message handlers fed by the broker.
package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

const handleTimeout = 10 * time.Second

// FulfillmentApplier applies warehouse status updates to orders.
type FulfillmentApplier interface {
	ApplyFulfillment(ctx context.Context, update models.FulfillmentUpdate) (*models.Order, error)
}

// FulfillmentConsumer turns fulfillment messages into order status changes.
type FulfillmentConsumer struct {
	orders   FulfillmentApplier
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewFulfillmentConsumer creates a new FulfillmentConsumer.
func NewFulfillmentConsumer(orders FulfillmentApplier, log logrus.FieldLogger) *FulfillmentConsumer {
	return &FulfillmentConsumer{
		orders:   orders,
		validate: validator.New(),
		log:      log,
	}
}

// Handle is a rabbitmq.Handler. Malformed messages, unknown orders and
// disallowed transitions are discarded; everything else is retried.
func (c *FulfillmentConsumer) Handle(msg amqp.Delivery) error {
	var update models.FulfillmentUpdate
	if err := json.Unmarshal(msg.Body, &update); err != nil {
		return fmt.Errorf("malformed fulfillment message: %v: %w", err, rabbitmq.ErrDiscard)
	}
	if err := c.validate.Struct(update); err != nil {
		return fmt.Errorf("invalid fulfillment message: %v: %w", err, rabbitmq.ErrDiscard)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	order, err := c.orders.ApplyFulfillment(ctx, update)
	if err != nil {
		var invalid *services.InvalidTransitionError
		if errors.As(err, &invalid) || errors.Is(err, services.ErrOrderNotFound) {
			return fmt.Errorf("fulfillment for order %s rejected: %v: %w", update.OrderID, err, rabbitmq.ErrDiscard)
		}
		return fmt.Errorf("fulfillment for order %s failed: %w", update.OrderID, err)
	}

	c.log.WithFields(logrus.Fields{"order_id": order.ID, "status": order.Status}).Debug("Fulfillment update applied")
	return nil
}
