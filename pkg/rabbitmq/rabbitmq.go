package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// FulfillmentBinding is the routing pattern bound to the fulfillment queue.
const FulfillmentBinding = "fulfillment.*"

// ErrDiscard marks a handler error for a message that must not be redelivered.
var ErrDiscard = errors.New("discard message")

// Handler processes one delivery. A nil return acks it; an error wrapping
// ErrDiscard rejects it; any other error requeues it.
type Handler func(msg amqp.Delivery) error

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	log     logrus.FieldLogger
	mu      sync.Mutex // guards publishes on channel
}

// Config holds RabbitMQ connection details. An empty URL disables messaging.
type Config struct {
	URL              string
	Exchange         string
	FulfillmentQueue string
}

// Enabled reports whether a broker is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// NewClient creates a new RabbitMQ client.
// It connects, declares the order topic exchange and binds the fulfillment queue to it.
func NewClient(cfg Config, log logrus.FieldLogger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"exchange": cfg.Exchange,
		"queue":    cfg.FulfillmentQueue,
	}).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	if _, err := ch.QueueDeclare(
		cfg.FulfillmentQueue, // name
		true,                 // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // no-wait
		nil,                  // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.FulfillmentQueue, err)
	}

	if err := ch.QueueBind(cfg.FulfillmentQueue, FulfillmentBinding, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.FulfillmentQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message to the order exchange.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

// Consume starts a goroutine that feeds deliveries from queue to handler until
// ctx is done or the channel closes.
func (c *Client) Consume(ctx context.Context, queue, consumerTag string, handler Handler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queue,       // queue
		consumerTag, // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log := c.log.WithField("queue", queue)
	log.Info("Waiting for messages")

	go func() {
		for {
			select {
			case <-ctx.Done():
				if err := c.channel.Cancel(consumerTag, false); err != nil {
					log.WithError(err).Warn("Failed to cancel consumer")
				}
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Warn("Delivery channel closed")
					return
				}
				Dispatch(msg, handler, log)
			}
		}
	}()
	return nil
}

// Dispatch runs handler on msg and settles the delivery according to its result.
func Dispatch(msg amqp.Delivery, handler Handler, log logrus.FieldLogger) {
	entry := log.WithField("delivery_tag", msg.DeliveryTag)

	err := handler(msg)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			entry.WithError(ackErr).Error("Failed to ack message")
		}
	case errors.Is(err, ErrDiscard):
		entry.WithError(err).Warn("Discarding message")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			entry.WithError(nackErr).Error("Failed to reject message")
		}
	default:
		entry.WithError(err).Error("Message processing failed, requeueing")
		if nackErr := msg.Nack(false, true); nackErr != nil {
			entry.WithError(nackErr).Error("Failed to requeue message")
		}
	}
}
