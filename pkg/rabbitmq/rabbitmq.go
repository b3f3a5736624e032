// Package rabbitmq publishes and consumes domain events over a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tokoadmin/internal/models"
	"tokoadmin/pkg/logger"

	amqp "github.com/streadway/amqp"
)

// Routing key patterns the event queue is bound to.
var bindings = []string{"order.*", "stock.*"}

// ErrClosed is returned when the channel is not available.
var ErrClosed = errors.New("rabbitmq channel is not available")

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      logger.Logger

	mu sync.Mutex
}

// EventHandler processes one consumed event. A returned error requeues the message.
type EventHandler func(ctx context.Context, event models.Event) error

// NewClient connects to RabbitMQ and declares the event exchange, queue and bindings.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("rabbitmq client connected",
		logger.String("exchange", cfg.Exchange),
		logger.String("queue", cfg.Queue))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		log:      log.Named("rabbitmq"),
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}

	for _, key := range bindings {
		if err := ch.QueueBind(cfg.Queue, key, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", key, cfg.Queue, err)
		}
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}
	return errors.Join(errs...)
}

// Publishing builds the persistent JSON message for event.
func Publishing(event models.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	ts := event.Occurred
	if ts.IsZero() {
		ts = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
	}, nil
}

// PublishEvent publishes event to the exchange with its type as routing key.
func (c *Client) PublishEvent(ctx context.Context, event models.Event) error {
	msg, err := Publishing(event)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return ErrClosed
	}
	if err := c.channel.Publish(
		c.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	c.log.WithContext(ctx).Debug("event published",
		logger.String("type", event.Type),
		logger.String("order_id", event.OrderID),
		logger.String("product_id", event.ProductID))
	return nil
}

// ConsumeEvents starts a goroutine dispatching queued events to handler until
// ctx is done or the channel closes.
func (c *Client) ConsumeEvents(ctx context.Context, handler EventHandler) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return ErrClosed
	}

	msgs, err := ch.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for events", logger.String("queue", c.queue))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.log.Warn("event delivery channel closed", logger.String("queue", c.queue))
					return
				}
				Dispatch(ctx, msg, handler, c.log)
			}
		}
	}()
	return nil
}

// Dispatch decodes msg and acknowledges it according to the handler's outcome.
// Bodies that are not valid events are dropped without requeue.
func Dispatch(ctx context.Context, msg amqp.Delivery, handler EventHandler, log logger.Logger) {
	var event models.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Type == "" {
		log.Warn("dropping malformed event",
			logger.Any("delivery_tag", msg.DeliveryTag),
			logger.String("routing_key", msg.RoutingKey),
			logger.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", logger.Error(nackErr))
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		log.Warn("event handler failed, requeueing",
			logger.String("type", event.Type),
			logger.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", logger.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Error("failed to ack message", logger.Error(err))
	}
}
