package services

import (
	"context"

	"tokoadmin/internal/models"
	"tokoadmin/pkg/logger"
)

// EventPublisher sends domain events to the broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.Event) error
}

// publish sends event when a publisher is configured. Failures are logged, never returned:
// the state change has already been persisted.
func publish(ctx context.Context, events EventPublisher, log logger.Logger, event models.Event) {
	if events == nil {
		log.Debug("event publisher not configured, skipping", logger.String("type", event.Type))
		return
	}
	if err := events.PublishEvent(ctx, event); err != nil {
		log.WithContext(ctx).Warn("failed to publish event",
			logger.String("type", event.Type),
			logger.String("order_id", event.OrderID),
			logger.String("product_id", event.ProductID),
			logger.Error(err))
	}
}
