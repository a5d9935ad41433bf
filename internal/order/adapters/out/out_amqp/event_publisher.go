package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
)

// EventPublisher publishes order lifecycle events to the topic exchange.
type EventPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewEventPublisher(rabbit *mq.RabbitMQ, log *logger.Logger) *EventPublisher {
	return &EventPublisher{
		mq:  rabbit,
		log: log,
	}
}

func (p *EventPublisher) PublishOrderCreated(ctx context.Context, event out.OrderEventData) error {
	return p.publish(ctx, mq.KeyOrderCreated, event)
}

func (p *EventPublisher) PublishOrderAccepted(ctx context.Context, event out.OrderEventData) error {
	return p.publish(ctx, mq.KeyOrderAccepted, event)
}

func (p *EventPublisher) PublishOrderStarted(ctx context.Context, event out.OrderEventData) error {
	return p.publish(ctx, mq.KeyOrderStarted, event)
}

func (p *EventPublisher) PublishOrderCompleted(ctx context.Context, event out.OrderEventData) error {
	return p.publish(ctx, mq.KeyOrderCompleted, event)
}

func (p *EventPublisher) PublishOrderCancelled(ctx context.Context, event out.OrderEventData) error {
	return p.publish(ctx, mq.KeyOrderCancelled, event)
}

func (p *EventPublisher) publish(ctx context.Context, routingKey string, event out.OrderEventData) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.mq.Publish(ctx, mq.OrderExchange, routingKey, body); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.Debug(logger.Entry{
		Action:  "event_published",
		Message: routingKey,
		OrderID: event.OrderID,
	})

	return nil
}
