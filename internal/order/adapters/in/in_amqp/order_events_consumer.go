package in_amqp

import (
	"context"
	"encoding/json"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OrderEventsConsumer relays lifecycle events from the broker to the
// customer's WebSocket connections.
type OrderEventsConsumer struct {
	mqConn   *mq.RabbitMQ
	notifier out.OrderNotifier
	log      *logger.Logger
}

func NewOrderEventsConsumer(mqConn *mq.RabbitMQ, notifier out.OrderNotifier, log *logger.Logger) *OrderEventsConsumer {
	return &OrderEventsConsumer{
		mqConn:   mqConn,
		notifier: notifier,
		log:      log,
	}
}

func (c *OrderEventsConsumer) Start(ctx context.Context) error {
	return c.mqConn.Consume(ctx, mq.QueueCustomerOrderEvents, "order-service-events", c.handle)
}

func (c *OrderEventsConsumer) handle(msg amqp.Delivery) {
	var event out.OrderEventData
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "order_event_parse_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false)
		return
	}

	eventType := eventTypeForKey(msg.RoutingKey)
	if eventType == "" {
		c.log.Warn(logger.Entry{
			Action:  "order_event_unknown_key",
			Message: msg.RoutingKey,
			OrderID: event.OrderID,
		})
		_ = msg.Ack(false)
		return
	}

	if err := c.notifier.NotifyCustomer(event.CustomerID, eventType, event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "notify_customer_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			OrderID: event.OrderID,
		})
	}

	_ = msg.Ack(false)
}

func eventTypeForKey(routingKey string) string {
	switch routingKey {
	case mq.KeyOrderAccepted:
		return model.EventOrderAccepted
	case mq.KeyOrderStarted:
		return model.EventOrderStarted
	case mq.KeyOrderCompleted:
		return model.EventOrderCompleted
	case mq.KeyOrderCancelled:
		return model.EventOrderCancelled
	default:
		return ""
	}
}
