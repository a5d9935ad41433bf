package in_amqp

import (
	"context"
	"encoding/json"

	"github.com/medehssane/tewsilty/internal/model"
	orderout "github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
	"github.com/medehssane/tewsilty/internal/shared/ws"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OrderCreatedConsumer announces new pending orders to every connected
// driver so they can race to accept.
type OrderCreatedConsumer struct {
	mqConn *mq.RabbitMQ
	hub    *ws.Hub
	log    *logger.Logger
}

func NewOrderCreatedConsumer(mqConn *mq.RabbitMQ, hub *ws.Hub, log *logger.Logger) *OrderCreatedConsumer {
	return &OrderCreatedConsumer{
		mqConn: mqConn,
		hub:    hub,
		log:    log,
	}
}

func (c *OrderCreatedConsumer) Start(ctx context.Context) error {
	return c.mqConn.Consume(ctx, mq.QueueDriverOrderCreated, "driver-service-orders", c.handle)
}

func (c *OrderCreatedConsumer) handle(msg amqp.Delivery) {
	var event orderout.OrderEventData
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "order_created_parse_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false)
		return
	}

	if err := c.hub.SendTypedToRole(model.RoleDriver, model.EventOrderCreated, event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "notify_drivers_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			OrderID: event.OrderID,
		})
	}

	_ = msg.Ack(false)
}
