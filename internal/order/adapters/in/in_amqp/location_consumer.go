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

// LocationMessage is a driver position fix published by driver-service.
type LocationMessage struct {
	DriverID  string  `json:"driver_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

// LocationConsumer writes driver fixes onto the driver's active orders and
// streams them to the customers watching those orders.
type LocationConsumer struct {
	mqConn    *mq.RabbitMQ
	orderRepo out.OrderRepository
	notifier  out.OrderNotifier
	log       *logger.Logger
}

func NewLocationConsumer(
	mqConn *mq.RabbitMQ,
	orderRepo out.OrderRepository,
	notifier out.OrderNotifier,
	log *logger.Logger,
) *LocationConsumer {
	return &LocationConsumer{
		mqConn:    mqConn,
		orderRepo: orderRepo,
		notifier:  notifier,
		log:       log,
	}
}

func (c *LocationConsumer) Start(ctx context.Context) error {
	return c.mqConn.Consume(ctx, mq.QueueCustomerLocation, "order-service-locations", func(msg amqp.Delivery) {
		c.handle(ctx, msg)
	})
}

func (c *LocationConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	var fix LocationMessage
	if err := json.Unmarshal(msg.Body, &fix); err != nil {
		c.log.Error(logger.Entry{
			Action:  "location_parse_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false)
		return
	}

	orders, err := c.orderRepo.UpdateDriverPosition(ctx, fix.DriverID, fix.Lat, fix.Lng)
	if err != nil {
		c.log.Error(logger.Entry{
			Action:  "update_driver_position_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"driver_id": fix.DriverID,
			},
		})
		// requeue once; the fix is still useful if the DB hiccuped
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	for _, order := range orders {
		payload := map[string]any{
			"order_id":  order.ID,
			"driver_id": fix.DriverID,
			"lat":       fix.Lat,
			"lng":       fix.Lng,
			"timestamp": fix.Timestamp,
		}
		if err := c.notifier.NotifyCustomer(order.CustomerID, model.EventLocationUpdated, payload); err != nil {
			c.log.Error(logger.Entry{
				Action:  "notify_location_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
				OrderID: order.ID,
			})
		}
	}

	_ = msg.Ack(false)
}
