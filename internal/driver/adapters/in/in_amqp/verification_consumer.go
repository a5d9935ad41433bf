package in_amqp

import (
	"context"
	"encoding/json"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
	"github.com/medehssane/tewsilty/internal/shared/ws"

	amqp "github.com/rabbitmq/amqp091-go"
)

// VerificationMessage is an admin verification decision.
type VerificationMessage struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// VerificationConsumer tells the affected driver when an admin verifies or
// rejects their profile.
type VerificationConsumer struct {
	mqConn *mq.RabbitMQ
	hub    *ws.Hub
	log    *logger.Logger
}

func NewVerificationConsumer(mqConn *mq.RabbitMQ, hub *ws.Hub, log *logger.Logger) *VerificationConsumer {
	return &VerificationConsumer{
		mqConn: mqConn,
		hub:    hub,
		log:    log,
	}
}

func (c *VerificationConsumer) Start(ctx context.Context) error {
	return c.mqConn.Consume(ctx, mq.QueueDriverVerification, "driver-service-verification", c.handle)
}

func (c *VerificationConsumer) handle(msg amqp.Delivery) {
	var event VerificationMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "verification_parse_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false)
		return
	}

	if err := c.hub.SendTypedMessage(event.UserID, model.EventVerificationUpdated, event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "notify_verification_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"user_id": event.UserID,
			},
		})
	}

	_ = msg.Ack(false)
}
