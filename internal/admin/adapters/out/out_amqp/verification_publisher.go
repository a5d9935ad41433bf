package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
)

// VerificationPublisher announces admin verification decisions.
type VerificationPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewVerificationPublisher(rabbit *mq.RabbitMQ, log *logger.Logger) *VerificationPublisher {
	return &VerificationPublisher{
		mq:  rabbit,
		log: log,
	}
}

func (p *VerificationPublisher) PublishVerification(ctx context.Context, userID, status string) error {
	body, err := json.Marshal(map[string]string{
		"user_id": userID,
		"status":  status,
	})
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}

	return p.mq.Publish(ctx, mq.OrderExchange, mq.KeyVerificationUpdated, body)
}
