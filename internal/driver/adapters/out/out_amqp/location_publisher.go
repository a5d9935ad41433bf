package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/mq"
)

// LocationPublisher publishes driver fixes for order-service to consume.
type LocationPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewLocationPublisher(rabbit *mq.RabbitMQ, log *logger.Logger) *LocationPublisher {
	return &LocationPublisher{
		mq:  rabbit,
		log: log,
	}
}

func (p *LocationPublisher) PublishLocation(ctx context.Context, driverID string, lat, lng float64) error {
	body, err := json.Marshal(map[string]any{
		"driver_id": driverID,
		"lat":       lat,
		"lng":       lng,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}

	return p.mq.Publish(ctx, mq.OrderExchange, mq.KeyLocationUpdated, body)
}
