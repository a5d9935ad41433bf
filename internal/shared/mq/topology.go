package mq

import (
	"context"
	"fmt"

	"github.com/medehssane/tewsilty/internal/shared/logger"
)

// Exchange and queue names shared by order-service and driver-service.
const (
	OrderExchange = "order_topic"

	// driver-service: new pending orders fan out to connected drivers
	QueueDriverOrderCreated = "driver.order_created"
	// driver-service: verification decisions fan out to the affected driver
	QueueDriverVerification = "driver.verification_updated"
	// order-service: lifecycle transitions fan out to the order's customer
	QueueCustomerOrderEvents = "customer.order_events"
	// order-service: driver position fixes fan out to customers of active orders
	QueueCustomerLocation = "customer.location_updates"
)

// Routing keys published on OrderExchange.
const (
	KeyOrderCreated        = "order.created"
	KeyOrderAccepted       = "order.accepted"
	KeyOrderStarted        = "order.started"
	KeyOrderCompleted      = "order.completed"
	KeyOrderCancelled      = "order.cancelled"
	KeyLocationUpdated     = "location.updated"
	KeyVerificationUpdated = "driver.verification"
)

// SetupTopology declares the exchange, queues and bindings. Declarations are
// idempotent, so every service runs this on startup.
func SetupTopology(ctx context.Context, mq *RabbitMQ, log *logger.Logger) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	if err := ch.ExchangeDeclare(OrderExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", OrderExchange, err)
	}

	bindings := []struct {
		queue string
		keys  []string
	}{
		{QueueDriverOrderCreated, []string{KeyOrderCreated}},
		{QueueDriverVerification, []string{KeyVerificationUpdated}},
		{QueueCustomerOrderEvents, []string{KeyOrderAccepted, KeyOrderStarted, KeyOrderCompleted, KeyOrderCancelled}},
		{QueueCustomerLocation, []string{KeyLocationUpdated}},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}
		for _, key := range b.keys {
			if err := ch.QueueBind(b.queue, key, OrderExchange, false, nil); err != nil {
				return fmt.Errorf("bind %s to %s: %w", b.queue, key, err)
			}
		}
	}

	log.Info(logger.Entry{
		Action:  "rabbitmq_topology_ready",
		Message: OrderExchange,
	})

	return nil
}
