package out

import "context"

// OrderEventData is the payload published for every lifecycle transition.
type OrderEventData struct {
	OrderID          string   `json:"order_id"`
	CustomerID       string   `json:"customer_id"`
	DriverID         string   `json:"driver_id,omitempty"`
	Status           string   `json:"status"`
	PickupLocation   string   `json:"pickup_location,omitempty"`
	DeliveryLocation string   `json:"delivery_location,omitempty"`
	Details          string   `json:"details,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
	Timestamp        int64    `json:"timestamp"`
}

// EventPublisher fans lifecycle transitions out to the message broker.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderEventData) error
	PublishOrderAccepted(ctx context.Context, event OrderEventData) error
	PublishOrderStarted(ctx context.Context, event OrderEventData) error
	PublishOrderCompleted(ctx context.Context, event OrderEventData) error
	PublishOrderCancelled(ctx context.Context, event OrderEventData) error
}
