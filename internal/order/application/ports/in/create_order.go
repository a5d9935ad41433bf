package in

import "context"

// CreateOrderInput carries a new delivery request from a customer.
type CreateOrderInput struct {
	CustomerID       string   `json:"-"`
	PickupLocation   string   `json:"pickup_location"`
	PickupLat        *float64 `json:"pickup_lat,omitempty"`
	PickupLng        *float64 `json:"pickup_lng,omitempty"`
	DeliveryLocation string   `json:"delivery_location"`
	Details          string   `json:"details"`
	RecipientPhone   string   `json:"recipient_phone"`
}

type CreateOrderOutput struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type CreateOrderUseCase interface {
	Execute(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error)
}
