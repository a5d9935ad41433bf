package in

import "context"

// UpdateLocationInput is one position fix from a driver device.
type UpdateLocationInput struct {
	DriverID string  `json:"-"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type UpdateLocationOutput struct {
	Accepted bool `json:"accepted"`
}

// UpdateLocationUseCase validates and rate-limits a fix, then writes it to
// the cache and publishes it for order-service to fan out to customers.
type UpdateLocationUseCase interface {
	Execute(ctx context.Context, input UpdateLocationInput) (*UpdateLocationOutput, error)
}
