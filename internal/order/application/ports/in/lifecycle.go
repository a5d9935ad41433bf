package in

import "context"

// AcceptOrderInput is a driver claiming a pending order. The location fix
// may come with the request; otherwise the last cached fix is used.
type AcceptOrderInput struct {
	OrderID  string   `json:"-"`
	DriverID string   `json:"-"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

type AcceptOrderOutput struct {
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	DriverID string `json:"driver_id"`
}

// AcceptOrderUseCase atomically claims a pending order for a driver.
// Exactly one of N concurrent accepts succeeds.
type AcceptOrderUseCase interface {
	Execute(ctx context.Context, input AcceptOrderInput) (*AcceptOrderOutput, error)
}

type StartOrderInput struct {
	OrderID  string `json:"-"`
	DriverID string `json:"-"`
}

type CompleteOrderInput struct {
	OrderID  string `json:"-"`
	DriverID string `json:"-"`
}

// CancelOrderInput is a driver releasing an accepted order. The order is
// cancelled for good, not returned to the pending pool.
type CancelOrderInput struct {
	OrderID  string `json:"-"`
	DriverID string `json:"-"`
	Reason   string `json:"reason"`
}

// CancelOrderByCustomerInput is a customer withdrawing their own pending order.
type CancelOrderByCustomerInput struct {
	OrderID    string `json:"-"`
	CustomerID string `json:"-"`
	Reason     string `json:"reason"`
}

type LifecycleOutput struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type StartOrderUseCase interface {
	Execute(ctx context.Context, input StartOrderInput) (*LifecycleOutput, error)
}

type CompleteOrderUseCase interface {
	Execute(ctx context.Context, input CompleteOrderInput) (*LifecycleOutput, error)
}

type CancelOrderUseCase interface {
	Execute(ctx context.Context, input CancelOrderInput) (*LifecycleOutput, error)
}

type CancelOrderByCustomerUseCase interface {
	Execute(ctx context.Context, input CancelOrderByCustomerInput) (*LifecycleOutput, error)
}
