package in

import (
	"context"

	"github.com/medehssane/tewsilty/internal/order/domain"
)

// ListCustomerOrdersInput returns only the caller's own orders.
type ListCustomerOrdersInput struct {
	CustomerID string
}

// ListDriverOrdersInput covers the driver surfaces: the pending pool and
// the driver's own assignments.
type ListDriverOrdersInput struct {
	DriverID string
	// Scope is "available" (pending pool) or "mine" (assigned to driver)
	Scope string
}

type ListOrdersOutput struct {
	Orders []*domain.Order `json:"orders"`
}

type ListCustomerOrdersUseCase interface {
	Execute(ctx context.Context, input ListCustomerOrdersInput) (*ListOrdersOutput, error)
}

type ListDriverOrdersUseCase interface {
	Execute(ctx context.Context, input ListDriverOrdersInput) (*ListOrdersOutput, error)
}

// GetOrderInput reads one order, role-scoped: customers see their own,
// drivers see pending orders and their own assignments.
type GetOrderInput struct {
	OrderID string
	UserID  string
	Role    string
}

type GetOrderUseCase interface {
	Execute(ctx context.Context, input GetOrderInput) (*domain.Order, error)
}
