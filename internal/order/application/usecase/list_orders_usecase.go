package usecase

import (
	"context"
	"fmt"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
)

const pendingPoolLimit = 100

// ListCustomerOrdersService returns only the caller's own orders; the
// customer id comes from the session, never from the request.
type ListCustomerOrdersService struct {
	orderRepo out.OrderRepository
	log       *logger.Logger
}

func NewListCustomerOrdersService(orderRepo out.OrderRepository, log *logger.Logger) *ListCustomerOrdersService {
	return &ListCustomerOrdersService{orderRepo: orderRepo, log: log}
}

func (s *ListCustomerOrdersService) Execute(ctx context.Context, input in.ListCustomerOrdersInput) (*in.ListOrdersOutput, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	return &in.ListOrdersOutput{Orders: orders}, nil
}

// ListDriverOrdersService serves the two driver views: the shared pending
// pool and the driver's own assignments.
type ListDriverOrdersService struct {
	orderRepo out.OrderRepository
	log       *logger.Logger
}

func NewListDriverOrdersService(orderRepo out.OrderRepository, log *logger.Logger) *ListDriverOrdersService {
	return &ListDriverOrdersService{orderRepo: orderRepo, log: log}
}

func (s *ListDriverOrdersService) Execute(ctx context.Context, input in.ListDriverOrdersInput) (*in.ListOrdersOutput, error) {
	var (
		orders []*domain.Order
		err    error
	)

	switch input.Scope {
	case "available", "":
		orders, err = s.orderRepo.FindPending(ctx, pendingPoolLimit)
	case "mine":
		orders, err = s.orderRepo.FindByDriver(ctx, input.DriverID)
	default:
		return nil, fmt.Errorf("unknown scope %q", input.Scope)
	}
	if err != nil {
		return nil, fmt.Errorf("list driver orders: %w", err)
	}

	return &in.ListOrdersOutput{Orders: orders}, nil
}

// GetOrderService reads one order with role scoping. Customers see their
// own orders; drivers see the pending pool and their own assignments;
// anything else, admins included, reads as not found. Admin access covers
// verification records only, never orders.
type GetOrderService struct {
	orderRepo out.OrderRepository
	log       *logger.Logger
}

func NewGetOrderService(orderRepo out.OrderRepository, log *logger.Logger) *GetOrderService {
	return &GetOrderService{orderRepo: orderRepo, log: log}
}

func (s *GetOrderService) Execute(ctx context.Context, input in.GetOrderInput) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	switch input.Role {
	case model.RoleCustomer:
		if !order.BelongsToCustomer(input.UserID) {
			return nil, domain.ErrOrderNotFound
		}
	case model.RoleDriver:
		if order.Status != model.OrderStatusPending && !order.AssignedTo(input.UserID) {
			return nil, domain.ErrOrderNotFound
		}
	default:
		return nil, domain.ErrOrderNotFound
	}

	return order, nil
}
