package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
)

// StartOrderService moves an accepted order to in_progress.
type StartOrderService struct {
	orderRepo out.OrderRepository
	publisher out.EventPublisher
	log       *logger.Logger
}

func NewStartOrderService(orderRepo out.OrderRepository, publisher out.EventPublisher, log *logger.Logger) *StartOrderService {
	return &StartOrderService{orderRepo: orderRepo, publisher: publisher, log: log}
}

func (s *StartOrderService) Execute(ctx context.Context, input in.StartOrderInput) (*in.LifecycleOutput, error) {
	if err := s.orderRepo.MarkInProgress(ctx, input.OrderID, input.DriverID); err != nil {
		return nil, classifyWriteError(ctx, s.orderRepo, input.OrderID, model.OrderStatusInProgress, err)
	}

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load started order: %w", err)
	}

	publishEvent(ctx, s.log, "publish_order_started_failed", order, input.DriverID, "", s.publisher.PublishOrderStarted)

	s.log.Info(logger.Entry{
		Action:  "order_started",
		Message: fmt.Sprintf("order %s in progress", order.ID),
		OrderID: order.ID,
		Additional: map[string]any{
			"driver_id": input.DriverID,
		},
	})

	return &in.LifecycleOutput{OrderID: order.ID, Status: order.Status}, nil
}

// CompleteOrderService moves an in_progress order to completed.
type CompleteOrderService struct {
	orderRepo out.OrderRepository
	publisher out.EventPublisher
	log       *logger.Logger
}

func NewCompleteOrderService(orderRepo out.OrderRepository, publisher out.EventPublisher, log *logger.Logger) *CompleteOrderService {
	return &CompleteOrderService{orderRepo: orderRepo, publisher: publisher, log: log}
}

func (s *CompleteOrderService) Execute(ctx context.Context, input in.CompleteOrderInput) (*in.LifecycleOutput, error) {
	if err := s.orderRepo.MarkCompleted(ctx, input.OrderID, input.DriverID); err != nil {
		return nil, classifyWriteError(ctx, s.orderRepo, input.OrderID, model.OrderStatusCompleted, err)
	}

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load completed order: %w", err)
	}

	publishEvent(ctx, s.log, "publish_order_completed_failed", order, input.DriverID, "", s.publisher.PublishOrderCompleted)

	s.log.Info(logger.Entry{
		Action:  "order_completed",
		Message: fmt.Sprintf("order %s completed", order.ID),
		OrderID: order.ID,
		Additional: map[string]any{
			"driver_id": input.DriverID,
		},
	})

	return &in.LifecycleOutput{OrderID: order.ID, Status: order.Status}, nil
}

// CancelOrderService lets the assigned driver cancel an accepted order.
// Cancellation is terminal; the order is not returned to the pool.
type CancelOrderService struct {
	orderRepo out.OrderRepository
	publisher out.EventPublisher
	log       *logger.Logger
}

func NewCancelOrderService(orderRepo out.OrderRepository, publisher out.EventPublisher, log *logger.Logger) *CancelOrderService {
	return &CancelOrderService{orderRepo: orderRepo, publisher: publisher, log: log}
}

func (s *CancelOrderService) Execute(ctx context.Context, input in.CancelOrderInput) (*in.LifecycleOutput, error) {
	if err := s.orderRepo.CancelByDriver(ctx, input.OrderID, input.DriverID, input.Reason); err != nil {
		return nil, classifyWriteError(ctx, s.orderRepo, input.OrderID, model.OrderStatusCancelled, err)
	}

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load cancelled order: %w", err)
	}

	publishEvent(ctx, s.log, "publish_order_cancelled_failed", order, input.DriverID, input.Reason, s.publisher.PublishOrderCancelled)

	s.log.Info(logger.Entry{
		Action:  "order_cancelled_by_driver",
		Message: fmt.Sprintf("order %s cancelled", order.ID),
		OrderID: order.ID,
		Additional: map[string]any{
			"driver_id": input.DriverID,
			"reason":    input.Reason,
		},
	})

	return &in.LifecycleOutput{OrderID: order.ID, Status: order.Status}, nil
}

// CancelOrderByCustomerService lets a customer withdraw their own order
// while it is still pending.
type CancelOrderByCustomerService struct {
	orderRepo out.OrderRepository
	publisher out.EventPublisher
	log       *logger.Logger
}

func NewCancelOrderByCustomerService(orderRepo out.OrderRepository, publisher out.EventPublisher, log *logger.Logger) *CancelOrderByCustomerService {
	return &CancelOrderByCustomerService{orderRepo: orderRepo, publisher: publisher, log: log}
}

func (s *CancelOrderByCustomerService) Execute(ctx context.Context, input in.CancelOrderByCustomerInput) (*in.LifecycleOutput, error) {
	if err := s.orderRepo.CancelByCustomer(ctx, input.OrderID, input.CustomerID, input.Reason); err != nil {
		return nil, classifyWriteError(ctx, s.orderRepo, input.OrderID, model.OrderStatusCancelled, err)
	}

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load cancelled order: %w", err)
	}

	publishEvent(ctx, s.log, "publish_order_cancelled_failed", order, "", input.Reason, s.publisher.PublishOrderCancelled)

	s.log.Info(logger.Entry{
		Action:  "order_cancelled_by_customer",
		Message: fmt.Sprintf("order %s cancelled", order.ID),
		OrderID: order.ID,
		Additional: map[string]any{
			"customer_id": input.CustomerID,
		},
	})

	return &in.LifecycleOutput{OrderID: order.ID, Status: order.Status}, nil
}

// classifyWriteError keeps sentinel errors intact for the transport layer.
// When the conditional update missed, the row is re-read: a current status
// that could never reach the target means the caller asked for an illegal
// move; otherwise somebody else changed the row first.
func classifyWriteError(ctx context.Context, repo out.OrderRepository, orderID, target string, err error) error {
	if errors.Is(err, domain.ErrOrderConflict) {
		order, findErr := repo.FindByID(ctx, orderID)
		if findErr == nil && !domain.CanTransition(order.Status, target) {
			return domain.ErrInvalidTransition
		}
		return domain.ErrOrderConflict
	}
	if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrNotOrderDriver) {
		return err
	}
	return fmt.Errorf("update order: %w", err)
}

func publishEvent(ctx context.Context, log *logger.Logger, failAction string, order *domain.Order, driverID, reason string, fn func(context.Context, out.OrderEventData) error) {
	event := out.OrderEventData{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		DriverID:   driverID,
		Status:     order.Status,
		Reason:     reason,
		Timestamp:  time.Now().Unix(),
	}
	if err := fn(ctx, event); err != nil {
		log.Error(logger.Entry{
			Action:  failAction,
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			OrderID: order.ID,
		})
	}
}
