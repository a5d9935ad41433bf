package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/observability"
	"github.com/medehssane/tewsilty/internal/shared/utils"
)

// CreateOrderService implements CreateOrderUseCase.
type CreateOrderService struct {
	orderRepo out.OrderRepository
	publisher out.EventPublisher
	log       *logger.Logger
}

func NewCreateOrderService(orderRepo out.OrderRepository, publisher out.EventPublisher, log *logger.Logger) *CreateOrderService {
	return &CreateOrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		log:       log,
	}
}

// Execute creates a pending order and announces it to drivers.
func (s *CreateOrderService) Execute(ctx context.Context, input in.CreateOrderInput) (*in.CreateOrderOutput, error) {
	if input.PickupLocation == "" || input.DeliveryLocation == "" || input.RecipientPhone == "" {
		return nil, domain.ErrMissingField
	}

	if input.PickupLat != nil || input.PickupLng != nil {
		if input.PickupLat == nil || input.PickupLng == nil {
			return nil, domain.ErrInvalidCoordinates
		}
		if !validCoordinates(*input.PickupLat, *input.PickupLng) {
			return nil, domain.ErrInvalidCoordinates
		}
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:               utils.NewUUID(),
		CustomerID:       input.CustomerID,
		PickupLocation:   input.PickupLocation,
		PickupLat:        input.PickupLat,
		PickupLng:        input.PickupLng,
		DeliveryLocation: input.DeliveryLocation,
		Details:          input.Details,
		RecipientPhone:   input.RecipientPhone,
		Status:           model.OrderStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.log.Error(logger.Entry{
			Action:  "create_order_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"customer_id": input.CustomerID,
			},
		})
		return nil, fmt.Errorf("create order: %w", err)
	}

	observability.OrdersCreated.Inc()

	// fan out to drivers; order creation succeeds even if publishing fails
	event := out.OrderEventData{
		OrderID:          order.ID,
		CustomerID:       order.CustomerID,
		Status:           order.Status,
		PickupLocation:   order.PickupLocation,
		DeliveryLocation: order.DeliveryLocation,
		Details:          order.Details,
		Timestamp:        now.Unix(),
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.log.Error(logger.Entry{
			Action:  "publish_order_created_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			OrderID: order.ID,
		})
	}

	s.log.Info(logger.Entry{
		Action:  "order_created",
		Message: fmt.Sprintf("order %s created", order.ID),
		OrderID: order.ID,
		Additional: map[string]any{
			"customer_id": order.CustomerID,
		},
	})

	return &in.CreateOrderOutput{
		OrderID:   order.ID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}, nil
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
