package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/observability"
)

// a cached fix older than this cannot be used to accept
const maxFixAge = 2 * time.Minute

// AcceptOrderService implements AcceptOrderUseCase. The claim is a single
// conditional UPDATE, so when several drivers race for the same order
// exactly one wins; everyone else gets domain.ErrOrderConflict.
type AcceptOrderService struct {
	orderRepo out.OrderRepository
	directory out.DriverDirectory
	locator   out.DriverLocator
	publisher out.EventPublisher
	log       *logger.Logger
}

func NewAcceptOrderService(
	orderRepo out.OrderRepository,
	directory out.DriverDirectory,
	locator out.DriverLocator,
	publisher out.EventPublisher,
	log *logger.Logger,
) *AcceptOrderService {
	return &AcceptOrderService{
		orderRepo: orderRepo,
		directory: directory,
		locator:   locator,
		publisher: publisher,
		log:       log,
	}
}

func (s *AcceptOrderService) Execute(ctx context.Context, input in.AcceptOrderInput) (*in.AcceptOrderOutput, error) {
	verified, err := s.directory.IsVerified(ctx, input.DriverID)
	if err != nil {
		return nil, fmt.Errorf("check driver verification: %w", err)
	}
	if !verified {
		return nil, domain.ErrDriverNotVerified
	}

	lat, lng, err := s.resolveFix(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.ClaimPending(ctx, input.OrderID, input.DriverID, lat, lng); err != nil {
		if errors.Is(err, domain.ErrOrderConflict) {
			observability.AcceptConflicts.Inc()
			s.log.Info(logger.Entry{
				Action:  "accept_order_conflict",
				Message: "order no longer pending",
				OrderID: input.OrderID,
				Additional: map[string]any{
					"driver_id": input.DriverID,
				},
			})
			return nil, domain.ErrOrderConflict
		}
		return nil, fmt.Errorf("claim order: %w", err)
	}

	observability.OrdersAccepted.Inc()

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load accepted order: %w", err)
	}

	event := out.OrderEventData{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		DriverID:   input.DriverID,
		Status:     order.Status,
		Lat:        &lat,
		Lng:        &lng,
		Timestamp:  time.Now().Unix(),
	}
	if err := s.publisher.PublishOrderAccepted(ctx, event); err != nil {
		s.log.Error(logger.Entry{
			Action:  "publish_order_accepted_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			OrderID: order.ID,
		})
	}

	s.log.Info(logger.Entry{
		Action:  "order_accepted",
		Message: fmt.Sprintf("order %s accepted", order.ID),
		OrderID: order.ID,
		Additional: map[string]any{
			"driver_id": input.DriverID,
		},
	})

	return &in.AcceptOrderOutput{
		OrderID:  order.ID,
		Status:   order.Status,
		DriverID: input.DriverID,
	}, nil
}

// resolveFix takes the location from the request body when present, else
// falls back to the driver's last cached fix if it is fresh enough.
func (s *AcceptOrderService) resolveFix(ctx context.Context, input in.AcceptOrderInput) (float64, float64, error) {
	if input.Lat != nil && input.Lng != nil {
		if !validCoordinates(*input.Lat, *input.Lng) {
			return 0, 0, domain.ErrInvalidCoordinates
		}
		return *input.Lat, *input.Lng, nil
	}

	fix, err := s.locator.LastFix(ctx, input.DriverID)
	if err != nil {
		return 0, 0, fmt.Errorf("load last fix: %w", err)
	}
	if fix == nil || time.Since(fix.UpdatedAt) > maxFixAge {
		return 0, 0, domain.ErrLocationRequired
	}

	return fix.Lat, fix.Lng, nil
}
