package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/medehssane/tewsilty/internal/driver/application/ports/in"
	"github.com/medehssane/tewsilty/internal/driver/application/ports/out"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/observability"
)

// fixes arriving faster than this are dropped
const minFixInterval = 3 * time.Second

// UpdateLocationService implements UpdateLocationUseCase. The fix lands in
// the cache and on the broker; order-service stamps it onto active orders
// and streams it to customers.
type UpdateLocationService struct {
	cache     out.LocationCache
	publisher out.LocationPublisher
	log       *logger.Logger
}

func NewUpdateLocationService(cache out.LocationCache, publisher out.LocationPublisher, log *logger.Logger) *UpdateLocationService {
	return &UpdateLocationService{
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

func (s *UpdateLocationService) Execute(ctx context.Context, input in.UpdateLocationInput) (*in.UpdateLocationOutput, error) {
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		return nil, domain.ErrInvalidCoordinates
	}

	last, err := s.cache.LastFix(ctx, input.DriverID)
	if err != nil {
		// cache read failure should not drop the fix
		s.log.Warn(logger.Entry{
			Action:  "last_fix_read_failed",
			Message: err.Error(),
			Additional: map[string]any{
				"driver_id": input.DriverID,
			},
		})
	} else if last != nil && time.Since(last.UpdatedAt) < minFixInterval {
		return nil, domain.ErrTooFrequent
	}

	if err := s.cache.StoreFix(ctx, input.DriverID, input.Lat, input.Lng); err != nil {
		return nil, fmt.Errorf("store fix: %w", err)
	}

	if err := s.publisher.PublishLocation(ctx, input.DriverID, input.Lat, input.Lng); err != nil {
		s.log.Error(logger.Entry{
			Action:  "publish_location_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"driver_id": input.DriverID,
			},
		})
		return nil, fmt.Errorf("publish location: %w", err)
	}

	observability.LocationUpdates.Inc()

	s.log.Debug(logger.Entry{
		Action:  "location_updated",
		Message: input.DriverID,
		Additional: map[string]any{
			"lat": input.Lat,
			"lng": input.Lng,
		},
	})

	return &in.UpdateLocationOutput{Accepted: true}, nil
}
