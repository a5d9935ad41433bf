package usecase

import (
	"context"
	"fmt"

	adminin "github.com/medehssane/tewsilty/internal/admin/application/ports/in"
	adminout "github.com/medehssane/tewsilty/internal/admin/application/ports/out"
	driverout "github.com/medehssane/tewsilty/internal/driver/application/ports/out"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/logger"
)

// VerifyDriverService applies an admin decision, announces it over the
// broker and pushes it to the affected driver.
type VerifyDriverService struct {
	driverRepo driverout.DriverRepository
	publisher  adminout.VerificationPublisher
	log        *logger.Logger
}

func NewVerifyDriverService(driverRepo driverout.DriverRepository, publisher adminout.VerificationPublisher, log *logger.Logger) *VerifyDriverService {
	return &VerifyDriverService{
		driverRepo: driverRepo,
		publisher:  publisher,
		log:        log,
	}
}

func (s *VerifyDriverService) Execute(ctx context.Context, input adminin.VerifyDriverInput) (*adminin.VerifyDriverOutput, error) {
	if input.Status != model.VerificationVerified && input.Status != model.VerificationRejected {
		return nil, domain.ErrInvalidVerificationStatus
	}

	if err := s.driverRepo.SetVerificationStatus(ctx, input.UserID, input.Status); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishVerification(ctx, input.UserID, input.Status); err != nil {
		// decision is stored; the driver will see it at next login
		s.log.Error(logger.Entry{
			Action:  "publish_verification_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"user_id": input.UserID,
			},
		})
	}

	s.log.Info(logger.Entry{
		Action:  "driver_verification_updated",
		Message: fmt.Sprintf("driver %s %s", input.UserID, input.Status),
		Additional: map[string]any{
			"user_id": input.UserID,
			"status":  input.Status,
		},
	})

	return &adminin.VerifyDriverOutput{
		UserID:             input.UserID,
		VerificationStatus: input.Status,
	}, nil
}
