package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/medehssane/tewsilty/internal/driver/application/ports/in"
	"github.com/medehssane/tewsilty/internal/driver/application/ports/out"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/user"
	"github.com/medehssane/tewsilty/internal/shared/utils"
)

// national id: digits only, 6 to 20 characters
var idNumberRegex = regexp.MustCompile(`^[0-9]{6,20}$`)

// RegisterDriverService creates the driver account and its pending
// verification record. The driver can log in right away but cannot accept
// orders until an admin verifies the record.
type RegisterDriverService struct {
	userSvc    *user.Service
	driverRepo out.DriverRepository
	log        *logger.Logger
}

func NewRegisterDriverService(userSvc *user.Service, driverRepo out.DriverRepository, log *logger.Logger) *RegisterDriverService {
	return &RegisterDriverService{
		userSvc:    userSvc,
		driverRepo: driverRepo,
		log:        log,
	}
}

func (s *RegisterDriverService) Execute(ctx context.Context, input in.RegisterDriverInput) (*in.RegisterDriverOutput, error) {
	if !idNumberRegex.MatchString(input.IDNumber) {
		return nil, domain.ErrInvalidIDNumber
	}

	u, token, err := s.userSvc.Register(ctx, user.RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		Role:        model.RoleDriver,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	detail := &domain.DriverDetail{
		ID:                 utils.NewUUID(),
		UserID:             u.ID,
		IDNumber:           input.IDNumber,
		VerificationStatus: model.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.driverRepo.CreateDetail(ctx, detail); err != nil {
		s.log.Error(logger.Entry{
			Action:  "create_driver_detail_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"user_id": u.ID,
			},
		})
		return nil, fmt.Errorf("create driver detail: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "driver_registered",
		Message: fmt.Sprintf("driver %s registered, verification pending", u.Email),
		Additional: map[string]any{
			"user_id": u.ID,
		},
	})

	return &in.RegisterDriverOutput{
		UserID:             u.ID,
		Token:              token,
		VerificationStatus: detail.VerificationStatus,
	}, nil
}
