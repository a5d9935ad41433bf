package usecase

import (
	"context"
	"fmt"

	"github.com/medehssane/tewsilty/internal/admin/application/ports/in"
	"github.com/medehssane/tewsilty/internal/admin/application/ports/out"
	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/logger"
)

// ListDriversService backs the admin verification dashboard.
type ListDriversService struct {
	adminRepo out.AdminRepository
	log       *logger.Logger
}

func NewListDriversService(adminRepo out.AdminRepository, log *logger.Logger) *ListDriversService {
	return &ListDriversService{
		adminRepo: adminRepo,
		log:       log,
	}
}

func (s *ListDriversService) Execute(ctx context.Context, input in.ListDriversInput) (*in.ListDriversOutput, error) {
	switch input.Status {
	case "", model.VerificationPending, model.VerificationVerified, model.VerificationRejected:
	default:
		return nil, fmt.Errorf("unknown verification status %q", input.Status)
	}

	drivers, err := s.adminRepo.ListDrivers(ctx, input.Status)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}

	return &in.ListDriversOutput{Drivers: drivers}, nil
}
