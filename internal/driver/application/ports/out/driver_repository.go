package out

import (
	"context"

	"github.com/medehssane/tewsilty/internal/driver/domain"
)

// DriverRepository stores verification records.
type DriverRepository interface {
	// CreateDetail inserts a pending verification record. Returns
	// domain.ErrDetailExists when the driver already has one.
	CreateDetail(ctx context.Context, detail *domain.DriverDetail) error

	// FindByUserID returns domain.ErrDriverNotFound if missing.
	FindByUserID(ctx context.Context, userID string) (*domain.DriverDetail, error)

	// IsVerified reports whether the driver's record is verified. A
	// missing record reads as not verified.
	IsVerified(ctx context.Context, userID string) (bool, error)

	// SetVerificationStatus applies an admin decision.
	SetVerificationStatus(ctx context.Context, userID, status string) error
}
