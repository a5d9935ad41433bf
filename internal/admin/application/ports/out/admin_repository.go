package out

import (
	"context"

	"github.com/medehssane/tewsilty/internal/admin/application/ports/in"
)

// AdminRepository serves the admin dashboard reads.
type AdminRepository interface {
	// ListDrivers joins driver_details with accounts, newest first.
	// An empty status lists everything.
	ListDrivers(ctx context.Context, status string) ([]in.DriverRow, error)
}

// VerificationPublisher announces verification decisions to driver-service.
type VerificationPublisher interface {
	PublishVerification(ctx context.Context, userID, status string) error
}
