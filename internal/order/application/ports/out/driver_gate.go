package out

import (
	"context"
	"time"
)

// DriverFix is a driver's last known position.
type DriverFix struct {
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}

// DriverLocator reads the location cache. LastFix returns nil when the
// driver has never reported a position.
type DriverLocator interface {
	LastFix(ctx context.Context, driverID string) (*DriverFix, error)
}

// DriverDirectory answers verification questions about driver accounts.
type DriverDirectory interface {
	IsVerified(ctx context.Context, driverID string) (bool, error)
}
