package out

import (
	"context"
	"time"
)

// Fix is a cached driver position.
type Fix struct {
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}

// LocationCache keeps each driver's latest fix for quick reads.
type LocationCache interface {
	// StoreFix overwrites the driver's cached position.
	StoreFix(ctx context.Context, driverID string, lat, lng float64) error

	// LastFix returns nil when no fix is cached.
	LastFix(ctx context.Context, driverID string) (*Fix, error)
}

// LocationPublisher fans a fix out to the broker for order-service.
type LocationPublisher interface {
	PublishLocation(ctx context.Context, driverID string, lat, lng float64) error
}
