package out

import (
	"context"

	"github.com/medehssane/tewsilty/internal/order/domain"
)

// OrderRepository is the order store. All lifecycle writes are conditional
// on the current status so concurrent actors cannot double-apply a move;
// a write that matches no row returns domain.ErrOrderConflict.
type OrderRepository interface {
	// Create inserts a new pending order.
	Create(ctx context.Context, order *domain.Order) error

	// FindByID returns domain.ErrOrderNotFound if missing.
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)

	// FindByCustomer returns the customer's orders, newest first.
	FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)

	// FindPending returns the pool of unclaimed orders, newest first.
	FindPending(ctx context.Context, limit int) ([]*domain.Order, error)

	// FindByDriver returns orders assigned to the driver, newest first.
	FindByDriver(ctx context.Context, driverID string) ([]*domain.Order, error)

	// FindActiveByDriver returns the driver's accepted/in_progress orders.
	FindActiveByDriver(ctx context.Context, driverID string) ([]*domain.Order, error)

	// ClaimPending sets driver_id and status=accepted, only if the order
	// is still pending. The winning driver's position is recorded at the
	// same time.
	ClaimPending(ctx context.Context, orderID, driverID string, lat, lng float64) error

	// MarkInProgress moves accepted -> in_progress, only for the
	// assigned driver.
	MarkInProgress(ctx context.Context, orderID, driverID string) error

	// MarkCompleted moves in_progress -> completed, only for the
	// assigned driver.
	MarkCompleted(ctx context.Context, orderID, driverID string) error

	// CancelByDriver moves accepted -> cancelled, clears driver_id and
	// records the reason. Only the assigned driver may do this.
	CancelByDriver(ctx context.Context, orderID, driverID, reason string) error

	// CancelByCustomer moves pending -> cancelled for the order's owner.
	CancelByCustomer(ctx context.Context, orderID, customerID, reason string) error

	// UpdateDriverPosition writes the latest fix onto the driver's active
	// orders and returns those orders so their customers can be notified.
	UpdateDriverPosition(ctx context.Context, driverID string, lat, lng float64) ([]*domain.Order, error)
}
