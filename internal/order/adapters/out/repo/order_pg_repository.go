package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
	id, customer_id, driver_id, pickup_location, pickup_lat, pickup_lng,
	delivery_location, details, recipient_phone, status, driver_lat,
	driver_lng, cancellation_reason, created_at, updated_at
`

// OrderPgRepository is the Postgres implementation of OrderRepository.
// Lifecycle moves are single conditional UPDATEs; RowsAffected()==0 means
// someone else won the race or the order is not in the expected state.
type OrderPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewOrderPgRepository(pool *pgxpool.Pool, log *logger.Logger) *OrderPgRepository {
	return &OrderPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *OrderPgRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id, customer_id, pickup_location, pickup_lat, pickup_lng,
			delivery_location, details, recipient_phone, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.PickupLocation,
		order.PickupLat,
		order.PickupLng,
		order.DeliveryLocation,
		order.Details,
		order.RecipientPhone,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *OrderPgRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	return order, nil
}

func (r *OrderPgRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, customerID)
}

func (r *OrderPgRepository) FindPending(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = 'pending' ORDER BY created_at DESC LIMIT $1`
	return r.queryOrders(ctx, query, limit)
}

func (r *OrderPgRepository) FindByDriver(ctx context.Context, driverID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, driverID)
}

func (r *OrderPgRepository) FindActiveByDriver(ctx context.Context, driverID string) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE driver_id = $1 AND status IN ('accepted', 'in_progress')
		ORDER BY created_at DESC
	`
	return r.queryOrders(ctx, query, driverID)
}

// ClaimPending is the accept race. The WHERE clause is the whole trick:
// two drivers can both read the order as pending, but only one UPDATE
// matches the row.
func (r *OrderPgRepository) ClaimPending(ctx context.Context, orderID, driverID string, lat, lng float64) error {
	query := `
		UPDATE orders
		SET driver_id = $2, status = 'accepted', driver_lat = $3, driver_lng = $4, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.pool.Exec(ctx, query, orderID, driverID, lat, lng)
	if err != nil {
		return fmt.Errorf("claim order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderConflict
	}

	return nil
}

func (r *OrderPgRepository) MarkInProgress(ctx context.Context, orderID, driverID string) error {
	query := `
		UPDATE orders
		SET status = 'in_progress', updated_at = now()
		WHERE id = $1 AND driver_id = $2 AND status = 'accepted'
	`
	return r.conditionalUpdate(ctx, query, orderID, driverID)
}

func (r *OrderPgRepository) MarkCompleted(ctx context.Context, orderID, driverID string) error {
	query := `
		UPDATE orders
		SET status = 'completed', updated_at = now()
		WHERE id = $1 AND driver_id = $2 AND status = 'in_progress'
	`
	return r.conditionalUpdate(ctx, query, orderID, driverID)
}

// CancelByDriver releases an accepted order. The driver link is cleared
// but the status stays cancelled; the order never returns to the pool.
func (r *OrderPgRepository) CancelByDriver(ctx context.Context, orderID, driverID, reason string) error {
	query := `
		UPDATE orders
		SET status = 'cancelled', driver_id = NULL, cancellation_reason = $3, updated_at = now()
		WHERE id = $1 AND driver_id = $2 AND status = 'accepted'
	`

	tag, err := r.pool.Exec(ctx, query, orderID, driverID, reason)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderConflict
	}

	return nil
}

func (r *OrderPgRepository) CancelByCustomer(ctx context.Context, orderID, customerID, reason string) error {
	query := `
		UPDATE orders
		SET status = 'cancelled', cancellation_reason = $3, updated_at = now()
		WHERE id = $1 AND customer_id = $2 AND status = 'pending'
	`

	tag, err := r.pool.Exec(ctx, query, orderID, customerID, reason)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderConflict
	}

	return nil
}

// UpdateDriverPosition stamps the fix onto the driver's active orders and
// returns them so the callers can notify each order's customer.
func (r *OrderPgRepository) UpdateDriverPosition(ctx context.Context, driverID string, lat, lng float64) ([]*domain.Order, error) {
	query := `
		UPDATE orders
		SET driver_lat = $2, driver_lng = $3, updated_at = now()
		WHERE driver_id = $1 AND status IN ('accepted', 'in_progress')
		RETURNING ` + orderColumns

	rows, err := r.pool.Query(ctx, query, driverID, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("update driver position: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderPgRepository) conditionalUpdate(ctx context.Context, query, orderID, driverID string) error {
	tag, err := r.pool.Exec(ctx, query, orderID, driverID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderConflict
	}
	return nil
}

func (r *OrderPgRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.DriverID,
		&order.PickupLocation,
		&order.PickupLat,
		&order.PickupLng,
		&order.DeliveryLocation,
		&order.Details,
		&order.RecipientPhone,
		&order.Status,
		&order.DriverLat,
		&order.DriverLng,
		&order.CancellationReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
