package repo

import (
	"context"
	"fmt"

	"github.com/medehssane/tewsilty/internal/admin/application/ports/in"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminPgRepository serves the dashboard reads.
type AdminPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewAdminPgRepository(pool *pgxpool.Pool, log *logger.Logger) *AdminPgRepository {
	return &AdminPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *AdminPgRepository) ListDrivers(ctx context.Context, status string) ([]in.DriverRow, error) {
	query := `
		SELECT d.user_id, u.email, u.full_name, u.phone_number,
		       d.id_number, d.verification_status, d.created_at
		FROM driver_details d
		JOIN users u ON u.id = d.user_id
		WHERE ($1 = '' OR d.verification_status = $1)
		ORDER BY d.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []in.DriverRow
	for rows.Next() {
		var d in.DriverRow
		if err := rows.Scan(
			&d.UserID,
			&d.Email,
			&d.FullName,
			&d.PhoneNumber,
			&d.IDNumber,
			&d.VerificationStatus,
			&d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan driver row: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return drivers, nil
}
