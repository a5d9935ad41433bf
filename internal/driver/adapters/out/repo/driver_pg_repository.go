package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DriverPgRepository is the Postgres implementation of DriverRepository.
type DriverPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewDriverPgRepository(pool *pgxpool.Pool, log *logger.Logger) *DriverPgRepository {
	return &DriverPgRepository{
		pool: pool,
		log:  log,
	}
}

func (r *DriverPgRepository) CreateDetail(ctx context.Context, detail *domain.DriverDetail) error {
	query := `
		INSERT INTO driver_details (id, user_id, id_number, verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		detail.ID,
		detail.UserID,
		detail.IDNumber,
		detail.VerificationStatus,
		detail.CreatedAt,
		detail.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// unique violation on user_id
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDetailExists
		}
		return fmt.Errorf("insert driver detail: %w", err)
	}

	return nil
}

func (r *DriverPgRepository) FindByUserID(ctx context.Context, userID string) (*domain.DriverDetail, error) {
	query := `
		SELECT id, user_id, id_number, verification_status, created_at, updated_at
		FROM driver_details
		WHERE user_id = $1
	`

	var d domain.DriverDetail
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&d.ID,
		&d.UserID,
		&d.IDNumber,
		&d.VerificationStatus,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, fmt.Errorf("query driver detail: %w", err)
	}

	return &d, nil
}

// IsVerified reads as false when the record is missing.
func (r *DriverPgRepository) IsVerified(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM driver_details
			WHERE user_id = $1 AND verification_status = 'verified'
		)
	`

	var verified bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&verified); err != nil {
		return false, fmt.Errorf("check driver verified: %w", err)
	}

	return verified, nil
}

func (r *DriverPgRepository) SetVerificationStatus(ctx context.Context, userID, status string) error {
	query := `
		UPDATE driver_details
		SET verification_status = $2, updated_at = now()
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, status)
	if err != nil {
		return fmt.Errorf("update verification status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDriverNotFound
	}

	return nil
}
