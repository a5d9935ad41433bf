package domain

import "time"

// DriverDetail is the verification record attached to a driver account.
type DriverDetail struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	IDNumber           string    `json:"id_number" db:"id_number"`
	VerificationStatus string    `json:"verification_status" db:"verification_status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// IsVerified reports whether the driver may accept orders.
func (d *DriverDetail) IsVerified() bool {
	return d.VerificationStatus == "verified"
}

// LocationUpdate is one position fix reported by a driver.
type LocationUpdate struct {
	DriverID  string    `json:"driver_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}
