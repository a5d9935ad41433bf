package in

import (
	"context"
	"time"
)

// DriverRow is a verification record joined with its account profile.
type DriverRow struct {
	UserID             string    `json:"user_id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	PhoneNumber        string    `json:"phone_number"`
	IDNumber           string    `json:"id_number"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
}

type ListDriversInput struct {
	// Status filters by verification status; empty means all
	Status string
}

type ListDriversOutput struct {
	Drivers []DriverRow `json:"drivers"`
}

type ListDriversUseCase interface {
	Execute(ctx context.Context, input ListDriversInput) (*ListDriversOutput, error)
}
