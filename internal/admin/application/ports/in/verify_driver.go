package in

import "context"

// VerifyDriverInput is an admin decision on a driver's profile.
type VerifyDriverInput struct {
	UserID string `json:"-"`
	// Status is "verified" or "rejected"
	Status string `json:"status"`
}

type VerifyDriverOutput struct {
	UserID             string `json:"user_id"`
	VerificationStatus string `json:"verification_status"`
}

type VerifyDriverUseCase interface {
	Execute(ctx context.Context, input VerifyDriverInput) (*VerifyDriverOutput, error)
}
