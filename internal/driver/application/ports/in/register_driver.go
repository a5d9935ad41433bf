package in

import "context"

// RegisterDriverInput creates a driver account plus its pending
// verification record in one step.
type RegisterDriverInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	IDNumber    string `json:"id_number"`
}

type RegisterDriverOutput struct {
	UserID             string `json:"user_id"`
	Token              string `json:"token"`
	VerificationStatus string `json:"verification_status"`
}

type RegisterDriverUseCase interface {
	Execute(ctx context.Context, input RegisterDriverInput) (*RegisterDriverOutput, error)
}
