package transport

import "github.com/medehssane/tewsilty/internal/shared/user"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func toUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
	}
}

type CreateOrderRequest struct {
	PickupLocation   string   `json:"pickup_location"`
	PickupLat        *float64 `json:"pickup_lat,omitempty"`
	PickupLng        *float64 `json:"pickup_lng,omitempty"`
	DeliveryLocation string   `json:"delivery_location"`
	Details          string   `json:"details"`
	RecipientPhone   string   `json:"recipient_phone"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
