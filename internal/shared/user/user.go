package user

import "time"

// User is the account record shared by all three services.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string // customer | driver | admin
	FullName     string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole checks a role match.
func (u *User) HasRole(role string) bool {
	return u.Role == role
}

// IsDriver reports whether this account can take orders.
func (u *User) IsDriver() bool {
	return u.Role == "driver"
}
