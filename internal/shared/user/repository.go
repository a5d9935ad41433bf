package user

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken email already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrAdminExists a second admin insert hit the single-admin index
	ErrAdminExists = errors.New("admin already exists")
)

// Repository is the account store used by registration, login and the
// role oracle.
type Repository interface {
	// Create inserts a new user. Returns ErrEmailTaken on duplicate email
	// and ErrAdminExists when a second admin row is attempted.
	Create(ctx context.Context, u *User) error

	// FindByEmail returns ErrUserNotFound if no account matches.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID returns ErrUserNotFound if no account matches.
	FindByID(ctx context.Context, userID string) (*User, error)

	// RoleOf returns the current role straight from the store.
	RoleOf(ctx context.Context, userID string) (string, error)

	// AdminExists reports whether any admin account has been created.
	AdminExists(ctx context.Context) (bool, error)
}
