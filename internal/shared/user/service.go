package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/utils"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles registration and login for all three services.
type Service struct {
	repo Repository
	jwt  *auth.JWTService
	log  *logger.Logger
}

func NewService(repo Repository, jwt *auth.JWTService, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		jwt:  jwt,
		log:  log,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	Role        string
	FullName    string
	PhoneNumber string
}

// Register creates a new account and returns it together with a session
// token. Roles are restricted to customer and driver; admin accounts are
// created through the admin bootstrap flow.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	return s.register(ctx, input, false)
}

// RegisterAdmin is the bootstrap path. The single-admin index makes the
// insert itself the guard; two concurrent bootstraps cannot both win even
// if both passed an exists-check first.
func (s *Service) RegisterAdmin(ctx context.Context, input RegisterInput) (*User, string, error) {
	input.Role = model.RoleAdmin
	return s.register(ctx, input, true)
}

func (s *Service) register(ctx context.Context, input RegisterInput, allowAdmin bool) (*User, string, error) {
	if !emailRegex.MatchString(input.Email) {
		return nil, "", ErrInvalidEmail
	}
	if len(input.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	switch input.Role {
	case model.RoleCustomer, model.RoleDriver:
	case model.RoleAdmin:
		if !allowAdmin {
			return nil, "", ErrInvalidRole
		}
	default:
		return nil, "", ErrInvalidRole
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "hash_password_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           utils.NewUUID(),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrAdminExists) {
			return nil, "", err
		}
		s.log.Error(logger.Entry{
			Action:  "create_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"email": input.Email,
				"role":  input.Role,
			},
		})
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "user_registered",
		Message: fmt.Sprintf("user %s registered", u.Email),
		Additional: map[string]any{
			"user_id": u.ID,
			"role":    u.Role,
		},
	})

	return u, token, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		s.log.Warn(logger.Entry{
			Action:  "login_failed",
			Message: "password mismatch",
			Additional: map[string]any{
				"user_id": u.ID,
			},
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "user_logged_in",
		Message: u.Email,
		Additional: map[string]any{
			"user_id": u.ID,
			"role":    u.Role,
		},
	})

	return u, token, nil
}
