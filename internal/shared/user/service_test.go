package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/config"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu      sync.Mutex
	byID    map[string]*User
	byEmail map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	// mirrors the single-admin partial index
	if u.Role == "admin" {
		for _, other := range m.byID {
			if other.Role == "admin" {
				return ErrAdminExists
			}
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) FindByID(ctx context.Context, userID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) RoleOf(ctx context.Context, userID string) (string, error) {
	u, err := m.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (m *mockRepo) AdminExists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Role == "admin" {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo Repository) *Service {
	jwtSvc := auth.NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 60})
	return NewService(repo, jwtSvc, logger.NewLogger("test"))
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockRepo())

	u, token, err := svc.Register(ctx, RegisterInput{
		Email:       "amine@example.com",
		Password:    "s3cretpass",
		Role:        "customer",
		FullName:    "Amine",
		PhoneNumber: "+22230000001",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "customer", u.Role)
	require.NotEqual(t, "s3cretpass", u.PasswordHash)

	got, token2, err := svc.Login(ctx, "amine@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, token2)
	require.Equal(t, u.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockRepo())

	cases := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "longenough", Role: "customer"}, ErrInvalidEmail},
		{"short password", RegisterInput{Email: "a@b.co", Password: "short", Role: "customer"}, ErrPasswordTooShort},
		{"unknown role", RegisterInput{Email: "a@b.co", Password: "longenough", Role: "superuser"}, ErrInvalidRole},
		{"admin via public register", RegisterInput{Email: "a@b.co", Password: "longenough", Role: "admin"}, ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.input)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockRepo())

	_, _, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "longenough", Role: "driver"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "longenough", Role: "customer"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockRepo())

	_, _, err := svc.Register(ctx, RegisterInput{Email: "amine@example.com", Password: "s3cretpass", Role: "customer"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "amine@example.com", "wrongpass1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterAdminBootstrap(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := newTestService(repo)

	u, _, err := svc.RegisterAdmin(ctx, RegisterInput{Email: "root@example.com", Password: "longenough"})
	require.NoError(t, err)
	require.Equal(t, "admin", u.Role)

	exists, err := repo.AdminExists(ctx)
	require.NoError(t, err)
	require.True(t, exists)
}

// Two bootstrap registrations can both observe "no admin yet" before
// either insert lands; the store itself must reject the second row.
func TestRegisterAdminConcurrentBootstrap(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := newTestService(repo)

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := svc.RegisterAdmin(ctx, RegisterInput{
				Email:    fmt.Sprintf("root%d@example.com", i),
				Password: "longenough",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var created, rejected int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrAdminExists):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, created)
	require.Equal(t, attempts-1, rejected)
}
