package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medehssane/tewsilty/internal/shared/config"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 5})

	token, err := svc.GenerateToken("user-1", "a@b.com", "driver")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "driver", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "secret_a", ExpiryMinutes: 5})
	verifier := NewJWTService(config.JWTConfig{Secret: "secret_b", ExpiryMinutes: 5})

	token, err := issuer.GenerateToken("user-1", "a@b.com", "customer")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: -1})

	token, err := svc.GenerateToken("user-1", "a@b.com", "customer")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.NoError(t, CheckPassword(hash, "s3cret-pass"))
	require.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestRoleOracleCaches(t *testing.T) {
	calls := 0
	oracle := NewRoleOracle(func(ctx context.Context, userID string) (string, error) {
		calls++
		return "admin", nil
	}, time.Minute)

	for i := 0; i < 3; i++ {
		role, err := oracle.RoleFor(context.Background(), "user-1")
		require.NoError(t, err)
		require.Equal(t, "admin", role)
	}
	require.Equal(t, 1, calls)

	ok, err := oracle.HasRole(context.Background(), "user-1", "admin")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, calls)
}

func TestRoleOracleInvalidate(t *testing.T) {
	calls := 0
	oracle := NewRoleOracle(func(ctx context.Context, userID string) (string, error) {
		calls++
		if calls == 1 {
			return "driver", nil
		}
		return "admin", nil
	}, time.Minute)

	role, err := oracle.RoleFor(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "driver", role)

	oracle.Invalidate("user-1")

	role, err = oracle.RoleFor(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "admin", role)
	require.Equal(t, 2, calls)
}

func TestRoleOracleLookupError(t *testing.T) {
	wantErr := errors.New("db down")
	oracle := NewRoleOracle(func(ctx context.Context, userID string) (string, error) {
		return "", wantErr
	}, time.Minute)

	_, err := oracle.RoleFor(context.Background(), "user-1")
	require.ErrorIs(t, err, wantErr)
}
