package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/config"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/stretchr/testify/require"
)

func testJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 60})
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(UserID(r.Context())))
}

func TestJWTGuard(t *testing.T) {
	jwtSvc := testJWT()
	log := logger.NewLogger("test")
	handler := JWT(jwtSvc, log)(okHandler)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches handler with user in context", func(t *testing.T) {
		token, err := jwtSvc.GenerateToken("user-1", "a@b.c", "customer")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", rec.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	jwtSvc := testJWT()
	log := logger.NewLogger("test")
	handler := JWT(jwtSvc, log)(RequireRole("driver", log)(okHandler))

	token, err := jwtSvc.GenerateToken("user-2", "d@b.c", "customer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders/accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminGuardUsesDatabaseRole(t *testing.T) {
	jwtSvc := testJWT()
	log := logger.NewLogger("test")

	// token claims admin, database says customer
	oracle := auth.NewRoleOracle(func(ctx context.Context, userID string) (string, error) {
		return "customer", nil
	}, time.Minute)

	handler := Admin(jwtSvc, oracle, log)(okHandler)

	token, err := jwtSvc.GenerateToken("user-3", "x@b.c", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/drivers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "sign_out")
}

func TestAdminGuardAllowsRealAdmin(t *testing.T) {
	jwtSvc := testJWT()
	log := logger.NewLogger("test")

	oracle := auth.NewRoleOracle(func(ctx context.Context, userID string) (string, error) {
		return "admin", nil
	}, time.Minute)

	handler := Admin(jwtSvc, oracle, log)(okHandler)

	token, err := jwtSvc.GenerateToken("admin-1", "root@b.c", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/drivers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGuardLookupError(t *testing.T) {
	jwtSvc := testJWT()
	log := logger.NewLogger("test")

	oracle := auth.NewRoleOracle(func(ctx context.Context, userID string) (string, error) {
		return "", errors.New("db down")
	}, time.Minute)

	handler := Admin(jwtSvc, oracle, log)(okHandler)

	token, err := jwtSvc.GenerateToken("admin-1", "root@b.c", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/drivers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
