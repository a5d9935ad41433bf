// Route guards shared by all three services: JWT extraction, role checks,
// and the admin guard that re-resolves the role from the database instead
// of trusting the token claim.
package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/logger"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
)

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}

// Role returns the token role from the request context.
func Role(ctx context.Context) string {
	role, _ := ctx.Value(ContextKeyUserRole).(string)
	return role
}

// JWT validates the Bearer token and stores the claims in the context.
func JWT(jwtService *auth.JWTService, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Error(logger.Entry{
					Action:  "jwt_validation_failed",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyUserEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyUserRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// RequireRole rejects requests whose token role does not match. Must run
// after JWT.
func RequireRole(role string, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got := Role(r.Context())
			if got != role {
				log.Warn(logger.Entry{
					Action:  "role_check_failed",
					Message: "insufficient permissions",
					Additional: map[string]any{
						"user_id":  UserID(r.Context()),
						"required": role,
						"role":     got,
					},
				})
				respondForbidden(w, role+" role required")
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

// Admin guards admin routes. The role comes from the database through the
// oracle, not from the token claim, so a revoked admin is locked out as
// soon as the cache entry expires. A mismatch answers 403 with code
// "sign_out" so clients drop the session.
func Admin(jwtService *auth.JWTService, oracle *auth.RoleOracle, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	jwtGuard := JWT(jwtService, log)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return jwtGuard(func(w http.ResponseWriter, r *http.Request) {
			userID := UserID(r.Context())

			ok, err := oracle.HasRole(r.Context(), userID, "admin")
			if err != nil {
				log.Error(logger.Entry{
					Action:  "admin_role_lookup_failed",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
					Additional: map[string]any{
						"user_id": userID,
					},
				})
				respondInternal(w, "role lookup failed")
				return
			}
			if !ok {
				log.Warn(logger.Entry{
					Action:  "admin_auth_forbidden",
					Message: "insufficient permissions",
					Additional: map[string]any{
						"user_id": userID,
						"role":    Role(r.Context()),
					},
				})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"admin role required","code":"sign_out"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

func respondForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

func respondInternal(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
