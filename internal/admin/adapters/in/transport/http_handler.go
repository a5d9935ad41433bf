package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	adminin "github.com/medehssane/tewsilty/internal/admin/application/ports/in"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/auth"
	"github.com/medehssane/tewsilty/internal/shared/guard"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/user"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler is the admin surface: bootstrap, role checks and driver
// verification.
type HTTPHandler struct {
	userSvc  *user.Service
	userRepo user.Repository
	oracle   *auth.RoleOracle
	listUC   adminin.ListDriversUseCase
	verifyUC adminin.VerifyDriverUseCase
	log      *logger.Logger
}

func NewHTTPHandler(
	userSvc *user.Service,
	userRepo user.Repository,
	oracle *auth.RoleOracle,
	listUC adminin.ListDriversUseCase,
	verifyUC adminin.VerifyDriverUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		userSvc:  userSvc,
		userRepo: userRepo,
		oracle:   oracle,
		listUC:   listUC,
		verifyUC: verifyUC,
		log:      log,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware, adminGuard func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// bootstrap: the first registration creates the only self-service admin
	mux.HandleFunc("GET /admin/exists", h.handleAdminExists)
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)

	// role probe used by clients to decide whether to show the dashboard
	mux.HandleFunc("GET /admin/is-admin", authMiddleware(h.handleIsAdmin))

	// dashboard
	mux.HandleFunc("GET /drivers", adminGuard(h.handleListDrivers))
	mux.HandleFunc("POST /drivers/{user_id}/verify", adminGuard(h.handleVerifyDriver))
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *HTTPHandler) handleAdminExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.userRepo.AdminExists(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// handleRegister only works while no admin account exists yet; after that
// the endpoint is closed for good. The exists-check is a fast path; the
// single-admin index on users is what actually decides a race.
func (h *HTTPHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	exists, err := h.userRepo.AdminExists(ctx)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if exists {
		h.respondError(w, http.StatusForbidden, "admin already exists")
		return
	}

	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, token, err := h.userSvc.RegisterAdmin(ctx, user.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

func (h *HTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, token, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

func (h *HTTPHandler) handleIsAdmin(w http.ResponseWriter, r *http.Request) {
	isAdmin, err := h.oracle.HasRole(r.Context(), guard.UserID(r.Context()), model.RoleAdmin)
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"is_admin": isAdmin})
}

func (h *HTTPHandler) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	output, err := h.listUC.Execute(r.Context(), adminin.ListDriversInput{
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleVerifyDriver(w http.ResponseWriter, r *http.Request) {
	var req VerifyDriverRequest
	if !h.decode(w, r, &req) {
		return
	}

	output, err := h.verifyUC.Execute(r.Context(), adminin.VerifyDriverInput{
		UserID: r.PathValue("user_id"),
		Status: req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidVerificationStatus):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDriverNotFound):
			h.respondError(w, http.StatusNotFound, err.Error())
		default:
			h.internalError(w, err)
		}
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return false
		}
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return false
	}
	return true
}

func (h *HTTPHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrPasswordTooShort):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrAdminExists):
		h.respondError(w, http.StatusForbidden, "admin already exists")
	case errors.Is(err, user.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.internalError(w, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, err error) {
	h.log.Error(logger.Entry{
		Action:  "admin_handler_error",
		Message: err.Error(),
		Error:   &logger.ErrObj{Msg: err.Error()},
	})
	h.respondError(w, http.StatusInternalServerError, "internal error")
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
