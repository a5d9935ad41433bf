package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	driverin "github.com/medehssane/tewsilty/internal/driver/application/ports/in"
	driverout "github.com/medehssane/tewsilty/internal/driver/application/ports/out"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/model"
	orderin "github.com/medehssane/tewsilty/internal/order/application/ports/in"
	orderdomain "github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/guard"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/user"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler is the driver surface: registration, the pending pool and
// the order lifecycle endpoints.
type HTTPHandler struct {
	userSvc     *user.Service
	registerUC  driverin.RegisterDriverUseCase
	locationUC  driverin.UpdateLocationUseCase
	driverRepo  driverout.DriverRepository
	listUC      orderin.ListDriverOrdersUseCase
	getUC       orderin.GetOrderUseCase
	acceptUC    orderin.AcceptOrderUseCase
	startUC     orderin.StartOrderUseCase
	completeUC  orderin.CompleteOrderUseCase
	cancelUC    orderin.CancelOrderUseCase
	log         *logger.Logger
}

func NewHTTPHandler(
	userSvc *user.Service,
	registerUC driverin.RegisterDriverUseCase,
	locationUC driverin.UpdateLocationUseCase,
	driverRepo driverout.DriverRepository,
	listUC orderin.ListDriverOrdersUseCase,
	getUC orderin.GetOrderUseCase,
	acceptUC orderin.AcceptOrderUseCase,
	startUC orderin.StartOrderUseCase,
	completeUC orderin.CompleteOrderUseCase,
	cancelUC orderin.CancelOrderUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		userSvc:    userSvc,
		registerUC: registerUC,
		locationUC: locationUC,
		driverRepo: driverRepo,
		listUC:     listUC,
		getUC:      getUC,
		acceptUC:   acceptUC,
		startUC:    startUC,
		completeUC: completeUC,
		cancelUC:   cancelUC,
		log:        log,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware, driverOnly func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// sessions
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)

	// profile
	mux.HandleFunc("GET /profile", authMiddleware(driverOnly(h.handleProfile)))

	// orders
	mux.HandleFunc("GET /orders", authMiddleware(driverOnly(h.handleListOrders)))
	mux.HandleFunc("GET /orders/{order_id}", authMiddleware(driverOnly(h.handleGetOrder)))
	mux.HandleFunc("POST /orders/{order_id}/accept", authMiddleware(driverOnly(h.handleAccept)))
	mux.HandleFunc("POST /orders/{order_id}/start", authMiddleware(driverOnly(h.handleStart)))
	mux.HandleFunc("POST /orders/{order_id}/complete", authMiddleware(driverOnly(h.handleComplete)))
	mux.HandleFunc("POST /orders/{order_id}/cancel", authMiddleware(driverOnly(h.handleCancel)))

	// REST fallback for devices without a socket
	mux.HandleFunc("POST /location", authMiddleware(driverOnly(h.handleLocation)))
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *HTTPHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterDriverRequest
	if !h.decode(w, r, &req) {
		return
	}

	output, err := h.registerUC.Execute(r.Context(), driverin.RegisterDriverInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		IDNumber:    req.IDNumber,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

func (h *HTTPHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, token, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":        u.ID,
			"email":     u.Email,
			"role":      u.Role,
			"full_name": u.FullName,
		},
	})
}

func (h *HTTPHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	detail, err := h.driverRepo.FindByUserID(r.Context(), guard.UserID(r.Context()))
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, detail)
}

func (h *HTTPHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	output, err := h.listUC.Execute(r.Context(), orderin.ListDriverOrdersInput{
		DriverID: guard.UserID(r.Context()),
		Scope:    r.URL.Query().Get("scope"),
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.getUC.Execute(r.Context(), orderin.GetOrderInput{
		OrderID: r.PathValue("order_id"),
		UserID:  guard.UserID(r.Context()),
		Role:    model.RoleDriver,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptOrderRequest
	// the body is optional; the cached fix is used when absent
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req)

	output, err := h.acceptUC.Execute(r.Context(), orderin.AcceptOrderInput{
		OrderID:  r.PathValue("order_id"),
		DriverID: guard.UserID(r.Context()),
		Lat:      req.Lat,
		Lng:      req.Lng,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	output, err := h.startUC.Execute(r.Context(), orderin.StartOrderInput{
		OrderID:  r.PathValue("order_id"),
		DriverID: guard.UserID(r.Context()),
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	output, err := h.completeUC.Execute(r.Context(), orderin.CompleteOrderInput{
		OrderID:  r.PathValue("order_id"),
		DriverID: guard.UserID(r.Context()),
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req)

	output, err := h.cancelUC.Execute(r.Context(), orderin.CancelOrderInput{
		OrderID:  r.PathValue("order_id"),
		DriverID: guard.UserID(r.Context()),
		Reason:   req.Reason,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if !h.decode(w, r, &req) {
		return
	}

	output, err := h.locationUC.Execute(r.Context(), driverin.UpdateLocationInput{
		DriverID: guard.UserID(r.Context()),
		Lat:      req.Lat,
		Lng:      req.Lng,
	})
	if err != nil {
		h.handleError(w, err)
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
		h.log.Error(logger.Entry{
			Action:  "parse_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return false
	}
	return true
}

func (h *HTTPHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidIDNumber),
		errors.Is(err, domain.ErrInvalidCoordinates),
		errors.Is(err, orderdomain.ErrInvalidCoordinates):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, domain.ErrDetailExists):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrDriverNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orderdomain.ErrOrderConflict):
		h.respondError(w, http.StatusConflict, "order already taken or changed state")
	case errors.Is(err, orderdomain.ErrInvalidTransition):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orderdomain.ErrDriverNotVerified):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, orderdomain.ErrLocationRequired):
		h.respondError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, domain.ErrTooFrequent):
		h.respondError(w, http.StatusTooManyRequests, err.Error())
	default:
		h.log.Error(logger.Entry{
			Action:  "usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal error")
	}
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
