package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/guard"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/user"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler is the customer surface of order-service.
type HTTPHandler struct {
	userSvc   *user.Service
	createUC  in.CreateOrderUseCase
	listUC    in.ListCustomerOrdersUseCase
	getUC     in.GetOrderUseCase
	cancelUC  in.CancelOrderByCustomerUseCase
	log       *logger.Logger
}

func NewHTTPHandler(
	userSvc *user.Service,
	createUC in.CreateOrderUseCase,
	listUC in.ListCustomerOrdersUseCase,
	getUC in.GetOrderUseCase,
	cancelUC in.CancelOrderByCustomerUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		userSvc:  userSvc,
		createUC: createUC,
		listUC:   listUC,
		getUC:    getUC,
		cancelUC: cancelUC,
		log:      log,
	}
}

// RegisterRoutes wires the customer routes onto the mux.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	// liveness
	mux.HandleFunc("GET /health", h.handleHealth)

	// sessions
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)

	// orders
	mux.HandleFunc("POST /orders", authMiddleware(h.handleCreateOrder))
	mux.HandleFunc("GET /orders", authMiddleware(h.handleListOrders))
	mux.HandleFunc("GET /orders/{order_id}", authMiddleware(h.handleGetOrder))
	mux.HandleFunc("POST /orders/{order_id}/cancel", authMiddleware(h.handleCancelOrder))
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *HTTPHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	// the customer surface only creates customer accounts; drivers go
	// through driver-service
	u, token, err := h.userSvc.Register(r.Context(), user.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        model.RoleCustomer,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, AuthResponse{
		Token: token,
		User:  toUserDTO(u),
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

	h.respondJSON(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  toUserDTO(u),
	})
}

func (h *HTTPHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := guard.UserID(ctx)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	output, err := h.createUC.Execute(ctx, in.CreateOrderInput{
		CustomerID:       userID,
		PickupLocation:   req.PickupLocation,
		PickupLat:        req.PickupLat,
		PickupLng:        req.PickupLng,
		DeliveryLocation: req.DeliveryLocation,
		Details:          req.Details,
		RecipientPhone:   req.RecipientPhone,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

func (h *HTTPHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := guard.UserID(ctx)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	output, err := h.listUC.Execute(ctx, in.ListCustomerOrdersInput{CustomerID: userID})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

func (h *HTTPHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.getUC.Execute(ctx, in.GetOrderInput{
		OrderID: r.PathValue("order_id"),
		UserID:  guard.UserID(ctx),
		Role:    guard.Role(ctx),
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

func (h *HTTPHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := guard.UserID(ctx)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CancelOrderRequest
	// body is optional; a missing reason is fine
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req)

	output, err := h.cancelUC.Execute(ctx, in.CancelOrderByCustomerInput{
		OrderID:    r.PathValue("order_id"),
		CustomerID: userID,
		Reason:     req.Reason,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
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

func (h *HTTPHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrInvalidRole):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.internalError(w, err)
	}
}

func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidCoordinates):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		h.respondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrOrderConflict):
		h.respondError(w, http.StatusConflict, "order already taken or changed state")
	case errors.Is(err, domain.ErrInvalidTransition):
		h.respondError(w, http.StatusConflict, err.Error())
	default:
		h.internalError(w, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, err error) {
	h.log.Error(logger.Entry{
		Action:  "usecase_error",
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
