package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leavehub/internal/domain/auth"
	"leavehub/internal/domain/leave"
	"leavehub/internal/transport/http/api"
	"leavehub/internal/transport/http/middleware"
	"leavehub/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.OwnData).Get("/balance", h.handleGetBalance)
		r.Get("/policies", h.handleListPolicies)
		r.With(middleware.OwnData).Get("/requests", h.handleListRequests)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Patch("/requests/{requestID}", h.handleUpdateRequest)
	})
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = user.UserID
	}

	balances, err := h.Service.ListBalances(r.Context(), userID)
	if err != nil {
		slog.Error("failed to get balance", "userId", userID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve leave balance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Service.ListPolicies(r.Context())
	if err != nil {
		slog.Error("failed to list policies", "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve leave policies", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, policies, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" && !user.IsAdmin() {
		userID = user.UserID
	}

	status := r.URL.Query().Get("status")
	if status != "" && !leave.ValidStatus(status) {
		api.Fail(w, http.StatusBadRequest, "INVALID_STATUS", "invalid status", middleware.GetRequestID(r.Context()))
		return
	}

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "invalid from date", middleware.GetRequestID(r.Context()))
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "invalid to date", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	result, err := h.Service.ListRequests(r.Context(), leave.RequestFilter{
		UserID: userID,
		Status: status,
		From:   from,
		To:     to,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		slog.Error("failed to list requests", "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve leave requests", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			api.Fail(w, http.StatusNotFound, "NOT_FOUND", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		slog.Error("failed to get request", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve leave request", middleware.GetRequestID(r.Context()))
		return
	}
	if req.UserID != user.UserID && !user.IsAdmin() {
		api.Fail(w, http.StatusForbidden, "FORBIDDEN", "you can only access your own data", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type createRequestPayload struct {
	PolicyID  string `json:"policy_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	HalfDay   string `json:"half_day"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	startDate, err := shared.ParseDate(payload.StartDate)
	if err != nil || startDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "invalid start date", middleware.GetRequestID(r.Context()))
		return
	}
	endDate, err := shared.ParseDate(payload.EndDate)
	if err != nil || endDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "invalid end date", middleware.GetRequestID(r.Context()))
		return
	}
	if !leave.ValidHalfDay(payload.HalfDay) {
		api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", "half_day must be AM or PM", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), leave.CreateRequestInput{
		UserID:    user.UserID,
		UserEmail: user.Email,
		PolicyID:  payload.PolicyID,
		StartDate: startDate,
		EndDate:   endDate,
		HalfDay:   payload.HalfDay,
		Reason:    payload.Reason,
	})
	if err != nil {
		if code, ok := validationCode(err); ok {
			api.Fail(w, http.StatusBadRequest, code, err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		slog.Error("failed to create request", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create leave request", middleware.GetRequestID(r.Context()))
		return
	}

	slog.Info("leave request created", "requestId", req.ID, "userId", user.UserID)
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

type updateRequestPayload struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")

	var payload updateRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Transition(r.Context(), requestID, payload.Status, user.UserID, payload.Notes)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrRequestNotFound):
			api.Fail(w, http.StatusNotFound, "NOT_FOUND", "leave request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInvalidStatus):
			api.Fail(w, http.StatusBadRequest, "INVALID_STATUS", "invalid status", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrNotPending):
			api.Fail(w, http.StatusBadRequest, "INVALID_STATUS", "request is not pending", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrBalanceNotFound):
			api.Fail(w, http.StatusBadRequest, "BALANCE_NOT_FOUND", "leave balance not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInsufficientBalance):
			api.Fail(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "insufficient leave balance", middleware.GetRequestID(r.Context()))
		default:
			slog.Error("failed to update request", "requestId", requestID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update leave request", middleware.GetRequestID(r.Context()))
		}
		return
	}

	slog.Info("leave request updated", "requestId", requestID, "status", req.Status, "actorId", user.UserID)
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func validationCode(err error) (string, bool) {
	switch {
	case errors.Is(err, leave.ErrInvalidPolicy):
		return "INVALID_POLICY", true
	case errors.Is(err, leave.ErrInvalidDateRange):
		return "INVALID_DATE_RANGE", true
	case errors.Is(err, leave.ErrInsufficientNotice):
		return "INSUFFICIENT_NOTICE", true
	case errors.Is(err, leave.ErrLeaveOverlap):
		return "LEAVE_OVERLAP", true
	case errors.Is(err, leave.ErrBalanceNotFound):
		return "BALANCE_NOT_FOUND", true
	case errors.Is(err, leave.ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE", true
	}
	return "", false
}
