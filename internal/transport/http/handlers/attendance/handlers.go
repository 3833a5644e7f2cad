package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leavehub/internal/domain/attendance"
	"leavehub/internal/transport/http/api"
	"leavehub/internal/transport/http/middleware"
	"leavehub/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.OwnData).Get("/", h.handleListLogs)
		r.Get("/today", h.handleTodayStatus)
		r.Post("/clock-in", h.handleClockIn)
		r.Post("/clock-out", h.handleClockOut)
	})
}

type clockInPayload struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Source string   `json:"source"`
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload clockInPayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	log, err := h.Service.ClockIn(r.Context(), user.UserID, payload.Lat, payload.Lng, payload.Source)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrAlreadyClockedIn):
			api.Fail(w, http.StatusBadRequest, "ALREADY_CLOCKED_IN", "already clocked in today", middleware.GetRequestID(r.Context()))
		case errors.Is(err, attendance.ErrGeoOutOfRange):
			api.Fail(w, http.StatusBadRequest, "GEO_OUT_OF_RANGE", "location is outside the allowed area", middleware.GetRequestID(r.Context()))
		case errors.Is(err, attendance.ErrInvalidSource):
			api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", "source must be MOBILE, WEB or ADMIN", middleware.GetRequestID(r.Context()))
		default:
			slog.Error("clock in failed", "userId", user.UserID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to clock in", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Created(w, log, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	log, err := h.Service.ClockOut(r.Context(), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrClockOutMissingIn):
			api.Fail(w, http.StatusBadRequest, "CLOCK_OUT_MISSING_IN", "no clock in found for today", middleware.GetRequestID(r.Context()))
		case errors.Is(err, attendance.ErrAlreadyClockedOut):
			api.Fail(w, http.StatusBadRequest, "ALREADY_CLOCKED_OUT", "already clocked out today", middleware.GetRequestID(r.Context()))
		default:
			slog.Error("clock out failed", "userId", user.UserID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to clock out", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Success(w, log, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTodayStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	status, err := h.Service.TodayStatus(r.Context(), user.UserID)
	if err != nil {
		slog.Error("failed to get today status", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve attendance status", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, status, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" && !user.IsAdmin() {
		userID = user.UserID
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
	result, err := h.Service.Logs(r.Context(), attendance.LogFilter{
		UserID: userID,
		From:   from,
		To:     to,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		slog.Error("failed to list logs", "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve attendance logs", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(result.Total))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}
