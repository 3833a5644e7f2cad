package reportshandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"leavehub/internal/domain/auth"
	"leavehub/internal/domain/reports"
	"leavehub/internal/transport/http/api"
	"leavehub/internal/transport/http/middleware"
)

const defaultRangeDays = 30

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/leave-summary", h.handleLeaveSummary)
	})
}

func (h *Handler) handleLeaveSummary(w http.ResponseWriter, r *http.Request) {
	rangeDays := defaultRangeDays
	if raw := r.URL.Query().Get("range"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", "range must be a positive number of days", middleware.GetRequestID(r.Context()))
			return
		}
		rangeDays = parsed
	}

	from := time.Now().UTC().AddDate(0, 0, -rangeDays)
	summary, err := h.Service.LeaveSummary(r.Context(), from)
	if err != nil {
		slog.Error("failed to build leave summary", "err", err)
		api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to generate report", middleware.GetRequestID(r.Context()))
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		api.Success(w, summary, middleware.GetRequestID(r.Context()))
	case "csv":
		data, err := summary.CSV()
		if err != nil {
			slog.Error("leave summary csv export failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to export report", middleware.GetRequestID(r.Context()))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=leave-summary.csv")
		if _, err := w.Write(data); err != nil {
			slog.Warn("leave summary csv write failed", "err", err)
		}
	case "pdf":
		data, err := summary.PDF()
		if err != nil {
			slog.Error("leave summary pdf export failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to export report", middleware.GetRequestID(r.Context()))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=leave-summary.pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		if _, err := w.Write(data); err != nil {
			slog.Warn("leave summary pdf write failed", "err", err)
		}
	default:
		api.Fail(w, http.StatusBadRequest, "INVALID_PAYLOAD", fmt.Sprintf("unsupported format %q", r.URL.Query().Get("format")), middleware.GetRequestID(r.Context()))
	}
}
