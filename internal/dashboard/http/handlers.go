package dashboardhttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ciclopay/ciclopay/internal/dashboard"
	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
)

const requestTimeout = 5 * time.Second

// DashboardService computes the consolidated dashboard for a user.
type DashboardService interface {
	Compute(ctx context.Context, userID string) (engine.Dashboard, error)
}

// Handler serves the consolidated dashboard and its spreadsheet export.
type Handler struct {
	logger  *slog.Logger
	service DashboardService
}

func NewHandler(logger *slog.Logger, service DashboardService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dash, err := h.service.Compute(ctx, actor.UserID)
	if err != nil {
		h.logError("compute dashboard", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dash, err := h.service.Compute(ctx, actor.UserID)
	if err != nil {
		h.logError("compute dashboard", err)
		httpx.RespondError(w, err)
		return
	}

	file, err := dashboard.ExportXLSX(dash)
	if err != nil {
		h.logError("render xlsx", err)
		httpx.RespondError(w, err)
		return
	}
	defer func() { _ = file.Close() }()

	filename := fmt.Sprintf("dashboard-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := file.Write(w); err != nil {
		h.logError("stream xlsx", err)
	}
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
