package backup

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ciclopay/ciclopay/internal/platform/httpx"
)

// Handler serves archive export and restore.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers backup endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/export", h.handleExport)
	r.Post("/restore", h.handleRestore)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	archive, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.Error("backup: export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	filename := fmt.Sprintf("ciclopay-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	httpx.JSON(w, http.StatusOK, archive)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	var archive Archive
	if err := httpx.DecodeJSON(r, &archive); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed archive")
		return
	}
	if err := h.service.Restore(r.Context(), archive); err != nil {
		h.logger.Error("backup: restore", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
