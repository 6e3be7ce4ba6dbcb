package cycles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
)

// Handler manages cycle endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers cycle routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCycles)
	r.Post("/", h.createCycle)
	r.Put("/{id}", h.replaceCycle)
	r.Delete("/{id}", h.deleteCycle)
	r.Post("/batch-delete", h.deleteCycles)
}

func (h *Handler) listCycles(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCycles(r.Context())
	if err != nil {
		h.logger.Error("list cycles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createCycle(w http.ResponseWriter, r *http.Request) {
	var req SaveCycleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	cycle, err := h.service.CreateCycle(r.Context(), shared.ActorFromContext(r.Context()), req)
	if err != nil {
		h.logger.Warn("create cycle", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cycle)
}

func (h *Handler) replaceCycle(w http.ResponseWriter, r *http.Request) {
	var req SaveCycleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	cycle, err := h.service.ReplaceCycle(r.Context(), shared.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cycle)
}

func (h *Handler) deleteCycle(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteCycle(r.Context(), shared.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteCycles(w http.ResponseWriter, r *http.Request) {
	var req DeleteBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	n, err := h.service.DeleteCycles(r.Context(), shared.ActorFromContext(r.Context()), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
