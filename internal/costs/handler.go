package costs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ciclopay/ciclopay/internal/platform/httpx"
	"github.com/ciclopay/ciclopay/internal/shared"
)

// Handler manages cost endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers cost routes. There is no edit route: costs are
// append-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCosts)
	r.Post("/", h.createCost)
	r.Delete("/{id}", h.deleteCost)
}

func (h *Handler) listCosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCosts(r.Context())
	if err != nil {
		h.logger.Error("list costs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createCost(w http.ResponseWriter, r *http.Request) {
	var req CreateCostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	cost, err := h.service.CreateCost(r.Context(), shared.ActorFromContext(r.Context()), req)
	if err != nil {
		h.logger.Warn("create cost", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cost)
}

func (h *Handler) deleteCost(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteCost(r.Context(), shared.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
