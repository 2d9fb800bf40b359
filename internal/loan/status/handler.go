package status

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumonpay/lumonpay/internal/platform/httpx"
	"github.com/lumonpay/lumonpay/internal/shared"
)

// Handler manages status pass endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers status routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/pass", h.runPass)
}

func (h *Handler) runPass(w http.ResponseWriter, r *http.Request) {
	var req PassRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
			return
		}
	}

	result, err := h.service.Pass(r.Context(), req)
	if err != nil {
		h.logger.Error("status pass", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
