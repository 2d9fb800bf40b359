package clients

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumonpay/lumonpay/internal/platform/httpx"
	"github.com/lumonpay/lumonpay/internal/shared"
)

// Handler manages client profile endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers client routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createProfile)
	r.Get("/{clientNo}", h.getProfile)
	r.Put("/{clientNo}", h.mergeProfile)
}

type createProfileRequest struct {
	ClientNo string `json:"clientNo" validate:"required"`
	ProfileInput
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), req.ClientNo, req.ProfileInput)
	if err != nil {
		h.logger.Error("create client", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, profile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "clientNo"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) mergeProfile(w http.ResponseWriter, r *http.Request) {
	var input ProfileInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}

	profile, err := h.service.MergeProfile(r.Context(), chi.URLParam(r, "clientNo"), input)
	if err != nil {
		h.logger.Error("merge client profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}
