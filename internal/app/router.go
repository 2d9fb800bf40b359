package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lumonpay/lumonpay/internal/clients"
	"github.com/lumonpay/lumonpay/internal/ledger"
	"github.com/lumonpay/lumonpay/internal/loan"
	"github.com/lumonpay/lumonpay/internal/loan/status"
	"github.com/lumonpay/lumonpay/internal/platform/httpx"
	"github.com/lumonpay/lumonpay/internal/shared"
	"github.com/lumonpay/lumonpay/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Maintenance    *MaintenanceSwitch
	LoanHandler    *loan.Handler
	LedgerHandler  *ledger.Handler
	StatusHandler  *status.Handler
	ClientsHandler *clients.Handler
	JobHandler     *jobs.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		Maintenance: params.Maintenance,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/loans", func(r chi.Router) {
		params.LoanHandler.MountRoutes(r)
		params.LedgerHandler.MountLoanRoutes(r)
	})
	r.Route("/ledger", params.LedgerHandler.MountRoutes)
	r.Route("/status", params.StatusHandler.MountRoutes)
	r.Route("/clients", params.ClientsHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/admin/maintenance", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			httpx.JSON(w, http.StatusOK, map[string]bool{"enabled": params.Maintenance.Enabled(req.Context())})
		})
		r.Put("/", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Enabled bool `json:"enabled"`
			}
			if err := httpx.DecodeJSON(req, &body); err != nil {
				httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
				return
			}
			if err := params.Maintenance.Set(req.Context(), body.Enabled); err != nil {
				params.Logger.Error("set maintenance mode", slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
		})
	})

	return r
}
