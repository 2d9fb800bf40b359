package loan

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lumonpay/lumonpay/internal/platform/httpx"
	"github.com/lumonpay/lumonpay/internal/shared"
)

// Handler manages loan cycle endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers loan cycle routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCycles)
	r.Post("/", h.createCycle)
	r.Get("/{loanCycleNo}", h.getCycle)
	r.Put("/{loanCycleNo}", h.updateCycle)
	r.Delete("/{loanCycleNo}", h.deleteCycle)
}

type cycleRequest struct {
	AccountNo        string          `json:"accountNo"`
	ClientNo         string          `json:"clientNo" validate:"required"`
	LoanCycleNo      string          `json:"loanCycleNo" validate:"required"`
	LoanType         string          `json:"loanType"`
	Status           string          `json:"status"`
	PaymentMode      string          `json:"paymentMode"`
	LoanAmount       decimal.Decimal `json:"loanAmount"`
	Principal        decimal.Decimal `json:"principal"`
	LoanBalance      decimal.Decimal `json:"loanBalance"`
	LoanAmortization decimal.Decimal `json:"loanAmortization"`
	Penalty          decimal.Decimal `json:"penalty"`
	MaturityDate     *time.Time      `json:"maturityDate"`
	StartPaymentDate *time.Time      `json:"startPaymentDate"`
	Collector        string          `json:"collector"`
	ProcessStatus    string          `json:"processStatus"`
}

func (req cycleRequest) toInput() CycleInput {
	return CycleInput{
		AccountNo:        req.AccountNo,
		ClientNo:         req.ClientNo,
		LoanCycleNo:      req.LoanCycleNo,
		LoanType:         req.LoanType,
		Status:           Status(req.Status),
		PaymentMode:      NormalizeMode(req.PaymentMode),
		LoanAmount:       req.LoanAmount,
		Principal:        req.Principal,
		LoanBalance:      req.LoanBalance,
		LoanAmortization: req.LoanAmortization,
		Penalty:          req.Penalty,
		MaturityDate:     req.MaturityDate,
		StartPaymentDate: req.StartPaymentDate,
		Collector:        req.Collector,
		ProcessStatus:    req.ProcessStatus,
	}
}

func (h *Handler) createCycle(w http.ResponseWriter, r *http.Request) {
	var req cycleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
		return
	}

	cycle, err := h.service.CreateCycle(r.Context(), req.toInput())
	if err != nil {
		h.logger.Error("create loan cycle", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cycle)
}

func (h *Handler) getCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.service.GetCycle(r.Context(), chi.URLParam(r, "loanCycleNo"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cycle)
}

func (h *Handler) listCycles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ListCyclesRequest{
		Status:        Status(q.Get("status")),
		Collector:     q.Get("collector"),
		ProcessStatus: q.Get("processStatus"),
		ClientNo:      q.Get("clientNo"),
	}
	if from := q.Get("from"); from != "" {
		req.FromDate, _ = time.Parse("2006-01-02", from)
	}
	if to := q.Get("to"); to != "" {
		req.ToDate, _ = time.Parse("2006-01-02", to)
	}
	if perPage, _ := strconv.Atoi(q.Get("perPage")); perPage > 0 {
		req.Limit = perPage
	}
	if page, _ := strconv.Atoi(q.Get("page")); page > 1 {
		if req.Limit <= 0 {
			req.Limit = 100
		}
		req.Offset = (page - 1) * req.Limit
	}

	cycles, pagination, err := h.service.ListCycles(r.Context(), req)
	if err != nil {
		h.logger.Error("list loan cycles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"loans": cycles, "pagination": pagination})
}

func (h *Handler) updateCycle(w http.ResponseWriter, r *http.Request) {
	var req cycleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}

	cycle, err := h.service.UpdateCycle(r.Context(), chi.URLParam(r, "loanCycleNo"), req.toInput())
	if err != nil {
		h.logger.Error("update loan cycle", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cycle)
}

func (h *Handler) deleteCycle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCycle(r.Context(), chi.URLParam(r, "loanCycleNo")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}
