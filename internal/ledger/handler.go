package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumonpay/lumonpay/internal/money"
	"github.com/lumonpay/lumonpay/internal/platform/httpx"
	"github.com/lumonpay/lumonpay/internal/shared"
)

// Handler manages ledger endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	staging  *Staging
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, staging *Staging) *Handler {
	return &Handler{logger: logger, service: service, staging: staging, validate: validator.New()}
}

// MountRoutes registers ledger-wide routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/import", h.importBatch)
	r.Post("/staging", h.stage)
	r.Post("/staging/{loanNo}/commit", h.commit)
	r.Delete("/{id}", h.deleteEntry)
}

// MountLoanRoutes registers per-loan ledger routes under /loans.
func (h *Handler) MountLoanRoutes(r chi.Router) {
	r.Get("/{loanCycleNo}/ledger", h.listEntries)
	r.Post("/{loanCycleNo}/ledger", h.addEntry)
}

// rowRequest is one untrusted candidate row. Amounts may arrive as
// numbers, plain strings, or formatted strings; dates as any accepted
// layout.
type rowRequest struct {
	PaymentDate           string          `json:"paymentDate"`
	Collector             string          `json:"collector"`
	PaymentMode           string          `json:"paymentMode"`
	CollectionReferenceNo string          `json:"collectionReferenceNo"`
	Amortization          json.RawMessage `json:"amortization"`
	PrincipalPaid         json.RawMessage `json:"principalPaid"`
	InterestPaid          json.RawMessage `json:"interestPaid"`
	Penalty               json.RawMessage `json:"penalty"`
	CollectionPayment     json.RawMessage `json:"collectionPayment"`
	RunningBalance        json.RawMessage `json:"runningBalance"`
	RawLine               string          `json:"rawLine"`
}

func (row rowRequest) toCandidate() Candidate {
	return Candidate{
		PaymentDate:       ParseDate(row.PaymentDate),
		Collector:         row.Collector,
		PaymentMode:       row.PaymentMode,
		ReferenceNo:       row.CollectionReferenceNo,
		Amortization:      money.FromJSON(row.Amortization),
		PrincipalPaid:     money.FromJSON(row.PrincipalPaid),
		InterestPaid:      money.FromJSON(row.InterestPaid),
		Penalty:           money.FromJSON(row.Penalty),
		CollectionPayment: money.FromJSON(row.CollectionPayment),
		RunningBalance:    money.FromJSON(row.RunningBalance),
	}
}

type importRequest struct {
	LoanCycleNo string       `json:"loanCycleNo" validate:"required"`
	ClientNo    string       `json:"clientNo"`
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	Source      string       `json:"source"`
	Rows        []rowRequest `json:"rows"`
}

func (h *Handler) importBatch(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
		return
	}

	rows := make([]Candidate, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, row.toCandidate())
	}

	result, err := h.service.Import(r.Context(), ImportRequest{
		LoanCycleNo: req.LoanCycleNo,
		ClientNo:    req.ClientNo,
		StartDate:   ParseDate(req.StartDate),
		EndDate:     ParseDate(req.EndDate),
		Source:      Source(req.Source),
		Rows:        rows,
	})
	if err != nil {
		h.logger.Error("ledger import", slog.Any("error", err), slog.String("loan_cycle_no", req.LoanCycleNo))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type stageRequest struct {
	LoanNo string       `json:"loanNo" validate:"required"`
	Rows   []rowRequest `json:"rows" validate:"min=1"`
}

func (h *Handler) stage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
		return
	}

	rows := make([]StagedRowInput, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, StagedRowInput{
			PaymentDate:       ParseDate(row.PaymentDate),
			ReferenceNo:       row.CollectionReferenceNo,
			CollectionPayment: money.FromJSON(row.CollectionPayment),
			RunningBalance:    money.FromJSON(row.RunningBalance),
			Penalty:           money.FromJSON(row.Penalty),
			RawLine:           row.RawLine,
		})
	}

	result, err := h.staging.Stage(r.Context(), req.LoanNo, rows)
	if err != nil {
		h.logger.Error("stage ledger rows", slog.Any("error", err), slog.String("loan_no", req.LoanNo))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	loanNo := chi.URLParam(r, "loanNo")

	result, err := h.staging.Commit(r.Context(), loanNo)
	if err != nil {
		h.logger.Error("commit staged rows", slog.Any("error", err), slog.String("loan_no", loanNo))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), chi.URLParam(r, "loanCycleNo"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	var row rowRequest
	if err := httpx.DecodeJSON(r, &row); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", shared.ErrInvalidInput))
		return
	}

	result, err := h.service.AddEntry(r.Context(), chi.URLParam(r, "loanCycleNo"), row.toCandidate())
	if err != nil {
		h.logger.Error("add ledger entry", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid entry id: %w", shared.ErrInvalidInput))
		return
	}
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}
