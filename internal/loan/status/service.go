package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumonpay/lumonpay/internal/loan"
)

// CycleSnapshot is one loan cycle joined with its latest ledger entry.
type CycleSnapshot struct {
	LoanCycleNo    string
	Status         loan.Status
	PaymentMode    loan.PaymentMode
	MaturityDate   *time.Time
	LastCollection *time.Time
	LastBalance    *decimal.Decimal
	LastPayment    *decimal.Decimal
	LastPenalty    *decimal.Decimal
}

// Filter restricts which loan cycles a pass evaluates.
type Filter struct {
	ClientNo  string `json:"clientNo,omitempty"`
	Collector string `json:"collector,omitempty"`
	LoanType  string `json:"loanType,omitempty"`
}

// Update is one staged write against a loan cycle. Nil fields are left
// untouched.
type Update struct {
	LoanCycleNo  string
	Status       *loan.Status
	Reason       string
	Balance      *decimal.Decimal
	Amortization *decimal.Decimal
	Penalty      *decimal.Decimal
}

// RepositoryPort defines data access methods for the status pass.
type RepositoryPort interface {
	ListSnapshots(ctx context.Context, filter Filter) ([]CycleSnapshot, error)
	ApplyUpdates(ctx context.Context, updates []Update) (applied, failed int, err error)
}

// Service runs automated status passes.
type Service struct {
	logger   *slog.Logger
	repo     RepositoryPort
	defaults Thresholds
	now      func() time.Time
}

// NewService builds Service instance. The clock is injectable for tests.
func NewService(logger *slog.Logger, repo RepositoryPort, defaults Thresholds) *Service {
	return &Service{logger: logger, repo: repo, defaults: defaults, now: time.Now}
}

// WithClock overrides the pass clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PassRequest configures one status pass.
type PassRequest struct {
	Thresholds *Override `json:"thresholds,omitempty"`
	Filter     Filter    `json:"filter,omitempty"`
}

// PassResult reports how many cycles were evaluated and how many had
// their stored status replaced.
type PassResult struct {
	Computed int `json:"computed"`
	Changed  int `json:"changed"`
	Failed   int `json:"failed,omitempty"`
}

// Pass classifies every non-CLOSED loan cycle in scope, stages a status
// update where the computed value differs from the stored one, and
// independently stages a sync of balance, amortization, and penalty
// from the latest ledger entry whenever those source values exist.
// All staged updates apply as one batch; individual row failures do not
// abort the batch.
func (s *Service) Pass(ctx context.Context, req PassRequest) (*PassResult, error) {
	thresholds := s.defaults.Apply(req.Thresholds)
	now := s.now()

	snapshots, err := s.repo.ListSnapshots(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	result := &PassResult{}
	var updates []Update
	for _, snap := range snapshots {
		computed, reason, ok := Classify(now, thresholds, Snapshot{
			Status:         snap.Status,
			PaymentMode:    snap.PaymentMode,
			MaturityDate:   snap.MaturityDate,
			LastCollection: snap.LastCollection,
		})
		if !ok {
			continue
		}
		result.Computed++

		update := Update{
			LoanCycleNo:  snap.LoanCycleNo,
			Balance:      snap.LastBalance,
			Amortization: snap.LastPayment,
			Penalty:      snap.LastPenalty,
		}
		if computed != snap.Status {
			st := computed
			update.Status = &st
			update.Reason = reason
			result.Changed++
		}
		if update.Status == nil && update.Balance == nil && update.Amortization == nil && update.Penalty == nil {
			continue
		}
		updates = append(updates, update)
	}

	_, failed, err := s.repo.ApplyUpdates(ctx, updates)
	result.Failed = failed
	if err != nil {
		return result, err
	}
	if failed > 0 {
		s.logger.Warn("status pass completed with row failures", slog.Int("failed", failed))
	}
	s.logger.Info("status pass complete",
		slog.Int("computed", result.Computed),
		slog.Int("changed", result.Changed))
	return result, nil
}
