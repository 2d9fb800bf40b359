package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumonpay/lumonpay/internal/loan"
	"github.com/lumonpay/lumonpay/internal/shared"
)

// CycleResolver resolves loan cycle numbers to canonical records.
type CycleResolver interface {
	GetCycleByNo(ctx context.Context, loanCycleNo string) (*loan.Cycle, error)
}

// RepositoryPort defines data access methods for the ledger.
type RepositoryPort interface {
	ListEntries(ctx context.Context, loanCycleNo string) ([]Entry, error)
	LastEntry(ctx context.Context, loanCycleNo string) (*Entry, error)
	InsertEntries(ctx context.Context, inputs []EntryInput) (inserted, failed int, err error)
	DeleteEntry(ctx context.Context, id int64) error
	InsertStagedRows(ctx context.Context, batchID, loanNo string, rows []StagedRowInput) (int, error)
	ListPendingStaged(ctx context.Context, loanNo string) ([]StagedRow, error)
	MarkStagedImported(ctx context.Context, loanNo string) (int64, error)
	DeleteStaleStaged(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service merges externally sourced collection rows into the canonical
// per-loan-cycle ledger.
type Service struct {
	logger *slog.Logger
	cycles CycleResolver
	repo   RepositoryPort
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, cycles CycleResolver, repo RepositoryPort) *Service {
	return &Service{logger: logger, cycles: cycles, repo: repo}
}

// ImportRequest is a batch of candidate rows for one loan cycle.
type ImportRequest struct {
	LoanCycleNo string
	// ClientNo, when set, must match the resolved loan cycle's client.
	ClientNo string
	// StartDate/EndDate optionally restrict which candidate payment
	// dates participate.
	StartDate time.Time
	EndDate   time.Time
	Source    Source
	Rows      []Candidate
}

// ImportResult reports batch outcome. Callers must inspect counts, not
// just the absence of an error, to detect partial effects.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed,omitempty"`
}

// Import merges a batch of candidates into a loan cycle's ledger,
// skipping duplicates against both pre-existing entries and earlier
// rows of the same batch. Re-running with identical input inserts
// nothing the second time.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.LoanCycleNo == "" {
		return nil, fmt.Errorf("loan cycle number required: %w", shared.ErrInvalidInput)
	}

	cycle, err := s.cycles.GetCycleByNo(ctx, req.LoanCycleNo)
	if err != nil {
		return nil, err
	}
	if req.ClientNo != "" && req.ClientNo != cycle.ClientNo {
		return nil, fmt.Errorf("client %q does not match loan cycle %q: %w",
			req.ClientNo, req.LoanCycleNo, shared.ErrInvalidInput)
	}

	existing, err := s.repo.ListEntries(ctx, req.LoanCycleNo)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing)+len(req.Rows))
	for _, e := range existing {
		seen[EntryKey(e)] = struct{}{}
	}

	source := req.Source
	if source == "" {
		source = SourceDBImport
	}

	result := &ImportResult{}
	var pending []EntryInput
	for _, row := range req.Rows {
		if !inWindow(row.PaymentDate, req.StartDate, req.EndDate) {
			result.Skipped++
			continue
		}
		key := CandidateKey(req.LoanCycleNo, row)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}
		pending = append(pending, candidateToInput(cycle, row, source))
	}

	inserted, failed, err := s.repo.InsertEntries(ctx, pending)
	result.Inserted = inserted
	result.Failed = failed
	if err != nil {
		return result, err
	}
	if failed > 0 {
		s.logger.Warn("ledger import completed with row failures",
			slog.String("loan_cycle_no", req.LoanCycleNo),
			slog.Int("failed", failed))
	}
	return result, nil
}

// AddEntry records one manually keyed collection against a loan cycle.
func (s *Service) AddEntry(ctx context.Context, loanCycleNo string, row Candidate) (*ImportResult, error) {
	return s.Import(ctx, ImportRequest{
		LoanCycleNo: loanCycleNo,
		Source:      SourceManual,
		Rows:        []Candidate{row},
	})
}

// ListEntries returns the ledger for a loan cycle.
func (s *Service) ListEntries(ctx context.Context, loanCycleNo string) ([]Entry, error) {
	if _, err := s.cycles.GetCycleByNo(ctx, loanCycleNo); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, loanCycleNo)
}

// DeleteEntry removes one ledger entry by explicit admin action.
func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
	return s.repo.DeleteEntry(ctx, id)
}

func candidateToInput(cycle *loan.Cycle, row Candidate, source Source) EntryInput {
	// Canonical identifiers come from the resolved cycle; whatever the
	// candidate carried is not trusted.
	return EntryInput{
		LoanCycleNo:       cycle.LoanCycleNo,
		AccountNo:         cycle.AccountNo,
		ClientNo:          cycle.ClientNo,
		PaymentDate:       row.PaymentDate,
		Collector:         row.Collector,
		PaymentMode:       row.PaymentMode,
		ReferenceNo:       row.ReferenceNo,
		Amortization:      row.Amortization,
		PrincipalPaid:     row.PrincipalPaid,
		InterestPaid:      row.InterestPaid,
		Penalty:           row.Penalty,
		CollectionPayment: row.CollectionPayment,
		RunningBalance:    row.RunningBalance,
		Source:            source,
	}
}

func inWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}
