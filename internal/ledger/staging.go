package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumonpay/lumonpay/internal/shared"
)

// Staging implements the two-phase import: parsed rows are staged for
// review, then committed into the canonical ledger.
//
// Commit deliberately does not run the dedup check the reconciler
// applies. Staging is the trusted fast path for rows an operator has
// already reviewed; the defensive path is reserved for bulk legacy
// imports. Unifying the two would change historical import counts.
type Staging struct {
	logger *slog.Logger
	cycles CycleResolver
	repo   RepositoryPort
}

// NewStaging builds Staging instance.
func NewStaging(logger *slog.Logger, cycles CycleResolver, repo RepositoryPort) *Staging {
	return &Staging{logger: logger, cycles: cycles, repo: repo}
}

// StageResult reports a staging outcome.
type StageResult struct {
	BatchID string `json:"batchId"`
	Staged  int    `json:"staged"`
}

// Stage persists parsed rows for a loan number with imported=false.
func (s *Staging) Stage(ctx context.Context, loanNo string, rows []StagedRowInput) (*StageResult, error) {
	if loanNo == "" {
		return nil, fmt.Errorf("loan number required: %w", shared.ErrInvalidInput)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to stage: %w", shared.ErrInvalidInput)
	}

	batchID := uuid.NewString()
	staged, err := s.repo.InsertStagedRows(ctx, batchID, loanNo, rows)
	if err != nil {
		return nil, err
	}
	return &StageResult{BatchID: batchID, Staged: staged}, nil
}

// CommitResult reports a commit outcome. NothingPending is an advisory,
// not an error: committing with no pending rows succeeds vacuously.
type CommitResult struct {
	Imported       int  `json:"imported"`
	Failed         int  `json:"failed,omitempty"`
	NothingPending bool `json:"nothingPending,omitempty"`
}

// Commit resolves the loan number, converts every pending staged row
// into a ledger entry tagged source=imported, then flips the staged
// rows to imported=true.
func (s *Staging) Commit(ctx context.Context, loanNo string) (*CommitResult, error) {
	if loanNo == "" {
		return nil, fmt.Errorf("loan number required: %w", shared.ErrInvalidInput)
	}

	cycle, err := s.cycles.GetCycleByNo(ctx, loanNo)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.ListPendingStaged(ctx, loanNo)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return &CommitResult{NothingPending: true}, nil
	}

	inputs := make([]EntryInput, 0, len(pending))
	for _, row := range pending {
		inputs = append(inputs, EntryInput{
			LoanCycleNo:       cycle.LoanCycleNo,
			AccountNo:         cycle.AccountNo,
			ClientNo:          cycle.ClientNo,
			PaymentDate:       row.PaymentDate,
			ReferenceNo:       row.ReferenceNo,
			Penalty:           row.Penalty,
			CollectionPayment: row.CollectionPayment,
			RunningBalance:    row.RunningBalance,
			Source:            SourceImported,
		})
	}

	imported, failed, err := s.repo.InsertEntries(ctx, inputs)
	if err != nil {
		return &CommitResult{Imported: imported, Failed: failed}, err
	}
	if failed > 0 {
		s.logger.Warn("staged commit completed with row failures",
			slog.String("loan_no", loanNo),
			slog.Int("failed", failed))
	}

	if _, err := s.repo.MarkStagedImported(ctx, loanNo); err != nil {
		return &CommitResult{Imported: imported, Failed: failed}, err
	}
	return &CommitResult{Imported: imported, Failed: failed}, nil
}
