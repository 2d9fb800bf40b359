package loan

import (
	"context"
	"fmt"

	"github.com/lumonpay/lumonpay/internal/shared"
)

// RepositoryPort defines data access methods for loan cycles.
type RepositoryPort interface {
	CreateCycle(ctx context.Context, input CycleInput) (*Cycle, error)
	GetCycleByNo(ctx context.Context, loanCycleNo string) (*Cycle, error)
	ListCycles(ctx context.Context, req ListCyclesRequest) ([]Cycle, error)
	CountCycles(ctx context.Context, req ListCyclesRequest) (int, error)
	UpdateCycle(ctx context.Context, loanCycleNo string, input CycleInput) (*Cycle, error)
	DeleteCycle(ctx context.Context, loanCycleNo string) error
}

// Service handles loan cycle business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateCycle records a newly approved loan cycle.
func (s *Service) CreateCycle(ctx context.Context, input CycleInput) (*Cycle, error) {
	if input.LoanCycleNo == "" {
		return nil, fmt.Errorf("loan cycle number required: %w", shared.ErrInvalidInput)
	}
	if input.ClientNo == "" {
		return nil, fmt.Errorf("client number required: %w", shared.ErrInvalidInput)
	}
	input.PaymentMode = NormalizeMode(string(input.PaymentMode))
	return s.repo.CreateCycle(ctx, input)
}

// GetCycle returns one loan cycle by cycle number.
func (s *Service) GetCycle(ctx context.Context, loanCycleNo string) (*Cycle, error) {
	return s.repo.GetCycleByNo(ctx, loanCycleNo)
}

// ListCycles returns loan cycles matching the filter along with
// pagination metadata.
func (s *Service) ListCycles(ctx context.Context, req ListCyclesRequest) ([]Cycle, shared.Pagination, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	cycles, err := s.repo.ListCycles(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	total, err := s.repo.CountCycles(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	page := req.Offset/req.Limit + 1
	return cycles, shared.NewPagination(page, req.Limit, total), nil
}

// UpdateCycle applies a manual edit. A stored CLOSED status can only be
// replaced by an explicit edit like this one, never by the automated pass.
func (s *Service) UpdateCycle(ctx context.Context, loanCycleNo string, input CycleInput) (*Cycle, error) {
	if loanCycleNo == "" {
		return nil, fmt.Errorf("loan cycle number required: %w", shared.ErrInvalidInput)
	}
	input.PaymentMode = NormalizeMode(string(input.PaymentMode))
	return s.repo.UpdateCycle(ctx, loanCycleNo, input)
}

// DeleteCycle removes a loan cycle by explicit admin action.
func (s *Service) DeleteCycle(ctx context.Context, loanCycleNo string) error {
	if loanCycleNo == "" {
		return fmt.Errorf("loan cycle number required: %w", shared.ErrInvalidInput)
	}
	return s.repo.DeleteCycle(ctx, loanCycleNo)
}
