package clients

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumonpay/lumonpay/internal/shared"
)

// RepositoryPort defines data access methods for client profiles.
type RepositoryPort interface {
	CreateProfile(ctx context.Context, clientNo string, input ProfileInput) (*Profile, error)
	GetProfile(ctx context.Context, clientNo string) (*Profile, error)
	UpdateProfile(ctx context.Context, clientNo string, merge Merge) (*Profile, error)
}

// Service handles client profile business logic.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort) *Service {
	return &Service{logger: logger, repo: repo}
}

// CreateProfile registers a client.
func (s *Service) CreateProfile(ctx context.Context, clientNo string, input ProfileInput) (*Profile, error) {
	if clientNo == "" {
		return nil, fmt.Errorf("client number required: %w", shared.ErrInvalidInput)
	}
	return s.repo.CreateProfile(ctx, clientNo, input)
}

// GetProfile returns one client profile.
func (s *Service) GetProfile(ctx context.Context, clientNo string) (*Profile, error) {
	return s.repo.GetProfile(ctx, clientNo)
}

// MergeProfile applies a profile update non-destructively. A merge that
// changes nothing issues no update call and returns the stored record.
func (s *Service) MergeProfile(ctx context.Context, clientNo string, incoming ProfileInput) (*Profile, error) {
	stored, err := s.repo.GetProfile(ctx, clientNo)
	if err != nil {
		return nil, err
	}

	merge := MergeProfile(*stored, incoming)
	if !merge.Changed {
		return stored, nil
	}
	return s.repo.UpdateProfile(ctx, clientNo, merge)
}
