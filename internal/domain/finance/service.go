package finance

import (
	"context"
	"time"

	"bakeops/internal/core/id"
)

// Service provides read access to derived financial entries.
type Service struct {
	repo Repository
}

// NewService creates a new finance service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// ListByTransaction returns the entries derived from one movement.
func (s *Service) ListByTransaction(ctx context.Context, transactionID id.ID) ([]*Entry, error) {
	return s.repo.ListByTransaction(ctx, transactionID)
}

// Summarize aggregates revenue, expense and net for a branch over a period.
func (s *Service) Summarize(ctx context.Context, branchID id.ID, from, to time.Time) (*Summary, error) {
	summary, err := s.repo.Summarize(ctx, branchID, from, to)
	if err != nil {
		return nil, err
	}

	summary.Net = summary.Revenue.Sub(summary.Expense)
	return summary, nil
}
