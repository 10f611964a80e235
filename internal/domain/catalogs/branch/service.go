package branch

import (
	"context"
	"fmt"
	"time"

	"bakeops/internal/core/id"
	"bakeops/pkg/logger"
	"bakeops/pkg/numerator"
)

// Service provides business logic for the Branch catalog.
type Service struct {
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Branch service.
func NewService(repo Repository, gen numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
	}
}

// Create validates and persists a new branch.
func (s *Service) Create(ctx context.Context, b *Branch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if b.Code == "" {
		cfg := numerator.DefaultConfig("BR")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}

	logger.Info(ctx, "branch created", "id", b.ID, "name", b.Name, "city", b.City)
	return nil
}

// Update validates and persists changes to an existing branch.
func (s *Service) Update(ctx context.Context, b *Branch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	b.Touch()
	return s.repo.Update(ctx, b)
}

// GetByID retrieves a branch by primary key.
func (s *Service) GetByID(ctx context.Context, branchID id.ID) (*Branch, error) {
	return s.repo.GetByID(ctx, branchID)
}

// List returns all branches ordered by code.
func (s *Service) List(ctx context.Context) ([]*Branch, error) {
	return s.repo.List(ctx)
}
