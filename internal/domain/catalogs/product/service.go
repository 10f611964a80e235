package product

import (
	"context"
	"fmt"
	"time"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/pkg/logger"
	"bakeops/pkg/numerator"
)

// Service provides business logic for the Product catalog.
type Service struct {
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Product service.
func NewService(repo Repository, gen numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
	}
}

// Create validates and persists a new catalog entry.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.Code == "" {
		cfg := numerator.DefaultConfig("PR")
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created",
		"id", p.ID,
		"type", p.Type,
		"name", p.Name,
	)
	return nil
}

// Update validates and persists changes to an existing entry.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	p.Touch()
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a product by primary key.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products of a type ordered by code.
func (s *Service) List(ctx context.Context, productType Type) ([]*Product, error) {
	return s.repo.List(ctx, productType)
}

// Resolve maps a product choice (id or name) within a type to the full
// catalog entry. Returns apperror.NewNotFound when the choice does not
// resolve; callers decide how to surface that.
func (s *Service) Resolve(ctx context.Context, productType Type, choice string) (*Product, error) {
	if productID, err := id.Parse(choice); err == nil {
		p, err := s.repo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p.Type != productType {
			return nil, apperror.NewNotFound("product", choice).
				WithDetail("product_type", string(productType))
		}
		return p, nil
	}

	return s.repo.GetByName(ctx, productType, choice)
}

// CurrentCostPerKG returns the current representative purchase cost for a
// raw material type: the first catalog record of that type ordered by code.
// The system does not track which batch was consumed; this is the single
// current rate the derivation pipeline prices recipes with.
func (s *Service) CurrentCostPerKG(ctx context.Context, rawType Type) (types.Money, error) {
	p, err := s.repo.FirstOfType(ctx, rawType)
	if err != nil {
		return types.ZeroMoney(), err
	}
	return p.CostPerKG, nil
}
