package inventory

import (
	"context"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/tx"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/pkg/logger"
)

// Service provides balance queries and the register mutations the
// transaction pipeline applies at commit time.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		repo: repo,
		txm:  txm,
	}
}

// GetBalance returns the balance row for a key.
// Returns apperror.NewNotFound when the key has never been stocked.
func (s *Service) GetBalance(ctx context.Context, key Key) (*Balance, error) {
	return s.repo.GetBalance(ctx, key)
}

// ListByBranch returns all balances for a branch.
func (s *Service) ListByBranch(ctx context.Context, branchID id.ID) ([]*Balance, error) {
	return s.repo.ListByBranch(ctx, branchID)
}

// ListByBranchAndType returns balances for one product type at a branch.
func (s *Service) ListByBranchAndType(ctx context.Context, branchID id.ID, productType product.Type) ([]*Balance, error) {
	return s.repo.ListByBranchAndType(ctx, branchID, productType)
}

// CheckAvailability locks the balance row for the key and verifies it covers
// the requested quantity. Must run inside the movement's transaction so the
// lock holds until commit.
//
// Returns NoInventoryRecord when the key was never stocked in, and
// InsufficientStock when the locked balance is below required.
func (s *Service) CheckAvailability(ctx context.Context, key Key, required types.Quantity) (*Balance, error) {
	bal, err := s.repo.GetBalanceForUpdate(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNoInventoryRecord(key.BranchID.String(), string(key.ProductType), key.ProductName)
		}
		return nil, err
	}

	if bal.Quantity < required {
		return nil, apperror.NewInsufficientStock(key.ProductName, required.Float64(), bal.Quantity.Float64())
	}

	return bal, nil
}

// Increase adds qty to the balance for a key, creating it when absent.
func (s *Service) Increase(ctx context.Context, key Key, qty types.Quantity) error {
	return s.repo.Increase(ctx, key, qty)
}

// Decrease subtracts qty from the balance with the conditional guard.
func (s *Service) Decrease(ctx context.Context, key Key, qty types.Quantity) error {
	return s.repo.Decrease(ctx, key, qty)
}

// Rebuild re-derives a branch's balances from the transaction log inside
// a single transaction. Used after manual log corrections.
func (s *Service) Rebuild(ctx context.Context, branchID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.RebuildFromLog(ctx, branchID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "inventory balances rebuilt", "branch_id", branchID)
	return nil
}
