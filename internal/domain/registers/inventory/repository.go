package inventory

import (
	"context"

	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
)

// Repository defines the interface for balance persistence.
// Increase and Decrease must run inside a transaction opened by the caller.
type Repository interface {
	// GetBalance retrieves the balance row for a key.
	// Returns apperror.NewNotFound when the key has never been stocked.
	GetBalance(ctx context.Context, key Key) (*Balance, error)

	// GetBalanceForUpdate retrieves the balance row with a row lock
	// (SELECT ... FOR UPDATE), serializing concurrent movements per key.
	GetBalanceForUpdate(ctx context.Context, key Key) (*Balance, error)

	// Increase adds qty to the balance, creating the row when absent.
	Increase(ctx context.Context, key Key, qty types.Quantity) error

	// Decrease atomically subtracts qty, guarded by the current value:
	//
	//   UPDATE ... SET quantity = quantity - $qty
	//   WHERE <key> AND quantity >= $qty
	//
	// Returns apperror.NewInsufficientStock when no row matched, so the
	// balance can never go negative even without the row lock.
	Decrease(ctx context.Context, key Key, qty types.Quantity) error

	// ListByBranch returns all balance rows for a branch ordered by
	// product type and name.
	ListByBranch(ctx context.Context, branchID id.ID) ([]*Balance, error)

	// ListByBranchAndType narrows ListByBranch to one product type.
	ListByBranchAndType(ctx context.Context, branchID id.ID, productType product.Type) ([]*Balance, error)

	// RebuildFromLog deletes the branch's balance rows and re-derives them
	// by folding the transaction log. Must run inside a transaction.
	RebuildFromLog(ctx context.Context, branchID id.ID) error
}
