package branch

import (
	"context"

	"bakeops/internal/core/id"
)

// Repository defines the interface for Branch persistence.
type Repository interface {
	Create(ctx context.Context, b *Branch) error

	// Update modifies an existing branch with optimistic locking.
	Update(ctx context.Context, b *Branch) error

	// GetByID retrieves a branch by primary key.
	// Returns apperror.NewNotFound when absent.
	GetByID(ctx context.Context, branchID id.ID) (*Branch, error)

	// GetByCode retrieves a branch by its unique code.
	GetByCode(ctx context.Context, code string) (*Branch, error)

	// List returns all branches ordered by code.
	List(ctx context.Context) ([]*Branch, error)
}
