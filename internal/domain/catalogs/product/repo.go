package product

import (
	"context"

	"bakeops/internal/core/id"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error

	// Update modifies an existing product with optimistic locking.
	Update(ctx context.Context, p *Product) error

	// GetByID retrieves a product by primary key.
	// Returns apperror.NewNotFound when absent.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetByName retrieves a product by (type, name).
	GetByName(ctx context.Context, productType Type, name string) (*Product, error)

	// List returns products of a type ordered by code.
	List(ctx context.Context, productType Type) ([]*Product, error)

	// FirstOfType returns the first product of a type ordered by code.
	// Backs the current-cost oracle for raw materials.
	FirstOfType(ctx context.Context, productType Type) (*Product, error)
}
