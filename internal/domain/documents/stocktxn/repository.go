package stocktxn

import (
	"context"
	"time"

	"bakeops/internal/core/id"
	"bakeops/internal/domain/catalogs/product"
)

// Filter narrows transaction log queries.
type Filter struct {
	BranchID    *id.ID
	ProductType *product.Type
	Direction   *Direction
	DateFrom    *time.Time
	DateTo      *time.Time

	Limit  int
	Offset int
}

// Repository defines the interface for the transaction log.
// The log is append-only: there is no Update or Delete.
type Repository interface {
	// Insert appends a committed movement to the log.
	Insert(ctx context.Context, t *StockTransaction) error

	// GetByID retrieves one movement.
	// Returns apperror.NewNotFound when absent.
	GetByID(ctx context.Context, txnID id.ID) (*StockTransaction, error)

	// List returns movements matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*StockTransaction, error)

	// Count returns the number of movements matching the filter.
	Count(ctx context.Context, filter Filter) (int64, error)
}
