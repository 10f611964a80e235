package finance

import (
	"context"
	"time"

	"bakeops/internal/core/id"
	"bakeops/internal/domain/catalogs/product"
)

// Filter narrows entry queries.
type Filter struct {
	BranchID    *id.ID
	ProductType *product.Type
	Kind        *Kind
	DateFrom    *time.Time
	DateTo      *time.Time

	Limit  int
	Offset int
}

// Repository defines the interface for financial entry persistence.
type Repository interface {
	// InsertBatch stores the entries derived from one movement atomically.
	InsertBatch(ctx context.Context, entries []*Entry) error

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Entry, error)

	// ListByTransaction returns the entries derived from one movement.
	ListByTransaction(ctx context.Context, transactionID id.ID) ([]*Entry, error)

	// Summarize aggregates revenue and expense for a branch over a period.
	// Zero time bounds mean unbounded.
	Summarize(ctx context.Context, branchID id.ID, from, to time.Time) (*Summary, error)
}
