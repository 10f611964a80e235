// Package finance_repo provides PostgreSQL implementations for finance repositories.
package finance_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"bakeops/internal/core/id"
	"bakeops/internal/domain/finance"
	"bakeops/internal/infrastructure/storage/postgres"
)

const entryTable = "fin_entries"

var entryCols = postgres.ExtractDBColumns[finance.Entry]()

// EntryRepo implements finance.Repository.
type EntryRepo struct {
	txm *postgres.TxManager
}

// Compile-time interface check.
var _ finance.Repository = (*EntryRepo)(nil)

// NewEntryRepo creates a financial entry repository.
func NewEntryRepo(txm *postgres.TxManager) *EntryRepo {
	return &EntryRepo{txm: txm}
}

func (r *EntryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// InsertBatch stores the entries derived from one movement atomically.
func (r *EntryRepo) InsertBatch(ctx context.Context, entries []*finance.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	q := r.builder().
		Insert(entryTable).
		Columns("id", "branch_id", "transaction_id", "product_type", "product_name",
			"quantity", "kind", "unit_price", "amount", "description", "created_at")

	for _, e := range entries {
		q = q.Values(e.ID, e.BranchID, e.TransactionID, e.ProductType, e.ProductName,
			e.Quantity, e.Kind, e.UnitPrice, e.Amount, e.Description, e.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", entryTable, err)
	}

	return nil
}

func applyFilter(q squirrel.SelectBuilder, filter finance.Filter) squirrel.SelectBuilder {
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.ProductType != nil {
		q = q.Where(squirrel.Eq{"product_type": *filter.ProductType})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.DateTo})
	}
	return q
}

// List returns entries matching the filter, newest first.
func (r *EntryRepo) List(ctx context.Context, filter finance.Filter) ([]*finance.Entry, error) {
	q := applyFilter(r.builder().Select(entryCols...).From(entryTable), filter).
		OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*finance.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return items, nil
}

// ListByTransaction returns the entries derived from one movement.
func (r *EntryRepo) ListByTransaction(ctx context.Context, transactionID id.ID) ([]*finance.Entry, error) {
	q := r.builder().
		Select(entryCols...).
		From(entryTable).
		Where(squirrel.Eq{"transaction_id": transactionID}).
		OrderBy("kind ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*finance.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list entries by transaction: %w", err)
	}
	return items, nil
}

// Summarize aggregates revenue and expense for a branch over a period.
func (r *EntryRepo) Summarize(ctx context.Context, branchID id.ID, from, to time.Time) (*finance.Summary, error) {
	q := r.builder().
		Select(
			"COALESCE(SUM(amount) FILTER (WHERE kind = 'revenue'), 0) AS revenue",
			"COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0) AS expense",
		).
		From(entryTable).
		Where(squirrel.Eq{"branch_id": branchID})

	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_at": from})
	}
	if !to.IsZero() {
		q = q.Where(squirrel.Lt{"created_at": to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var revenue, expense decimal.Decimal
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&revenue, &expense); err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return &finance.Summary{
		Revenue: revenue,
		Expense: expense,
	}, nil
}
