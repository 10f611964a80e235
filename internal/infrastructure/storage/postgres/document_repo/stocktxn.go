// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/domain/documents/stocktxn"
	"bakeops/internal/infrastructure/storage/postgres"
)

const txnTable = "doc_stock_transactions"

var txnCols = postgres.ExtractDBColumns[stocktxn.StockTransaction]()

// StockTxnRepo implements stocktxn.Repository.
type StockTxnRepo struct {
	txm *postgres.TxManager
}

// Compile-time interface check.
var _ stocktxn.Repository = (*StockTxnRepo)(nil)

// NewStockTxnRepo creates a stock transaction repository.
func NewStockTxnRepo(txm *postgres.TxManager) *StockTxnRepo {
	return &StockTxnRepo{txm: txm}
}

func (r *StockTxnRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert appends a committed movement to the log.
func (r *StockTxnRepo) Insert(ctx context.Context, t *stocktxn.StockTransaction) error {
	data := postgres.StructToMap(t)

	q := r.builder().
		Insert(txnTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", txnTable, err)
	}

	return nil
}

// GetByID retrieves one movement.
func (r *StockTxnRepo) GetByID(ctx context.Context, txnID id.ID) (*stocktxn.StockTransaction, error) {
	q := r.builder().
		Select(txnCols...).
		From(txnTable).
		Where(squirrel.Eq{"id": txnID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t stocktxn.StockTransaction
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(txnTable, txnID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &t, nil
}

func applyFilter(q squirrel.SelectBuilder, filter stocktxn.Filter) squirrel.SelectBuilder {
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.ProductType != nil {
		q = q.Where(squirrel.Eq{"product_type": *filter.ProductType})
	}
	if filter.Direction != nil {
		q = q.Where(squirrel.Eq{"direction": *filter.Direction})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.DateTo})
	}
	return q
}

// List returns movements matching the filter, newest first.
func (r *StockTxnRepo) List(ctx context.Context, filter stocktxn.Filter) ([]*stocktxn.StockTransaction, error) {
	q := applyFilter(r.builder().Select(txnCols...).From(txnTable), filter).
		OrderBy("created_at DESC", "number DESC")

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

	var items []*stocktxn.StockTransaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

// Count returns the number of movements matching the filter.
func (r *StockTxnRepo) Count(ctx context.Context, filter stocktxn.Filter) (int64, error) {
	q := applyFilter(r.builder().Select("COUNT(*)").From(txnTable), filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}
