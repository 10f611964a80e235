// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/registers/inventory"
	"bakeops/internal/infrastructure/storage/postgres"
)

const balanceTable = "reg_inventory_balances"

var balanceCols = postgres.ExtractDBColumns[inventory.Balance]()

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	txm *postgres.TxManager
}

// Compile-time interface check.
var _ inventory.Repository = (*InventoryRepo)(nil)

// NewInventoryRepo creates an inventory balance repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{txm: txm}
}

func (r *InventoryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func keyWhere(key inventory.Key) squirrel.Eq {
	return squirrel.Eq{
		"branch_id":    key.BranchID,
		"product_type": key.ProductType,
		"product_name": key.ProductName,
	}
}

func (r *InventoryRepo) getBalance(ctx context.Context, key inventory.Key, forUpdate bool) (*inventory.Balance, error) {
	q := r.builder().
		Select(balanceCols...).
		From(balanceTable).
		Where(keyWhere(key))

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var bal inventory.Balance
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &bal, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(balanceTable, key.ProductName)
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}

	return &bal, nil
}

// GetBalance retrieves the balance row for a key.
func (r *InventoryRepo) GetBalance(ctx context.Context, key inventory.Key) (*inventory.Balance, error) {
	return r.getBalance(ctx, key, false)
}

// GetBalanceForUpdate retrieves the balance row with a row lock.
func (r *InventoryRepo) GetBalanceForUpdate(ctx context.Context, key inventory.Key) (*inventory.Balance, error) {
	return r.getBalance(ctx, key, true)
}

// Increase adds qty to the balance, creating the row when absent.
func (r *InventoryRepo) Increase(ctx context.Context, key inventory.Key, qty types.Quantity) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO reg_inventory_balances (branch_id, product_type, product_name, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (branch_id, product_type, product_name)
		DO UPDATE SET quantity   = reg_inventory_balances.quantity + EXCLUDED.quantity,
		              updated_at = now()
	`, key.BranchID, key.ProductType, key.ProductName, qty.Int64Scaled())
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}
	return nil
}

// Decrease atomically subtracts qty, guarded by the current value so a
// balance can never go negative.
func (r *InventoryRepo) Decrease(ctx context.Context, key inventory.Key, qty types.Quantity) error {
	result, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		UPDATE reg_inventory_balances
		SET quantity   = quantity - $4,
		    updated_at = now()
		WHERE branch_id = $1 AND product_type = $2 AND product_name = $3
		  AND quantity >= $4
	`, key.BranchID, key.ProductType, key.ProductName, qty.Int64Scaled())
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		bal, getErr := r.getBalance(ctx, key, false)
		if getErr != nil {
			if apperror.IsNotFound(getErr) {
				return apperror.NewNoInventoryRecord(key.BranchID.String(), string(key.ProductType), key.ProductName)
			}
			return getErr
		}
		return apperror.NewInsufficientStock(key.ProductName, qty.Float64(), bal.Quantity.Float64())
	}

	return nil
}

// ListByBranch returns all balance rows for a branch.
func (r *InventoryRepo) ListByBranch(ctx context.Context, branchID id.ID) ([]*inventory.Balance, error) {
	return r.list(ctx, squirrel.Eq{"branch_id": branchID})
}

// ListByBranchAndType narrows ListByBranch to one product type.
func (r *InventoryRepo) ListByBranchAndType(ctx context.Context, branchID id.ID, productType product.Type) ([]*inventory.Balance, error) {
	return r.list(ctx, squirrel.Eq{"branch_id": branchID, "product_type": productType})
}

func (r *InventoryRepo) list(ctx context.Context, where squirrel.Eq) ([]*inventory.Balance, error) {
	q := r.builder().
		Select(balanceCols...).
		From(balanceTable).
		Where(where).
		OrderBy("product_type ASC", "product_name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Balance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	return items, nil
}

// RebuildFromLog re-derives a branch's balances by folding the transaction
// log. Keys whose movements net to zero keep a zero-quantity row, since
// having a row at all is what distinguishes "empty" from "never stocked".
func (r *InventoryRepo) RebuildFromLog(ctx context.Context, branchID id.ID) error {
	querier := r.txm.GetQuerier(ctx)

	if _, err := querier.Exec(ctx, `
		DELETE FROM reg_inventory_balances WHERE branch_id = $1
	`, branchID); err != nil {
		return fmt.Errorf("clear balances: %w", err)
	}

	if _, err := querier.Exec(ctx, `
		INSERT INTO reg_inventory_balances (branch_id, product_type, product_name, quantity, updated_at)
		SELECT branch_id,
		       product_type,
		       product_name,
		       SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END),
		       now()
		FROM doc_stock_transactions
		WHERE branch_id = $1
		GROUP BY branch_id, product_type, product_name
	`, branchID); err != nil {
		return fmt.Errorf("rebuild balances: %w", err)
	}

	return nil
}
