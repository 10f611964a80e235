// Package inventory provides the per-branch stock balance register.
//
// Balances are a materialized view over the stock transaction log: each
// committed movement adjusts the balance for its key, and a balance can
// always be rebuilt by folding the log from the beginning.
package inventory

import (
	"time"

	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
)

// Key identifies a balance: one product name of one type at one branch.
// Keyed by name rather than catalog ID so renamed or re-registered catalog
// entries with the same name share a stock history.
type Key struct {
	BranchID    id.ID
	ProductType product.Type
	ProductName string
}

// Balance is the current on-hand quantity for a key.
type Balance struct {
	BranchID    id.ID          `db:"branch_id" json:"branchId"`
	ProductType product.Type   `db:"product_type" json:"productType"`
	ProductName string         `db:"product_name" json:"productName"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Key returns the register key of the balance row.
func (b *Balance) Key() Key {
	return Key{
		BranchID:    b.BranchID,
		ProductType: b.ProductType,
		ProductName: b.ProductName,
	}
}
