// Package finance derives financial entries from committed stock movements
// and provides revenue/expense reporting over them.
package finance

import (
	"time"

	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
)

// Kind classifies a financial entry.
type Kind string

const (
	KindRevenue Kind = "revenue"
	KindExpense Kind = "expense"
)

// Valid reports whether the kind is known.
func (k Kind) Valid() bool {
	return k == KindRevenue || k == KindExpense
}

// Entry is one derived financial record. Entries are produced by the
// deriver from committed stock movements and are never edited by hand.
type Entry struct {
	ID id.ID `db:"id" json:"id"`

	BranchID id.ID `db:"branch_id" json:"branchId"`

	// TransactionID references the stock movement the entry was derived from.
	TransactionID id.ID `db:"transaction_id" json:"transactionId"`

	// Product and quantity the entry was priced against, denormalized from
	// the movement so entries stay queryable by product on their own.
	ProductType product.Type   `db:"product_type" json:"productType"`
	ProductName string         `db:"product_name" json:"productName"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`

	Kind Kind `db:"kind" json:"kind"`

	// UnitPrice is the per-unit rate the amount was computed from: selling
	// price for revenue, production cost per unit or purchase cost per kg
	// for expenses. Amount = UnitPrice * Quantity.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`

	Description string `db:"description" json:"description"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Summary aggregates entries over a branch and period.
type Summary struct {
	Revenue types.Money `json:"revenue"`
	Expense types.Money `json:"expense"`
	Net     types.Money `json:"net"`
}
