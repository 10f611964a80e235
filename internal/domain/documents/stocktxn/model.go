// Package stocktxn provides the stock transaction document: the append-only
// log of physical stock movements per branch.
package stocktxn

import (
	"context"
	"time"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/registers/inventory"
)

// Direction of a stock movement.
type Direction string

const (
	// DirectionIn records stock arriving at a branch (purchases, production).
	DirectionIn Direction = "in"

	// DirectionOut records stock leaving a branch (sales, consumption).
	DirectionOut Direction = "out"
)

// ParseDirection validates a raw string against the known directions.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", apperror.NewValidation("invalid direction").
			WithDetail("field", "direction").
			WithDetail("value", s)
	}
	return d, nil
}

// Valid reports whether the direction is known.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockTransaction is one committed stock movement. Rows are immutable:
// corrections are recorded as compensating movements, never edits.
type StockTransaction struct {
	ID id.ID `db:"id" json:"id"`

	// Number is the human-readable document number (e.g. ST-2026-00042)
	Number string `db:"number" json:"number"`

	BranchID id.ID `db:"branch_id" json:"branchId"`

	ProductType product.Type `db:"product_type" json:"productType"`

	// ProductID references the catalog entry the movement was recorded
	// against; ProductName is denormalized because the balance register
	// is keyed by name.
	ProductID   id.ID  `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`

	Direction Direction      `db:"direction" json:"direction"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`

	Note *string `db:"note" json:"note,omitempty"`

	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate implements entity.Validatable.
func (t *StockTransaction) Validate(ctx context.Context) error {
	if id.IsNil(t.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}

	if !t.ProductType.Valid() {
		return apperror.NewValidation("invalid product type").
			WithDetail("field", "productType").
			WithDetail("value", string(t.ProductType))
	}

	if !t.Direction.Valid() {
		return apperror.NewValidation("invalid direction").
			WithDetail("field", "direction").
			WithDetail("value", string(t.Direction))
	}

	if !t.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", t.Quantity.String())
	}

	return nil
}

// BalanceKey returns the inventory register key this movement touches.
func (t *StockTransaction) BalanceKey() inventory.Key {
	return inventory.Key{
		BranchID:    t.BranchID,
		ProductType: t.ProductType,
		ProductName: t.ProductName,
	}
}

// SignedQuantity returns the quantity with direction applied:
// positive for in, negative for out.
func (t *StockTransaction) SignedQuantity() types.Quantity {
	if t.Direction == DirectionOut {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
