package finance

import (
	"context"
	"fmt"
	"time"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/tx"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/documents/stocktxn"
	"bakeops/pkg/logger"
)

// CostOracle supplies the current purchase cost per kilogram for a raw
// material type. Injected explicitly so the pricing source is visible at
// wiring time. Implemented by the product catalog service.
type CostOracle interface {
	CurrentCostPerKG(ctx context.Context, rawType product.Type) (types.Money, error)
}

// Deriver turns committed stock movements into financial entries.
//
// Rules:
//   - out movement of a finished good: one revenue entry (selling price
//     times quantity) and one expense entry (unit production cost times
//     quantity)
//   - in movement of a raw material: one expense entry (cost per kg times
//     quantity)
//   - any other combination: no entries
type Deriver struct {
	entries Repository
	costs   CostOracle
	txm     tx.Manager
}

// NewDeriver creates a deriver.
func NewDeriver(entries Repository, costs CostOracle, txm tx.Manager) *Deriver {
	return &Deriver{
		entries: entries,
		costs:   costs,
		txm:     txm,
	}
}

// Name implements stocktxn.CommitListener.
func (d *Deriver) Name() string { return "finance-deriver" }

var _ stocktxn.CommitListener = (*Deriver)(nil)

// OnStockCommitted implements stocktxn.CommitListener.
//
// Missing catalog data produces zero entries, not a failure: the stock
// movement already stands, so the gap is logged and skipped.
func (d *Deriver) OnStockCommitted(ctx context.Context, txn *stocktxn.StockTransaction, p *product.Product) error {
	entries, err := d.Derive(ctx, txn, p)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDerivationDataMissing {
			logger.Warn(ctx, "skipping financial derivation",
				"number", txn.Number,
				"reason", appErr.Message,
				"details", appErr.Details,
			)
			return nil
		}
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	err = d.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return d.entries.InsertBatch(ctx, entries)
	})
	if err != nil {
		return fmt.Errorf("store derived entries: %w", err)
	}

	logger.Info(ctx, "financial entries derived",
		"number", txn.Number,
		"count", len(entries),
	)
	return nil
}

// Derive computes the entries for one committed movement without storing
// them. Pure with respect to the entry repository.
func (d *Deriver) Derive(ctx context.Context, txn *stocktxn.StockTransaction, p *product.Product) ([]*Entry, error) {
	switch {
	case txn.Direction == stocktxn.DirectionOut && p.Type.IsFinishedGood():
		return d.deriveSale(ctx, txn, p)
	case txn.Direction == stocktxn.DirectionIn && p.Type.IsRawMaterial():
		return d.derivePurchase(txn, p), nil
	default:
		return nil, nil
	}
}

// deriveSale produces the revenue and production-expense pair for a sale.
func (d *Deriver) deriveSale(ctx context.Context, txn *stocktxn.StockTransaction, p *product.Product) ([]*Entry, error) {
	qty := txn.Quantity.Decimal()

	revenue := p.SellingPrice.Mul(qty)

	perUnit, err := d.UnitProductionCost(ctx, p)
	if err != nil {
		return nil, err
	}
	expense := perUnit.Mul(qty)

	now := time.Now().UTC()
	return []*Entry{
		{
			ID:            id.New(),
			BranchID:      txn.BranchID,
			TransactionID: txn.ID,
			ProductType:   p.Type,
			ProductName:   p.Name,
			Quantity:      txn.Quantity,
			Kind:          KindRevenue,
			UnitPrice:     p.SellingPrice,
			Amount:        revenue,
			Description:   fmt.Sprintf("sale of %s x %s", p.Name, txn.Quantity),
			CreatedAt:     now,
		},
		{
			ID:            id.New(),
			BranchID:      txn.BranchID,
			TransactionID: txn.ID,
			ProductType:   p.Type,
			ProductName:   p.Name,
			Quantity:      txn.Quantity,
			Kind:          KindExpense,
			UnitPrice:     perUnit,
			Amount:        expense,
			Description:   fmt.Sprintf("production cost of %s x %s", p.Name, txn.Quantity),
			CreatedAt:     now,
		},
	}, nil
}

// derivePurchase produces the single expense entry for a raw material
// arrival, priced at the catalog entry's own cost per kg.
func (d *Deriver) derivePurchase(txn *stocktxn.StockTransaction, p *product.Product) []*Entry {
	expense := p.CostPerKG.Mul(txn.Quantity.Decimal())

	return []*Entry{
		{
			ID:            id.New(),
			BranchID:      txn.BranchID,
			TransactionID: txn.ID,
			ProductType:   p.Type,
			ProductName:   p.Name,
			Quantity:      txn.Quantity,
			Kind:          KindExpense,
			UnitPrice:     p.CostPerKG,
			Amount:        expense,
			Description:   fmt.Sprintf("purchase of %s, %s kg", p.Name, txn.Quantity),
			CreatedAt:     time.Now().UTC(),
		},
	}
}

// UnitProductionCost prices one unit of a finished good: each recipe
// ingredient at the oracle's current cost, plus fixed water and
// electricity overhead.
func (d *Deriver) UnitProductionCost(ctx context.Context, p *product.Product) (types.Money, error) {
	total := types.ZeroMoney()

	for rawType, qty := range p.RecipeConsumption() {
		if qty.IsZero() {
			continue
		}

		costPerKG, err := d.costs.CurrentCostPerKG(ctx, rawType)
		if err != nil {
			if apperror.IsNotFound(err) {
				return types.ZeroMoney(), apperror.NewDerivationDataMissing(string(rawType), p.ID)
			}
			return types.ZeroMoney(), err
		}

		total = total.Add(costPerKG.Mul(qty.Decimal()))
	}

	return total.Add(p.WaterBirr).Add(p.ElectricityBirr), nil
}
