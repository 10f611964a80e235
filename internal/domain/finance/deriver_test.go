package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/documents/stocktxn"
)

type fakeEntryRepo struct {
	inserted  [][]*Entry
	insertErr error
}

func (f *fakeEntryRepo) InsertBatch(_ context.Context, entries []*Entry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, entries)
	return nil
}

func (f *fakeEntryRepo) List(context.Context, Filter) ([]*Entry, error) { return nil, nil }

func (f *fakeEntryRepo) ListByTransaction(context.Context, id.ID) ([]*Entry, error) {
	return nil, nil
}

func (f *fakeEntryRepo) Summarize(context.Context, id.ID, time.Time, time.Time) (*Summary, error) {
	return nil, nil
}

type fakeOracle struct {
	costs map[product.Type]types.Money
}

func (f *fakeOracle) CurrentCostPerKG(_ context.Context, rawType product.Type) (types.Money, error) {
	cost, ok := f.costs[rawType]
	if !ok {
		return types.ZeroMoney(), apperror.NewNotFound("product", string(rawType))
	}
	return cost, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func standardCosts() *fakeOracle {
	return &fakeOracle{costs: map[product.Type]types.Money{
		product.TypeFlour:    types.MustMoney("20"),
		product.TypeYeast:    types.MustMoney("50"),
		product.TypeEnhancer: types.MustMoney("80"),
	}}
}

func standardBread() *product.Product {
	p := product.NewProduct("PR-2026-00004", "Standard Bread", product.TypeBread)
	p.ID = id.New()
	p.FlourKG = types.NewQuantityFromFloat64(2)
	p.YeastKG = types.NewQuantityFromFloat64(0.1)
	p.EnhancerKG = types.NewQuantityFromFloat64(0.05)
	p.WaterBirr = types.MustMoney("5")
	p.ElectricityBirr = types.MustMoney("3")
	p.SellingPrice = types.MustMoney("150")
	return p
}

func premiumFlour() *product.Product {
	p := product.NewProduct("PR-2026-00001", "Premium Flour", product.TypeFlour)
	p.ID = id.New()
	p.CostPerKG = types.MustMoney("20")
	return p
}

func movement(p *product.Product, dir stocktxn.Direction, qty float64) *stocktxn.StockTransaction {
	return &stocktxn.StockTransaction{
		ID:          id.New(),
		Number:      "ST-2026-00001",
		BranchID:    id.New(),
		ProductType: p.Type,
		ProductID:   p.ID,
		ProductName: p.Name,
		Direction:   dir,
		Quantity:    types.NewQuantityFromFloat64(qty),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestUnitProductionCost(t *testing.T) {
	d := NewDeriver(&fakeEntryRepo{}, standardCosts(), passthroughTxManager{})

	// 2*20 + 0.1*50 + 0.05*80 + 5 + 3 = 57
	cost, err := d.UnitProductionCost(context.Background(), standardBread())
	require.NoError(t, err)
	assert.True(t, cost.Equal(types.MustMoney("57")), "got %s", cost)
}

func TestUnitProductionCostSkipsZeroIngredients(t *testing.T) {
	// Injera has no enhancer, so the oracle must never be asked for it.
	oracle := &fakeOracle{costs: map[product.Type]types.Money{
		product.TypeFlour: types.MustMoney("20"),
		product.TypeYeast: types.MustMoney("50"),
	}}
	d := NewDeriver(&fakeEntryRepo{}, oracle, passthroughTxManager{})

	p := product.NewProduct("", "Injera", product.TypeInjera)
	p.ID = id.New()
	p.FlourKG = types.NewQuantityFromFloat64(0.5)
	p.YeastKG = types.NewQuantityFromFloat64(0.02)
	p.WaterBirr = types.MustMoney("2")
	p.ElectricityBirr = types.MustMoney("1.5")

	// 0.5*20 + 0.02*50 + 2 + 1.5 = 14.5
	cost, err := d.UnitProductionCost(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, cost.Equal(types.MustMoney("14.5")), "got %s", cost)
}

func TestUnitProductionCostMissingIngredient(t *testing.T) {
	oracle := &fakeOracle{costs: map[product.Type]types.Money{
		product.TypeFlour: types.MustMoney("20"),
		product.TypeYeast: types.MustMoney("50"),
	}}
	d := NewDeriver(&fakeEntryRepo{}, oracle, passthroughTxManager{})

	_, err := d.UnitProductionCost(context.Background(), standardBread())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDerivationDataMissing, appErr.Code)
}

func TestDeriveSale(t *testing.T) {
	d := NewDeriver(&fakeEntryRepo{}, standardCosts(), passthroughTxManager{})
	bread := standardBread()
	txn := movement(bread, stocktxn.DirectionOut, 10)

	entries, err := d.Derive(context.Background(), txn, bread)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	revenue, expense := entries[0], entries[1]

	assert.Equal(t, KindRevenue, revenue.Kind)
	assert.True(t, revenue.Amount.Equal(types.MustMoney("1500")), "got %s", revenue.Amount)
	assert.Equal(t, txn.BranchID, revenue.BranchID)
	assert.Equal(t, txn.ID, revenue.TransactionID)
	assert.Equal(t, product.TypeBread, revenue.ProductType)
	assert.Equal(t, "Standard Bread", revenue.ProductName)
	assert.Equal(t, txn.Quantity, revenue.Quantity)
	assert.True(t, revenue.UnitPrice.Equal(types.MustMoney("150")), "got %s", revenue.UnitPrice)

	assert.Equal(t, KindExpense, expense.Kind)
	assert.True(t, expense.Amount.Equal(types.MustMoney("570")), "got %s", expense.Amount)
	assert.Equal(t, txn.ID, expense.TransactionID)
	assert.Equal(t, product.TypeBread, expense.ProductType)
	assert.Equal(t, "Standard Bread", expense.ProductName)
	assert.Equal(t, txn.Quantity, expense.Quantity)
	assert.True(t, expense.UnitPrice.Equal(types.MustMoney("57")), "got %s", expense.UnitPrice)

	// Unit economics stay recoverable from the entry alone.
	assert.True(t, expense.UnitPrice.Mul(expense.Quantity.Decimal()).Equal(expense.Amount))
}

func TestDerivePurchase(t *testing.T) {
	d := NewDeriver(&fakeEntryRepo{}, standardCosts(), passthroughTxManager{})
	flour := premiumFlour()
	txn := movement(flour, stocktxn.DirectionIn, 5)

	entries, err := d.Derive(context.Background(), txn, flour)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, KindExpense, entries[0].Kind)
	assert.True(t, entries[0].Amount.Equal(types.MustMoney("100")), "got %s", entries[0].Amount)
	assert.Equal(t, product.TypeFlour, entries[0].ProductType)
	assert.Equal(t, "Premium Flour", entries[0].ProductName)
	assert.Equal(t, types.NewQuantityFromFloat64(5), entries[0].Quantity)
	assert.True(t, entries[0].UnitPrice.Equal(types.MustMoney("20")), "got %s", entries[0].UnitPrice)
}

func TestDeriveNoEntryCombinations(t *testing.T) {
	d := NewDeriver(&fakeEntryRepo{}, standardCosts(), passthroughTxManager{})

	tests := []struct {
		name string
		p    *product.Product
		dir  stocktxn.Direction
	}{
		{"finished good stocked in", standardBread(), stocktxn.DirectionIn},
		{"raw material stocked out", premiumFlour(), stocktxn.DirectionOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := d.Derive(context.Background(), movement(tt.p, tt.dir, 3), tt.p)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestOnStockCommittedStoresEntries(t *testing.T) {
	repo := &fakeEntryRepo{}
	d := NewDeriver(repo, standardCosts(), passthroughTxManager{})
	bread := standardBread()

	err := d.OnStockCommitted(context.Background(), movement(bread, stocktxn.DirectionOut, 10), bread)
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	assert.Len(t, repo.inserted[0], 2)
}

func TestOnStockCommittedNoEntriesNoInsert(t *testing.T) {
	repo := &fakeEntryRepo{}
	d := NewDeriver(repo, standardCosts(), passthroughTxManager{})
	bread := standardBread()

	err := d.OnStockCommitted(context.Background(), movement(bread, stocktxn.DirectionIn, 10), bread)
	require.NoError(t, err)
	assert.Empty(t, repo.inserted)
}

func TestOnStockCommittedAbsorbsMissingData(t *testing.T) {
	repo := &fakeEntryRepo{}
	d := NewDeriver(repo, &fakeOracle{costs: map[product.Type]types.Money{}}, passthroughTxManager{})
	bread := standardBread()

	err := d.OnStockCommitted(context.Background(), movement(bread, stocktxn.DirectionOut, 10), bread)
	require.NoError(t, err)
	assert.Empty(t, repo.inserted)
}

func TestOnStockCommittedPropagatesStorageError(t *testing.T) {
	repo := &fakeEntryRepo{insertErr: errors.New("connection lost")}
	d := NewDeriver(repo, standardCosts(), passthroughTxManager{})
	bread := standardBread()

	err := d.OnStockCommitted(context.Background(), movement(bread, stocktxn.DirectionOut, 10), bread)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
}
