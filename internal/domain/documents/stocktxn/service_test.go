package stocktxn

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
	"bakeops/internal/domain/registers/inventory"
	"bakeops/pkg/numerator"
)

type fakeResolver struct {
	products map[string]*product.Product
}

func (f *fakeResolver) Resolve(_ context.Context, productType product.Type, choice string) (*product.Product, error) {
	p, ok := f.products[choice]
	if !ok || p.Type != productType {
		return nil, apperror.NewNotFound("product", choice)
	}
	return p, nil
}

type fakeRegister struct {
	balances map[inventory.Key]types.Quantity

	increased []types.Quantity
	decreased []types.Quantity
}

func newFakeRegister() *fakeRegister {
	return &fakeRegister{balances: make(map[inventory.Key]types.Quantity)}
}

func (f *fakeRegister) CheckAvailability(_ context.Context, key inventory.Key, required types.Quantity) (*inventory.Balance, error) {
	bal, ok := f.balances[key]
	if !ok {
		return nil, apperror.NewNoInventoryRecord(key.BranchID.String(), string(key.ProductType), key.ProductName)
	}
	if bal < required {
		return nil, apperror.NewInsufficientStock(key.ProductName, required.Float64(), bal.Float64())
	}
	return &inventory.Balance{
		BranchID:    key.BranchID,
		ProductType: key.ProductType,
		ProductName: key.ProductName,
		Quantity:    bal,
	}, nil
}

func (f *fakeRegister) Increase(_ context.Context, key inventory.Key, qty types.Quantity) error {
	f.balances[key] += qty
	f.increased = append(f.increased, qty)
	return nil
}

func (f *fakeRegister) Decrease(_ context.Context, key inventory.Key, qty types.Quantity) error {
	f.balances[key] -= qty
	f.decreased = append(f.decreased, qty)
	return nil
}

type fakeTxnRepo struct {
	inserted  []*StockTransaction
	insertErr error
}

func (f *fakeTxnRepo) Insert(_ context.Context, t *StockTransaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, t)
	return nil
}

func (f *fakeTxnRepo) GetByID(_ context.Context, txnID id.ID) (*StockTransaction, error) {
	for _, t := range f.inserted {
		if t.ID == txnID {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("stock transaction", txnID)
}

func (f *fakeTxnRepo) List(context.Context, Filter) ([]*StockTransaction, error) {
	return f.inserted, nil
}

func (f *fakeTxnRepo) Count(context.Context, Filter) (int64, error) {
	return int64(len(f.inserted)), nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingListener struct {
	name     string
	received []*StockTransaction
	err      error
}

func (l *recordingListener) Name() string { return l.name }

func (l *recordingListener) OnStockCommitted(_ context.Context, txn *StockTransaction, _ *product.Product) error {
	l.received = append(l.received, txn)
	return l.err
}

type fixture struct {
	service  *Service
	repo     *fakeTxnRepo
	register *fakeRegister
	flour    *product.Product
	bread    *product.Product
	branchID id.ID
}

func newFixture() *fixture {
	flour := product.NewProduct("PR-2026-00001", "Premium Flour", product.TypeFlour)
	flour.ID = id.New()
	bread := product.NewProduct("PR-2026-00004", "Standard Bread", product.TypeBread)
	bread.ID = id.New()

	resolver := &fakeResolver{products: map[string]*product.Product{
		flour.Name:        flour,
		flour.ID.String(): flour,
		bread.Name:        bread,
		bread.ID.String(): bread,
	}}

	repo := &fakeTxnRepo{}
	register := newFakeRegister()

	service := NewService(repo, resolver, register, passthroughTxManager{}, &numerator.MockGenerator{})

	return &fixture{
		service:  service,
		repo:     repo,
		register: register,
		flour:    flour,
		bread:    bread,
		branchID: id.New(),
	}
}

func TestRecordStockIn(t *testing.T) {
	f := newFixture()

	txn, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "MOCK-2026-00001", txn.Number)
	assert.Equal(t, f.flour.ID, txn.ProductID)
	assert.Equal(t, "Premium Flour", txn.ProductName)
	assert.False(t, txn.CreatedAt.IsZero())

	require.Len(t, f.repo.inserted, 1)
	assert.Equal(t, types.NewQuantityFromFloat64(5), f.register.balances[txn.BalanceKey()])
	assert.Empty(t, f.register.decreased)
}

func TestRecordStockInByID(t *testing.T) {
	f := newFixture()

	txn, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: f.flour.ID.String(),
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, f.flour.ID, txn.ProductID)
}

func TestRecordStockOut(t *testing.T) {
	f := newFixture()
	key := inventory.Key{BranchID: f.branchID, ProductType: product.TypeFlour, ProductName: "Premium Flour"}
	f.register.balances[key] = types.NewQuantityFromFloat64(10)

	_, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionOut,
		Quantity:      types.NewQuantityFromFloat64(4),
	})
	require.NoError(t, err)

	assert.Equal(t, types.NewQuantityFromFloat64(6), f.register.balances[key])
	require.Len(t, f.repo.inserted, 1)
}

func TestRecordUnresolvedProduct(t *testing.T) {
	f := newFixture()

	_, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "No Such Flour",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnresolvedProduct, appErr.Code)
	assert.Empty(t, f.repo.inserted)
}

func TestRecordTypeMismatchUnresolved(t *testing.T) {
	f := newFixture()

	// "Standard Bread" exists, but not as flour.
	_, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Standard Bread",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnresolvedProduct, appErr.Code)
}

func TestRecordOutWithoutInventoryRecord(t *testing.T) {
	f := newFixture()

	_, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionOut,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.Error(t, err)

	assert.True(t, apperror.IsNoInventoryRecord(err))
	assert.Empty(t, f.repo.inserted)
	assert.Empty(t, f.register.decreased)
}

func TestRecordOutInsufficientStock(t *testing.T) {
	f := newFixture()
	key := inventory.Key{BranchID: f.branchID, ProductType: product.TypeFlour, ProductName: "Premium Flour"}
	f.register.balances[key] = types.NewQuantityFromFloat64(3)

	_, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionOut,
		Quantity:      types.NewQuantityFromFloat64(5),
	})
	require.Error(t, err)

	assert.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 5.0, appErr.Details["requested"])
	assert.Equal(t, 3.0, appErr.Details["available"])

	assert.Empty(t, f.repo.inserted)
	assert.Equal(t, types.NewQuantityFromFloat64(3), f.register.balances[key])
}

func TestRecordValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		input RecordInput
	}{
		{
			"missing branch",
			RecordInput{
				ProductType:   product.TypeFlour,
				ProductChoice: "Premium Flour",
				Direction:     DirectionIn,
				Quantity:      types.NewQuantityFromFloat64(1),
			},
		},
		{
			"invalid direction",
			RecordInput{
				BranchID:      f.branchID,
				ProductType:   product.TypeFlour,
				ProductChoice: "Premium Flour",
				Direction:     Direction("sideways"),
				Quantity:      types.NewQuantityFromFloat64(1),
			},
		},
		{
			"zero quantity",
			RecordInput{
				BranchID:      f.branchID,
				ProductType:   product.TypeFlour,
				ProductChoice: "Premium Flour",
				Direction:     DirectionIn,
			},
		},
		{
			"negative quantity",
			RecordInput{
				BranchID:      f.branchID,
				ProductType:   product.TypeFlour,
				ProductChoice: "Premium Flour",
				Direction:     DirectionIn,
				Quantity:      types.NewQuantityFromFloat64(-2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Record(context.Background(), tt.input)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}

	assert.Empty(t, f.repo.inserted)
}

func TestRecordUsesDocumentPrefix(t *testing.T) {
	flour := product.NewProduct("PR-2026-00001", "Premium Flour", product.TypeFlour)
	flour.ID = id.New()
	resolver := &fakeResolver{products: map[string]*product.Product{flour.Name: flour}}

	var gotPrefix string
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(_ context.Context, cfg numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
			gotPrefix = cfg.Prefix
			return "ST-2026-00042", nil
		},
	}

	service := NewService(&fakeTxnRepo{}, resolver, newFakeRegister(), passthroughTxManager{}, gen)

	txn, err := service.Record(context.Background(), RecordInput{
		BranchID:      id.New(),
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "ST", gotPrefix)
	assert.Equal(t, "ST-2026-00042", txn.Number)
}

func TestRecordNotifiesListeners(t *testing.T) {
	f := newFixture()
	first := &recordingListener{name: "first"}
	second := &recordingListener{name: "second"}
	f.service.Subscribe(first)
	f.service.Subscribe(second)

	txn, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.NoError(t, err)

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Equal(t, txn.ID, first.received[0].ID)
}

func TestRecordListenerErrorAbsorbed(t *testing.T) {
	f := newFixture()
	failing := &recordingListener{name: "failing", err: errors.New("downstream broken")}
	healthy := &recordingListener{name: "healthy"}
	f.service.Subscribe(failing)
	f.service.Subscribe(healthy)

	txn, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.NoError(t, err)
	require.NotNil(t, txn)

	// The failing listener does not block the next one.
	assert.Len(t, healthy.received, 1)
	require.Len(t, f.repo.inserted, 1)
}

func TestRecordNoNotifyOnFailedCommit(t *testing.T) {
	f := newFixture()
	listener := &recordingListener{name: "listener"}
	f.service.Subscribe(listener)
	f.repo.insertErr = errors.New("insert failed")

	_, err := f.service.Record(context.Background(), RecordInput{
		BranchID:      f.branchID,
		ProductType:   product.TypeFlour,
		ProductChoice: "Premium Flour",
		Direction:     DirectionIn,
		Quantity:      types.NewQuantityFromFloat64(1),
	})
	require.Error(t, err)
	assert.Empty(t, listener.received)
}

func TestReplayingLogReproducesBalances(t *testing.T) {
	f := newFixture()

	// Mixed movement log across two keys; flour nets to exactly zero.
	movements := []struct {
		productType product.Type
		choice      string
		direction   Direction
		qty         float64
	}{
		{product.TypeFlour, "Premium Flour", DirectionIn, 5},
		{product.TypeBread, "Standard Bread", DirectionIn, 20},
		{product.TypeBread, "Standard Bread", DirectionOut, 8},
		{product.TypeFlour, "Premium Flour", DirectionOut, 5},
		{product.TypeBread, "Standard Bread", DirectionOut, 2},
	}

	for _, m := range movements {
		_, err := f.service.Record(context.Background(), RecordInput{
			BranchID:      f.branchID,
			ProductType:   m.productType,
			ProductChoice: m.choice,
			Direction:     m.direction,
			Quantity:      types.NewQuantityFromFloat64(m.qty),
		})
		require.NoError(t, err)
	}

	// Fold the full ordered log over a zeroed ledger.
	folded := make(map[inventory.Key]types.Quantity)
	for _, txn := range f.repo.inserted {
		folded[txn.BalanceKey()] += txn.SignedQuantity()
	}

	assert.Equal(t, f.register.balances, folded)

	// The fully drawn-down key keeps its row at zero rather than vanishing.
	flourKey := inventory.Key{BranchID: f.branchID, ProductType: product.TypeFlour, ProductName: "Premium Flour"}
	qty, ok := folded[flourKey]
	require.True(t, ok)
	assert.True(t, qty.IsZero())

	breadKey := inventory.Key{BranchID: f.branchID, ProductType: product.TypeBread, ProductName: "Standard Bread"}
	assert.Equal(t, types.NewQuantityFromFloat64(10), folded[breadKey])
}

func TestListClampsLimit(t *testing.T) {
	f := newFixture()

	// The fake repo echoes back; the clamp happens before the call.
	_, err := f.service.List(context.Background(), Filter{Limit: 10_000})
	require.NoError(t, err)

	_, err = f.service.List(context.Background(), Filter{})
	require.NoError(t, err)
}
