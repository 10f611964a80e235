package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/internal/domain/catalogs/product"
)

type fakeBalanceRepo struct {
	balances map[Key]types.Quantity

	lockedKeys []Key
	rebuilt    []id.ID
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[Key]types.Quantity)}
}

func (f *fakeBalanceRepo) get(key Key) (*Balance, error) {
	qty, ok := f.balances[key]
	if !ok {
		return nil, apperror.NewNotFound("inventory balance", key.ProductName)
	}
	return &Balance{
		BranchID:    key.BranchID,
		ProductType: key.ProductType,
		ProductName: key.ProductName,
		Quantity:    qty,
	}, nil
}

func (f *fakeBalanceRepo) GetBalance(_ context.Context, key Key) (*Balance, error) {
	return f.get(key)
}

func (f *fakeBalanceRepo) GetBalanceForUpdate(_ context.Context, key Key) (*Balance, error) {
	f.lockedKeys = append(f.lockedKeys, key)
	return f.get(key)
}

func (f *fakeBalanceRepo) Increase(_ context.Context, key Key, qty types.Quantity) error {
	f.balances[key] += qty
	return nil
}

func (f *fakeBalanceRepo) Decrease(_ context.Context, key Key, qty types.Quantity) error {
	current, ok := f.balances[key]
	if !ok || current < qty {
		return apperror.NewInsufficientStock(key.ProductName, qty.Float64(), current.Float64())
	}
	f.balances[key] = current - qty
	return nil
}

func (f *fakeBalanceRepo) ListByBranch(context.Context, id.ID) ([]*Balance, error) {
	return nil, nil
}

func (f *fakeBalanceRepo) ListByBranchAndType(context.Context, id.ID, product.Type) ([]*Balance, error) {
	return nil, nil
}

func (f *fakeBalanceRepo) RebuildFromLog(_ context.Context, branchID id.ID) error {
	f.rebuilt = append(f.rebuilt, branchID)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func flourKey() Key {
	return Key{
		BranchID:    id.New(),
		ProductType: product.TypeFlour,
		ProductName: "Premium Flour",
	}
}

func TestCheckAvailabilityCovered(t *testing.T) {
	repo := newFakeBalanceRepo()
	key := flourKey()
	repo.balances[key] = types.NewQuantityFromFloat64(10)

	s := NewService(repo, passthroughTxManager{})

	bal, err := s.CheckAvailability(context.Background(), key, types.NewQuantityFromFloat64(4))
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), bal.Quantity)

	// The check must go through the locking read.
	assert.Equal(t, []Key{key}, repo.lockedKeys)
}

func TestCheckAvailabilityExactBalance(t *testing.T) {
	repo := newFakeBalanceRepo()
	key := flourKey()
	repo.balances[key] = types.NewQuantityFromFloat64(4)

	s := NewService(repo, passthroughTxManager{})

	_, err := s.CheckAvailability(context.Background(), key, types.NewQuantityFromFloat64(4))
	assert.NoError(t, err)
}

func TestCheckAvailabilityNeverStocked(t *testing.T) {
	repo := newFakeBalanceRepo()
	key := flourKey()

	s := NewService(repo, passthroughTxManager{})

	_, err := s.CheckAvailability(context.Background(), key, types.NewQuantityFromFloat64(1))
	require.Error(t, err)

	assert.True(t, apperror.IsNoInventoryRecord(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, key.ProductName, appErr.Details["product_name"])
}

func TestCheckAvailabilityShort(t *testing.T) {
	repo := newFakeBalanceRepo()
	key := flourKey()
	repo.balances[key] = types.NewQuantityFromFloat64(3)

	s := NewService(repo, passthroughTxManager{})

	_, err := s.CheckAvailability(context.Background(), key, types.NewQuantityFromFloat64(5))
	require.Error(t, err)

	assert.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 5.0, appErr.Details["requested"])
	assert.Equal(t, 3.0, appErr.Details["available"])
}

func TestCheckAvailabilityZeroBalanceRow(t *testing.T) {
	// A zero-quantity row exists after stock was fully drawn down. It is
	// still a different condition from never having been stocked.
	repo := newFakeBalanceRepo()
	key := flourKey()
	repo.balances[key] = 0

	s := NewService(repo, passthroughTxManager{})

	_, err := s.CheckAvailability(context.Background(), key, types.NewQuantityFromFloat64(1))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.False(t, apperror.IsNoInventoryRecord(err))
}

func TestRebuildRunsInTransaction(t *testing.T) {
	repo := newFakeBalanceRepo()
	branchID := id.New()

	s := NewService(repo, passthroughTxManager{})

	require.NoError(t, s.Rebuild(context.Background(), branchID))
	assert.Equal(t, []id.ID{branchID}, repo.rebuilt)
}
