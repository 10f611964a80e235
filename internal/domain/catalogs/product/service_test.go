package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/id"
	"bakeops/internal/core/types"
	"bakeops/pkg/numerator"
)

type fakeProductRepo struct {
	byID   map[id.ID]*Product
	byName map[Type]map[string]*Product
}

func newFakeProductRepo(products ...*Product) *fakeProductRepo {
	f := &fakeProductRepo{
		byID:   make(map[id.ID]*Product),
		byName: make(map[Type]map[string]*Product),
	}
	for _, p := range products {
		f.add(p)
	}
	return f
}

func (f *fakeProductRepo) add(p *Product) {
	f.byID[p.ID] = p
	if f.byName[p.Type] == nil {
		f.byName[p.Type] = make(map[string]*Product)
	}
	f.byName[p.Type][p.Name] = p
}

func (f *fakeProductRepo) Create(_ context.Context, p *Product) error {
	f.add(p)
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *Product) error {
	f.add(p)
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	p, ok := f.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (f *fakeProductRepo) GetByName(_ context.Context, productType Type, name string) (*Product, error) {
	p, ok := f.byName[productType][name]
	if !ok {
		return nil, apperror.NewNotFound("product", name)
	}
	return p, nil
}

func (f *fakeProductRepo) List(_ context.Context, productType Type) ([]*Product, error) {
	var out []*Product
	for _, p := range f.byName[productType] {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) FirstOfType(_ context.Context, productType Type) (*Product, error) {
	var first *Product
	for _, p := range f.byName[productType] {
		if first == nil || p.Code < first.Code {
			first = p
		}
	}
	if first == nil {
		return nil, apperror.NewNotFound("product", string(productType))
	}
	return first, nil
}

func testFlour(code, name, cost string) *Product {
	p := NewProduct(code, name, TypeFlour)
	p.ID = id.New()
	p.CostPerKG = types.MustMoney(cost)
	return p
}

func TestCreateGeneratesCode(t *testing.T) {
	repo := newFakeProductRepo()
	gen := &numerator.MockGenerator{}
	s := NewService(repo, gen)

	p := NewProduct("", "Premium Flour", TypeFlour)
	p.CostPerKG = types.MustMoney("20")

	require.NoError(t, s.Create(context.Background(), p))
	assert.Equal(t, "MOCK-2026-00001", p.Code)
}

func TestCreateKeepsExplicitCode(t *testing.T) {
	repo := newFakeProductRepo()
	s := NewService(repo, &numerator.MockGenerator{})

	p := NewProduct("PR-2026-00099", "Premium Flour", TypeFlour)
	p.CostPerKG = types.MustMoney("20")

	require.NoError(t, s.Create(context.Background(), p))
	assert.Equal(t, "PR-2026-00099", p.Code)
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := NewService(newFakeProductRepo(), &numerator.MockGenerator{})

	p := NewProduct("", "", TypeFlour)
	err := s.Create(context.Background(), p)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestResolveByName(t *testing.T) {
	flour := testFlour("PR-2026-00001", "Premium Flour", "20")
	s := NewService(newFakeProductRepo(flour), &numerator.MockGenerator{})

	p, err := s.Resolve(context.Background(), TypeFlour, "Premium Flour")
	require.NoError(t, err)
	assert.Equal(t, flour.ID, p.ID)
}

func TestResolveByID(t *testing.T) {
	flour := testFlour("PR-2026-00001", "Premium Flour", "20")
	s := NewService(newFakeProductRepo(flour), &numerator.MockGenerator{})

	p, err := s.Resolve(context.Background(), TypeFlour, flour.ID.String())
	require.NoError(t, err)
	assert.Equal(t, flour.ID, p.ID)
}

func TestResolveByIDWrongType(t *testing.T) {
	flour := testFlour("PR-2026-00001", "Premium Flour", "20")
	s := NewService(newFakeProductRepo(flour), &numerator.MockGenerator{})

	_, err := s.Resolve(context.Background(), TypeYeast, flour.ID.String())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolveUnknownName(t *testing.T) {
	s := NewService(newFakeProductRepo(), &numerator.MockGenerator{})

	_, err := s.Resolve(context.Background(), TypeFlour, "No Such Flour")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCurrentCostPerKG(t *testing.T) {
	older := testFlour("PR-2026-00001", "Premium Flour", "20")
	newer := testFlour("PR-2026-00002", "Budget Flour", "15")
	s := NewService(newFakeProductRepo(newer, older), &numerator.MockGenerator{})

	// The oldest registered record of the type sets the rate.
	cost, err := s.CurrentCostPerKG(context.Background(), TypeFlour)
	require.NoError(t, err)
	assert.True(t, cost.Equal(types.MustMoney("20")), "got %s", cost)
}

func TestCurrentCostPerKGNoRecord(t *testing.T) {
	s := NewService(newFakeProductRepo(), &numerator.MockGenerator{})

	_, err := s.CurrentCostPerKG(context.Background(), TypeEnhancer)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
