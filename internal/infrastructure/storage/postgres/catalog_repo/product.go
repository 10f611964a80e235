package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/infrastructure/storage/postgres"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// Compile-time interface check.
var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"cat_products",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

func (r *ProductRepo) selectByType(productType product.Type) squirrel.SelectBuilder {
	return r.Builder().
		Select(postgres.ExtractDBColumns[product.Product]()...).
		From("cat_products").
		Where(squirrel.Eq{"product_type": productType})
}

// GetByName retrieves a product by (type, name).
func (r *ProductRepo) GetByName(ctx context.Context, productType product.Type, name string) (*product.Product, error) {
	q := r.selectByType(productType).
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// List returns products of a type ordered by code.
func (r *ProductRepo) List(ctx context.Context, productType product.Type) ([]*product.Product, error) {
	q := r.selectByType(productType).
		OrderBy("code ASC")

	var items []*product.Product
	if err := r.FindAll(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FirstOfType returns the first product of a type ordered by code.
func (r *ProductRepo) FirstOfType(ctx context.Context, productType product.Type) (*product.Product, error) {
	q := r.selectByType(productType).
		OrderBy("code ASC").
		Limit(1)

	return r.FindOne(ctx, q)
}
