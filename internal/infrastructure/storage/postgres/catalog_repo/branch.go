package catalog_repo

import (
	"context"

	"bakeops/internal/domain/catalogs/branch"
	"bakeops/internal/infrastructure/storage/postgres"
)

// BranchRepo implements branch.Repository.
type BranchRepo struct {
	*BaseCatalogRepo[*branch.Branch]
}

// Compile-time interface check.
var _ branch.Repository = (*BranchRepo)(nil)

// NewBranchRepo creates a branch repository.
func NewBranchRepo(txm *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"cat_branches",
			postgres.ExtractDBColumns[branch.Branch](),
			func() *branch.Branch { return &branch.Branch{} },
		),
	}
}

// List returns all branches ordered by code.
func (r *BranchRepo) List(ctx context.Context) ([]*branch.Branch, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[branch.Branch]()...).
		From("cat_branches").
		OrderBy("code ASC")

	var items []*branch.Branch
	if err := r.FindAll(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}
