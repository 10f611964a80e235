// Package branch provides the Branch catalog: the bakery locations that
// hold inventory and record stock movements.
package branch

import (
	"context"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/entity"
)

// Branch is a bakery location.
type Branch struct {
	entity.Catalog

	City    string  `db:"city" json:"city"`
	Address *string `db:"address" json:"address,omitempty"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
}

// NewBranch creates a branch catalog entry.
func NewBranch(code, name, city string) *Branch {
	return &Branch{
		Catalog: entity.NewCatalog(code, name),
		City:    city,
	}
}

// Validate implements entity.Validatable.
func (b *Branch) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}

	if b.City == "" {
		return apperror.NewValidation("city is required").
			WithDetail("field", "city")
	}

	return nil
}
