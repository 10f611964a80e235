// Package product provides the Product catalog: bakery finished goods
// (bread, injera) and the raw materials consumed to produce them
// (flour, yeast, enhancer).
package product

import (
	"context"

	"bakeops/internal/core/apperror"
	"bakeops/internal/core/entity"
	"bakeops/internal/core/types"
)

// Type tags a catalog entry with its product family.
type Type string

const (
	TypeBread    Type = "bread"
	TypeInjera   Type = "injera"
	TypeFlour    Type = "flour"
	TypeYeast    Type = "yeast"
	TypeEnhancer Type = "enhancer"
)

// AllTypes lists every product type.
func AllTypes() []Type {
	return []Type{TypeBread, TypeInjera, TypeFlour, TypeYeast, TypeEnhancer}
}

// ParseType validates a raw string against the known product types.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", apperror.NewValidation("invalid product type").
			WithDetail("field", "productType").
			WithDetail("value", s)
	}
	return t, nil
}

// Valid reports whether the type is one of the known product families.
func (t Type) Valid() bool {
	switch t {
	case TypeBread, TypeInjera, TypeFlour, TypeYeast, TypeEnhancer:
		return true
	}
	return false
}

// IsFinishedGood reports whether products of this type are sold to customers.
func (t Type) IsFinishedGood() bool {
	return t == TypeBread || t == TypeInjera
}

// IsRawMaterial reports whether products of this type are purchased inputs.
func (t Type) IsRawMaterial() bool {
	return t == TypeFlour || t == TypeYeast || t == TypeEnhancer
}

// RawMaterialTypes lists the raw materials a recipe can consume.
func RawMaterialTypes() []Type {
	return []Type{TypeFlour, TypeYeast, TypeEnhancer}
}

// Product is a catalog entry. Finished goods carry a recipe (per-unit raw
// material consumption plus fixed overhead) and a selling price; raw
// materials carry a purchase cost per kilogram.
type Product struct {
	entity.Catalog

	Type Type `db:"product_type" json:"productType"`

	// Brand applies to raw materials only
	Brand *string `db:"brand" json:"brand,omitempty"`

	Description *string `db:"description" json:"description,omitempty"`

	// Recipe: raw material consumed per unit produced (finished goods)
	FlourKG    types.Quantity `db:"flour_kg" json:"flourKg"`
	YeastKG    types.Quantity `db:"yeast_kg" json:"yeastKg"`
	EnhancerKG types.Quantity `db:"enhancer_kg" json:"enhancerKg"`

	// Fixed per-unit overhead costs (finished goods)
	WaterBirr       types.Money `db:"water_birr" json:"waterBirr"`
	ElectricityBirr types.Money `db:"electricity_birr" json:"electricityBirr"`

	// SellingPrice per unit (finished goods)
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// CostPerKG purchase cost (raw materials)
	CostPerKG types.Money `db:"cost_per_kg" json:"costPerKg"`
}

// NewProduct creates a catalog entry of the given type.
func NewProduct(code, name string, productType Type) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
		Type:    productType,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !p.Type.Valid() {
		return apperror.NewValidation("invalid product type").
			WithDetail("field", "productType").
			WithDetail("value", string(p.Type))
	}

	if p.Type.IsFinishedGood() {
		return p.validateRecipe()
	}
	return p.validateRawMaterial()
}

func (p *Product) validateRecipe() error {
	for field, qty := range map[string]types.Quantity{
		"flourKg":    p.FlourKG,
		"yeastKg":    p.YeastKG,
		"enhancerKg": p.EnhancerKG,
	} {
		if qty.IsNegative() {
			return apperror.NewValidation("recipe quantity must not be negative").
				WithDetail("field", field)
		}
	}

	// Injera is made without enhancer
	if p.Type == TypeInjera && !p.EnhancerKG.IsZero() {
		return apperror.NewValidation("injera recipe does not use enhancer").
			WithDetail("field", "enhancerKg")
	}

	for field, amount := range map[string]types.Money{
		"waterBirr":       p.WaterBirr,
		"electricityBirr": p.ElectricityBirr,
		"sellingPrice":    p.SellingPrice,
	} {
		if amount.IsNegative() {
			return apperror.NewValidation("amount must not be negative").
				WithDetail("field", field)
		}
	}

	return nil
}

func (p *Product) validateRawMaterial() error {
	if p.CostPerKG.IsNegative() {
		return apperror.NewValidation("cost per kg must not be negative").
			WithDetail("field", "costPerKg")
	}
	return nil
}

// RecipeConsumption returns the per-unit raw material consumption keyed by
// raw material type. Zero entries are kept so callers can iterate uniformly.
func (p *Product) RecipeConsumption() map[Type]types.Quantity {
	return map[Type]types.Quantity{
		TypeFlour:    p.FlourKG,
		TypeYeast:    p.YeastKG,
		TypeEnhancer: p.EnhancerKG,
	}
}
