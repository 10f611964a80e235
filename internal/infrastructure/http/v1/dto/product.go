package dto

import (
	"bakeops/internal/core/types"
)

// CreateProductRequest for creating catalog entries.
// Recipe and overhead fields apply to finished goods; costPerKg to raw
// materials. Validation of which fields belong to which type lives in the
// domain model.
type CreateProductRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	ProductType string  `json:"productType" binding:"required"`
	Brand       *string `json:"brand"`
	Description *string `json:"description"`

	FlourKG    types.Quantity `json:"flourKg"`
	YeastKG    types.Quantity `json:"yeastKg"`
	EnhancerKG types.Quantity `json:"enhancerKg"`

	WaterBirr       *types.Money `json:"waterBirr"`
	ElectricityBirr *types.Money `json:"electricityBirr"`
	SellingPrice    *types.Money `json:"sellingPrice"`
	CostPerKG       *types.Money `json:"costPerKg"`
}

// UpdateProductRequest for updating catalog entries.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Description *string `json:"description"`

	FlourKG    *types.Quantity `json:"flourKg"`
	YeastKG    *types.Quantity `json:"yeastKg"`
	EnhancerKG *types.Quantity `json:"enhancerKg"`

	WaterBirr       *types.Money `json:"waterBirr"`
	ElectricityBirr *types.Money `json:"electricityBirr"`
	SellingPrice    *types.Money `json:"sellingPrice"`
	CostPerKG       *types.Money `json:"costPerKg"`

	Version int `json:"version" binding:"required,min=1"`
}
