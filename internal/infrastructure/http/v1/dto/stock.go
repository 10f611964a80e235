package dto

import (
	"bakeops/internal/core/types"
)

// RecordStockRequest for recording a stock movement.
// Product accepts a catalog entry id or a product name within productType.
type RecordStockRequest struct {
	BranchID    string         `json:"branchId" binding:"required,uuid"`
	ProductType string         `json:"productType" binding:"required"`
	Product     string         `json:"product" binding:"required"`
	Direction   string         `json:"direction" binding:"required"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	Note        *string        `json:"note"`
}

// StockListQuery filters the transaction log.
type StockListQuery struct {
	PaginationRequest
	BranchID    string `form:"branchId" binding:"omitempty,uuid"`
	ProductType string `form:"productType"`
	Direction   string `form:"direction"`
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
}
