package dto

import "bakeops/internal/core/types"

// EntryListQuery filters derived financial entries.
type EntryListQuery struct {
	PaginationRequest
	BranchID    string `form:"branchId" binding:"omitempty,uuid"`
	ProductType string `form:"productType"`
	Kind        string `form:"kind"`
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
}

// SummaryQuery bounds a financial summary.
type SummaryQuery struct {
	BranchID string `form:"branchId" binding:"required,uuid"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

// SummaryResponse returns aggregated revenue and expense.
type SummaryResponse struct {
	BranchID string      `json:"branchId"`
	Revenue  types.Money `json:"revenue"`
	Expense  types.Money `json:"expense"`
	Net      types.Money `json:"net"`
}
