package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"bakeops/internal/core/id"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/finance"
	"bakeops/internal/infrastructure/http/v1/dto"
)

// FinanceHandler serves derived financial entries and summaries.
type FinanceHandler struct {
	*BaseHandler
	service *finance.Service
}

// NewFinanceHandler creates a finance handler.
func NewFinanceHandler(base *BaseHandler, service *finance.Service) *FinanceHandler {
	return &FinanceHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires finance endpoints.
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/entries", h.ListEntries)
	rg.GET("/summary", h.Summary)
}

// ListEntries returns derived entries matching the query, newest first.
func (h *FinanceHandler) ListEntries(c *gin.Context) {
	var query dto.EntryListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	filter := finance.Filter{
		Limit:  query.PageSize,
		Offset: query.Offset(),
	}

	if query.BranchID != "" {
		branchID, err := id.Parse(query.BranchID)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.BranchID = &branchID
	}
	if query.ProductType != "" {
		productType, err := product.ParseType(query.ProductType)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.ProductType = &productType
	}
	if query.Kind != "" {
		kind := finance.Kind(query.Kind)
		filter.Kind = &kind
	}

	var ok bool
	if filter.DateFrom, ok = h.ParseDateQuery(c, query.DateFrom, "dateFrom"); !ok {
		return
	}
	if filter.DateTo, ok = h.ParseDateQuery(c, query.DateTo, "dateTo"); !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: items})
}

// Summary returns aggregated revenue, expense and net for a branch.
func (h *FinanceHandler) Summary(c *gin.Context) {
	var query dto.SummaryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	branchID, err := id.Parse(query.BranchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	var from, to time.Time
	if t, ok := h.ParseDateQuery(c, query.DateFrom, "dateFrom"); !ok {
		return
	} else if t != nil {
		from = *t
	}
	if t, ok := h.ParseDateQuery(c, query.DateTo, "dateTo"); !ok {
		return
	} else if t != nil {
		to = *t
	}

	summary, err := h.service.Summarize(c.Request.Context(), branchID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SummaryResponse{
		BranchID: branchID.String(),
		Revenue:  summary.Revenue,
		Expense:  summary.Expense,
		Net:      summary.Net,
	})
}
