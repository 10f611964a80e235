package handlers

import (
	"github.com/gin-gonic/gin"

	"bakeops/internal/core/id"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/documents/stocktxn"
	"bakeops/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock transaction log.
type StockHandler struct {
	*BaseHandler
	service *stocktxn.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stocktxn.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires stock endpoints.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

// Record commits one stock movement.
func (h *StockHandler) Record(c *gin.Context) {
	var req dto.RecordStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productType, err := product.ParseType(req.ProductType)
	if err != nil {
		h.Error(c, err)
		return
	}

	direction, err := stocktxn.ParseDirection(req.Direction)
	if err != nil {
		h.Error(c, err)
		return
	}

	branchID, err := id.Parse(req.BranchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	txn, err := h.service.Record(c.Request.Context(), stocktxn.RecordInput{
		BranchID:      branchID,
		ProductType:   productType,
		ProductChoice: req.Product,
		Direction:     direction,
		Quantity:      req.Quantity,
		Note:          req.Note,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, txn)
}

// List returns log entries matching the query, newest first.
func (h *StockHandler) List(c *gin.Context) {
	var query dto.StockListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	query.Defaults()

	filter := stocktxn.Filter{
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
	if query.Direction != "" {
		direction, err := stocktxn.ParseDirection(query.Direction)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.Direction = &direction
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

	total, err := h.service.Count(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.PagedListResponse{
		Items:      items,
		Pagination: dto.NewPaginationResponse(query.Page, query.PageSize, total),
	})
}

// GetByID returns one log entry.
func (h *StockHandler) GetByID(c *gin.Context) {
	txnID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	txn, err := h.service.GetByID(c.Request.Context(), txnID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, txn)
}
