package handlers

import (
	"github.com/gin-gonic/gin"

	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/registers/inventory"
	"bakeops/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves the balance register.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires inventory endpoints. Rebuild is admin-only and is
// registered separately by the router.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:branchId", h.ListByBranch)
	rg.GET("/:branchId/:productType/:productName", h.GetBalance)
}

// ListByBranch returns all balances at a branch, optionally narrowed by
// ?productType=.
func (h *InventoryHandler) ListByBranch(c *gin.Context) {
	branchID, ok := h.ParseIDParam(c, "branchId")
	if !ok {
		return
	}

	if raw := c.Query("productType"); raw != "" {
		productType, err := product.ParseType(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		items, err := h.service.ListByBranchAndType(c.Request.Context(), branchID, productType)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.ListResponse{Items: items})
		return
	}

	items, err := h.service.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items})
}

// GetBalance returns the balance for one register key.
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	branchID, ok := h.ParseIDParam(c, "branchId")
	if !ok {
		return
	}

	productType, err := product.ParseType(c.Param("productType"))
	if err != nil {
		h.Error(c, err)
		return
	}

	bal, err := h.service.GetBalance(c.Request.Context(), inventory.Key{
		BranchID:    branchID,
		ProductType: productType,
		ProductName: c.Param("productName"),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, bal)
}

// Rebuild re-derives a branch's balances from the transaction log.
func (h *InventoryHandler) Rebuild(c *gin.Context) {
	branchID, ok := h.ParseIDParam(c, "branchId")
	if !ok {
		return
	}

	if err := h.service.Rebuild(c.Request.Context(), branchID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balances rebuilt")
}
