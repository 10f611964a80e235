package handlers

import (
	"github.com/gin-gonic/gin"

	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires product endpoints.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
}

// Create adds a catalog entry.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productType, err := product.ParseType(req.ProductType)
	if err != nil {
		h.Error(c, err)
		return
	}

	p := product.NewProduct(req.Code, req.Name, productType)
	p.Brand = req.Brand
	p.Description = req.Description
	p.FlourKG = req.FlourKG
	p.YeastKG = req.YeastKG
	p.EnhancerKG = req.EnhancerKG
	if req.WaterBirr != nil {
		p.WaterBirr = *req.WaterBirr
	}
	if req.ElectricityBirr != nil {
		p.ElectricityBirr = *req.ElectricityBirr
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.CostPerKG != nil {
		p.CostPerKG = *req.CostPerKG
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID)
}

// List returns products of one type (?productType=bread).
func (h *ProductHandler) List(c *gin.Context) {
	productType, err := product.ParseType(c.Query("productType"))
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), productType)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items})
}

// GetByID returns one catalog entry.
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Update modifies a catalog entry.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	p.Version = req.Version
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = req.Brand
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.FlourKG != nil {
		p.FlourKG = *req.FlourKG
	}
	if req.YeastKG != nil {
		p.YeastKG = *req.YeastKG
	}
	if req.EnhancerKG != nil {
		p.EnhancerKG = *req.EnhancerKG
	}
	if req.WaterBirr != nil {
		p.WaterBirr = *req.WaterBirr
	}
	if req.ElectricityBirr != nil {
		p.ElectricityBirr = *req.ElectricityBirr
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.CostPerKG != nil {
		p.CostPerKG = *req.CostPerKG
	}

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}
