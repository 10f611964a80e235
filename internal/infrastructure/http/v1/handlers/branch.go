package handlers

import (
	"github.com/gin-gonic/gin"

	"bakeops/internal/domain/catalogs/branch"
	"bakeops/internal/infrastructure/http/v1/dto"
)

// BranchHandler serves the branch catalog.
type BranchHandler struct {
	*BaseHandler
	service *branch.Service
}

// NewBranchHandler creates a branch handler.
func NewBranchHandler(base *BaseHandler, service *branch.Service) *BranchHandler {
	return &BranchHandler{BaseHandler: base, service: service}
}

// RegisterRoutes wires branch endpoints.
func (h *BranchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
}

// Create adds a new branch.
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := branch.NewBranch(req.Code, req.Name, req.City)
	b.Address = req.Address
	b.Phone = req.Phone

	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, b.ID)
}

// List returns all branches.
func (h *BranchHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items})
}

// GetByID returns one branch.
func (h *BranchHandler) GetByID(c *gin.Context) {
	branchID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Update modifies a branch.
func (h *BranchHandler) Update(c *gin.Context) {
	branchID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b.Version = req.Version
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.City != nil {
		b.City = *req.City
	}
	if req.Address != nil {
		b.Address = req.Address
	}
	if req.Phone != nil {
		b.Phone = req.Phone
	}

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}
