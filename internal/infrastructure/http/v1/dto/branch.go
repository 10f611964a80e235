package dto

// CreateBranchRequest for creating branches.
type CreateBranchRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	City    string  `json:"city" binding:"required"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// UpdateBranchRequest for updating branches.
type UpdateBranchRequest struct {
	Name    *string `json:"name"`
	City    *string `json:"city"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Version int     `json:"version" binding:"required,min=1"`
}
