// internal/handlers/warranty.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/services"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type WarrantyHandler struct {
	warrantyService *services.WarrantyService
}

func NewWarrantyHandler(warrantyService *services.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{warrantyService: warrantyService}
}

// POST /warranty/register
func (h *WarrantyHandler) Register(c *gin.Context) {
	var req services.RegisterWarrantyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	warranty, err := h.warrantyService.Register(actorFromContext(c), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "Failed to register warranty")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  "Warranty registered successfully",
		"warranty": warranty,
	})
}

// GET /warranty/validate/:code
func (h *WarrantyHandler) Validate(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		utils.BadRequestResponse(c, "Warranty code is required", nil)
		return
	}

	result, err := h.warrantyService.Validate(code)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Warranty")
			return
		}
		utils.InternalErrorResponse(c, "Failed to validate warranty")
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /warranty
func (h *WarrantyHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	params := utils.GetPaginationParams(c)
	warranties, total, err := h.warrantyService.ListByRegistrar(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch warranties")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(warranties, total, params))
}

// PUT /admin/warranties/:id/void
func (h *WarrantyHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warranty ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if err := h.warrantyService.Void(actorFromContext(c), id, req.Reason); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Warranty")
			return
		}
		utils.InternalErrorResponse(c, "Failed to void warranty")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Warranty voided",
	})
}
