// internal/handlers/posm.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/services"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type PosmHandler struct {
	posmService *services.PosmService
}

func NewPosmHandler(posmService *services.PosmService) *PosmHandler {
	return &PosmHandler{posmService: posmService}
}

// POST /posm
func (h *PosmHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req services.CreatePosmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	request, err := h.posmService.Create(userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		utils.InternalErrorResponse(c, "Failed to create request")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "POSM request submitted successfully",
		"request": request,
	})
}

// GET /posm
func (h *PosmHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	params := utils.GetPaginationParams(c)
	requests, total, err := h.posmService.ListByVendor(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch requests")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /posm/:id
func (h *PosmHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return
	}

	request, err := h.posmService.GetByID(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "POSM request")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch request")
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	if request.VendorID != userID && role != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c, "Access denied")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"request": request,
	})
}

// POST /posm/:id/messages
func (h *PosmHandler) AddMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return
	}

	var req services.PosmMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	message, err := h.posmService.AddMessage(userID, models.UserRole(role), id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "POSM request")
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, "Access denied")
			return
		}
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		utils.InternalErrorResponse(c, "Failed to add message")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
	})
}

// GET /admin/posm?status=
func (h *PosmHandler) ListAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.PosmStatus(c.Query("status"))

	requests, total, err := h.posmService.ListAll(status, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch requests")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// PUT /admin/posm/:id/status
func (h *PosmHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return
	}

	var req services.UpdatePosmStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	request, err := h.posmService.UpdateStatus(actorFromContext(c), id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "POSM request")
			return
		}
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		utils.InternalErrorResponse(c, "Failed to update request")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Request status updated",
		"request": request,
	})
}
