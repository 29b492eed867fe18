// internal/handlers/grievance.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/services"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type GrievanceHandler struct {
	grievanceService *services.GrievanceService
}

func NewGrievanceHandler(grievanceService *services.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{grievanceService: grievanceService}
}

// POST /grievances
func (h *GrievanceHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req services.CreateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	grievance, err := h.grievanceService.Create(userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Warranty")
			return
		}
		utils.InternalErrorResponse(c, "Failed to create grievance")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   "Grievance submitted successfully",
		"grievance": grievance,
	})
}

// GET /grievances
func (h *GrievanceHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	params := utils.GetPaginationParams(c)
	grievances, total, err := h.grievanceService.ListByRaiser(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch grievances")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(grievances, total, params))
}

// GET /grievances/:id
func (h *GrievanceHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid grievance ID", nil)
		return
	}

	grievance, err := h.grievanceService.GetByID(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Grievance")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch grievance")
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	if grievance.RaisedBy != userID && role != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c, "Access denied")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"grievance": grievance,
	})
}

// GET /admin/grievances?status=
func (h *GrievanceHandler) ListAll(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.GrievanceStatus(c.Query("status"))

	grievances, total, err := h.grievanceService.ListAll(status, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch grievances")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(grievances, total, params))
}

// PUT /admin/grievances/:id/status
func (h *GrievanceHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid grievance ID", nil)
		return
	}

	var req services.UpdateGrievanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	grievance, err := h.grievanceService.UpdateStatus(actorFromContext(c), id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Grievance")
			return
		}
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		if strings.Contains(err.Error(), "transition") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, "Failed to update grievance")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   "Grievance status updated",
		"grievance": grievance,
	})
}
