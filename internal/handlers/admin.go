// internal/handlers/admin.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/services"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type AdminHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
}

func NewAdminHandler(authService *services.AuthService, auditService *services.AuditService) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		auditService: auditService,
	}
}

// POST /admin/vendors
func (h *AdminHandler) CreateVendor(c *gin.Context) {
	var req services.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	vendor, err := h.authService.CreateVendor(actorFromContext(c), &req)
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		if strings.Contains(err.Error(), "already registered") {
			utils.ConflictResponse(c, "Email already registered")
			return
		}
		utils.InternalErrorResponse(c, "Failed to create vendor")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Vendor created successfully",
		"vendor":  vendor,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.auditService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch audit logs")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}
