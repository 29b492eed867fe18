// internal/services/audit_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

// Actor identifies the authenticated user performing an action. Handlers
// build it from the request once and thread it through service calls;
// services never read ambient request state.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Email     string
	IPAddress string
	UserAgent string
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(actor Actor, action, resourceType string, resourceID uuid.UUID, resourceName string, newValues models.JSONB) error {
	entry := &models.AuditLog{
		ActorName:    actor.Name,
		ActorEmail:   actor.Email,
		Action:       action,
		ResourceType: resourceType,
		ResourceName: resourceName,
		NewValues:    newValues,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	}
	if actor.ID != uuid.Nil {
		id := actor.ID
		entry.ActorID = &id
	}
	if resourceID != uuid.Nil {
		id := resourceID
		entry.ResourceID = &id
	}

	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (s *AuditService) List(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("action LIKE ? OR resource_name LIKE ? OR actor_email LIKE ?", searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "resource_type"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}
