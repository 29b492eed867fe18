// internal/services/grievance_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

// allowedGrievanceTransitions constrains status changes; anything not
// listed is rejected.
var allowedGrievanceTransitions = map[models.GrievanceStatus][]models.GrievanceStatus{
	models.GrievanceStatusOpen:       {models.GrievanceStatusInProgress, models.GrievanceStatusResolved, models.GrievanceStatusClosed},
	models.GrievanceStatusInProgress: {models.GrievanceStatusResolved, models.GrievanceStatusClosed},
	models.GrievanceStatusResolved:   {models.GrievanceStatusClosed, models.GrievanceStatusReopened},
	models.GrievanceStatusClosed:     {models.GrievanceStatusReopened},
	models.GrievanceStatusReopened:   {models.GrievanceStatusInProgress, models.GrievanceStatusResolved, models.GrievanceStatusClosed},
}

type GrievanceService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

func NewGrievanceService(db *gorm.DB, notificationService *NotificationService) *GrievanceService {
	return &GrievanceService{
		db:                  db,
		notificationService: notificationService,
	}
}

type CreateGrievanceRequest struct {
	WarrantyID  *uuid.UUID `json:"warranty_id,omitempty"`
	Subject     string     `json:"subject" validate:"required,min=3,max=255"`
	Description string     `json:"description" validate:"required,min=10"`
	Category    string     `json:"category" validate:"omitempty,max=50"`
}

type UpdateGrievanceStatusRequest struct {
	Status     models.GrievanceStatus `json:"status" validate:"required,oneof=open in_progress resolved closed reopened"`
	Resolution string                 `json:"resolution,omitempty"`
	AssignedTo *uuid.UUID             `json:"assigned_to,omitempty"`
}

func (s *GrievanceService) Create(raisedBy uuid.UUID, req *CreateGrievanceRequest) (*models.Grievance, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.WarrantyID != nil {
		var warranty models.Warranty
		if err := s.db.First(&warranty, "id = ?", *req.WarrantyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("warranty not found")
			}
			return nil, fmt.Errorf("failed to fetch warranty: %w", err)
		}
	}

	grievance := &models.Grievance{
		RaisedBy:    raisedBy,
		WarrantyID:  req.WarrantyID,
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.GrievanceStatusOpen,
	}

	if err := s.db.Create(grievance).Error; err != nil {
		return nil, fmt.Errorf("failed to create grievance: %w", err)
	}

	return grievance, nil
}

func (s *GrievanceService) GetByID(id uuid.UUID) (*models.Grievance, error) {
	var grievance models.Grievance
	if err := s.db.Preload("Raiser").Preload("Warranty").First(&grievance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("grievance not found")
		}
		return nil, fmt.Errorf("failed to fetch grievance: %w", err)
	}
	return &grievance, nil
}

func (s *GrievanceService) ListByRaiser(raisedBy uuid.UUID, params utils.PaginationParams) ([]models.Grievance, int64, error) {
	return s.list(s.db.Model(&models.Grievance{}).Where("raised_by = ?", raisedBy), params)
}

func (s *GrievanceService) ListAll(status models.GrievanceStatus, params utils.PaginationParams) ([]models.Grievance, int64, error) {
	query := s.db.Model(&models.Grievance{}).Preload("Raiser")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return s.list(query, params)
}

func (s *GrievanceService) list(query *gorm.DB, params utils.PaginationParams) ([]models.Grievance, int64, error) {
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("subject LIKE ? OR description LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count grievances: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "category"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var grievances []models.Grievance
	if err := query.Find(&grievances).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch grievances: %w", err)
	}

	return grievances, total, nil
}

// UpdateStatus applies an allowed transition, then notifies the raiser as a
// best-effort side effect after the write commits.
func (s *GrievanceService) UpdateStatus(actor Actor, id uuid.UUID, req *UpdateGrievanceStatusRequest) (*models.Grievance, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var grievance models.Grievance
	if err := s.db.First(&grievance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("grievance not found")
		}
		return nil, fmt.Errorf("failed to fetch grievance: %w", err)
	}

	if !transitionAllowed(grievance.Status, req.Status) {
		return nil, fmt.Errorf("cannot transition grievance from %s to %s", grievance.Status, req.Status)
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Resolution != "" {
		updates["resolution"] = req.Resolution
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Status == models.GrievanceStatusResolved {
		now := time.Now()
		updates["resolved_at"] = &now
	}

	if err := s.db.Model(&grievance).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update grievance: %w", err)
	}
	grievance.Status = req.Status

	if s.notificationService != nil {
		err := s.notificationService.NotifyUser(grievance.RaisedBy, models.NotificationTypeAlert,
			"Grievance Update: "+grievance.Subject,
			fmt.Sprintf("Your grievance is now %s.", req.Status),
			"/grievances/"+grievance.ID.String())
		if err != nil {
			logrus.WithError(err).WithField("grievance_id", grievance.ID).
				Error("Failed to notify grievance raiser")
		}
	}

	return &grievance, nil
}

func transitionAllowed(from, to models.GrievanceStatus) bool {
	for _, allowed := range allowedGrievanceTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
