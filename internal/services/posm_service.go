// internal/services/posm_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type PosmService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

func NewPosmService(db *gorm.DB, notificationService *NotificationService) *PosmService {
	return &PosmService{
		db:                  db,
		notificationService: notificationService,
	}
}

type CreatePosmRequest struct {
	Item     string `json:"item" validate:"required,min=2,max=255"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Note     string `json:"note,omitempty"`
}

type PosmMessageRequest struct {
	Body string `json:"body" validate:"required,min=1"`
}

type UpdatePosmStatusRequest struct {
	Status models.PosmStatus `json:"status" validate:"required,oneof=pending approved dispatched delivered rejected"`
	Note   string            `json:"note,omitempty"`
}

func (s *PosmService) Create(vendorID uuid.UUID, req *CreatePosmRequest) (*models.PosmRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	request := &models.PosmRequest{
		VendorID: vendorID,
		Item:     req.Item,
		Quantity: req.Quantity,
		Note:     req.Note,
		Status:   models.PosmStatusPending,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create posm request: %w", err)
	}

	return request, nil
}

func (s *PosmService) GetByID(id uuid.UUID) (*models.PosmRequest, error) {
	var request models.PosmRequest
	err := s.db.Preload("Vendor").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.Author").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("posm request not found")
		}
		return nil, fmt.Errorf("failed to fetch posm request: %w", err)
	}
	return &request, nil
}

func (s *PosmService) ListByVendor(vendorID uuid.UUID, params utils.PaginationParams) ([]models.PosmRequest, int64, error) {
	return s.list(s.db.Model(&models.PosmRequest{}).Where("vendor_id = ?", vendorID), params)
}

func (s *PosmService) ListAll(status models.PosmStatus, params utils.PaginationParams) ([]models.PosmRequest, int64, error) {
	query := s.db.Model(&models.PosmRequest{}).Preload("Vendor")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return s.list(query, params)
}

func (s *PosmService) list(query *gorm.DB, params utils.PaginationParams) ([]models.PosmRequest, int64, error) {
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("item LIKE ?", searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posm requests: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var requests []models.PosmRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posm requests: %w", err)
	}

	return requests, total, nil
}

// AddMessage appends to the request thread. Only the owning vendor or an
// admin may post.
func (s *PosmService) AddMessage(authorID uuid.UUID, authorRole models.UserRole, requestID uuid.UUID, req *PosmMessageRequest) (*models.PosmMessage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var request models.PosmRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("posm request not found")
		}
		return nil, fmt.Errorf("failed to fetch posm request: %w", err)
	}

	if authorRole != models.UserRoleAdmin && request.VendorID != authorID {
		return nil, errors.New("unauthorized to post on this request")
	}

	message := &models.PosmMessage{
		RequestID: requestID,
		AuthorID:  authorID,
		Body:      req.Body,
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create posm message: %w", err)
	}

	// Admin replies ping the vendor.
	if authorRole == models.UserRoleAdmin && s.notificationService != nil {
		err := s.notificationService.NotifyUser(request.VendorID, models.NotificationTypePosm,
			"New reply on your POSM request",
			fmt.Sprintf("The admin team replied on your request for %s.", request.Item),
			"/posm/"+request.ID.String())
		if err != nil {
			logrus.WithError(err).WithField("posm_request_id", request.ID).
				Error("Failed to notify vendor of posm reply")
		}
	}

	return message, nil
}

func (s *PosmService) UpdateStatus(actor Actor, id uuid.UUID, req *UpdatePosmStatusRequest) (*models.PosmRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var request models.PosmRequest
	if err := s.db.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("posm request not found")
		}
		return nil, fmt.Errorf("failed to fetch posm request: %w", err)
	}

	if request.Status == req.Status {
		return &request, nil
	}

	if err := s.db.Model(&request).Update("status", req.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to update posm request: %w", err)
	}
	request.Status = req.Status

	if s.notificationService != nil {
		err := s.notificationService.NotifyUser(request.VendorID, models.NotificationTypePosm,
			"POSM Request "+string(req.Status),
			fmt.Sprintf("Your request for %s is now %s.", request.Item, req.Status),
			"/posm/"+request.ID.String())
		if err != nil {
			logrus.WithError(err).WithField("posm_request_id", request.ID).
				Error("Failed to notify vendor of posm status change")
		}
	}

	return &request, nil
}
