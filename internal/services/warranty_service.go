// internal/services/warranty_service.go
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

type WarrantyService struct {
	db           *gorm.DB
	auditService *AuditService
	defaultTerm  int
}

func NewWarrantyService(db *gorm.DB, auditService *AuditService, defaultTermMonths int) *WarrantyService {
	if defaultTermMonths <= 0 {
		defaultTermMonths = 12
	}
	return &WarrantyService{
		db:           db,
		auditService: auditService,
		defaultTerm:  defaultTermMonths,
	}
}

type RegisterWarrantyRequest struct {
	ProductID      uuid.UUID              `json:"product_id" validate:"required"`
	CustomerName   string                 `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail  string                 `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone  string                 `json:"customer_phone" validate:"required,phone"`
	VehicleDetails map[string]interface{} `json:"vehicle_details,omitempty"`
	PurchaseDate   time.Time              `json:"purchase_date" validate:"required"`
	DurationMonths int                    `json:"duration_months" validate:"omitempty,min=1,max=120"`
}

type WarrantyValidation struct {
	Valid         bool                  `json:"valid"`
	Status        models.WarrantyStatus `json:"status"`
	Warranty      *models.Warranty      `json:"warranty,omitempty"`
	RemainingDays int                   `json:"remaining_days"`
	ExpiresAt     *time.Time            `json:"expires_at,omitempty"`
}

func (s *WarrantyService) Register(actor Actor, req *RegisterWarrantyRequest) (*models.Warranty, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	code, err := utils.GenerateWarrantyCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate warranty code: %w", err)
	}

	duration := req.DurationMonths
	if duration == 0 {
		duration = s.defaultTerm
	}

	warranty := &models.Warranty{
		Code:           code,
		ProductID:      req.ProductID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		VehicleDetails: models.JSONB(req.VehicleDetails),
		PurchaseDate:   req.PurchaseDate,
		DurationMonths: duration,
		Status:         models.WarrantyStatusActive,
	}
	if actor.ID != uuid.Nil {
		registeredBy := actor.ID
		warranty.RegisteredBy = &registeredBy
	}

	if err := s.db.Create(warranty).Error; err != nil {
		return nil, fmt.Errorf("failed to register warranty: %w", err)
	}

	if s.auditService != nil {
		auditErr := s.auditService.Record(actor, "warranty.register", "warranty", warranty.ID, warranty.Code, models.JSONB{
			"product_id":      req.ProductID.String(),
			"customer_phone":  req.CustomerPhone,
			"duration_months": duration,
		})
		if auditErr != nil {
			logrus.WithError(auditErr).WithField("warranty_id", warranty.ID).Error("Failed to record warranty audit entry")
		}
	}

	warranty.Product = product
	return warranty, nil
}

// Validate looks up a warranty by code and reports remaining coverage. A
// warranty found past its coverage window is flipped to expired before the
// result is returned.
func (s *WarrantyService) Validate(code string) (*WarrantyValidation, error) {
	var warranty models.Warranty
	if err := s.db.Preload("Product").First(&warranty, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("warranty not found")
		}
		return nil, fmt.Errorf("failed to fetch warranty: %w", err)
	}

	expiresAt := warranty.ExpiresAt()
	now := time.Now()

	if warranty.Status == models.WarrantyStatusActive && now.After(expiresAt) {
		if err := s.db.Model(&warranty).
			Update("status", models.WarrantyStatusExpired).Error; err != nil {
			return nil, fmt.Errorf("failed to update warranty: %w", err)
		}
		warranty.Status = models.WarrantyStatusExpired
	}

	validation := &WarrantyValidation{
		Status:    warranty.Status,
		Warranty:  &warranty,
		ExpiresAt: &expiresAt,
	}
	if warranty.Status == models.WarrantyStatusActive {
		validation.Valid = true
		validation.RemainingDays = int(expiresAt.Sub(now).Hours() / 24)
	}

	return validation, nil
}

func (s *WarrantyService) ListByRegistrar(vendorID uuid.UUID, params utils.PaginationParams) ([]models.Warranty, int64, error) {
	query := s.db.Model(&models.Warranty{}).Where("registered_by = ?", vendorID).Preload("Product")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("code LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ?", searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count warranties: %w", err)
	}

	allowedSortFields := []string{"created_at", "purchase_date", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var warranties []models.Warranty
	if err := query.Find(&warranties).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch warranties: %w", err)
	}

	return warranties, total, nil
}

func (s *WarrantyService) Void(actor Actor, id uuid.UUID, reason string) error {
	var warranty models.Warranty
	if err := s.db.First(&warranty, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("warranty not found")
		}
		return fmt.Errorf("failed to fetch warranty: %w", err)
	}

	if warranty.Status == models.WarrantyStatusVoid {
		return nil
	}

	if err := s.db.Model(&warranty).Update("status", models.WarrantyStatusVoid).Error; err != nil {
		return fmt.Errorf("failed to void warranty: %w", err)
	}

	if s.auditService != nil {
		auditErr := s.auditService.Record(actor, "warranty.void", "warranty", warranty.ID, warranty.Code, models.JSONB{
			"reason": reason,
		})
		if auditErr != nil {
			logrus.WithError(auditErr).WithField("warranty_id", warranty.ID).Error("Failed to record warranty audit entry")
		}
	}

	return nil
}
