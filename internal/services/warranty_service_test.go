// internal/services/warranty_service_test.go
package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type WarrantyServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *WarrantyService

	vendor  *models.User
	product *models.Product
}

func (s *WarrantyServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewWarrantyService(s.db, NewAuditService(s.db), 12)

	s.vendor = createTestUser(s.T(), s.db, "vendor", models.UserRoleVendor, models.UserStatusActive)
	s.product = createTestProduct(s.T(), s.db, "Seat Cover", 1500)
}

func (s *WarrantyServiceTestSuite) vendorActor() Actor {
	return Actor{ID: s.vendor.ID, Name: s.vendor.Name, Email: s.vendor.Email}
}

func (s *WarrantyServiceTestSuite) registerRequest() *RegisterWarrantyRequest {
	return &RegisterWarrantyRequest{
		ProductID:     s.product.ID,
		CustomerName:  "Asha Kumar",
		CustomerPhone: "+919876543210",
		PurchaseDate:  time.Now().AddDate(0, 0, -7),
	}
}

func (s *WarrantyServiceTestSuite) TestRegisterAppliesDefaults() {
	warranty, err := s.service.Register(s.vendorActor(), s.registerRequest())
	s.Require().NoError(err)

	s.True(strings.HasPrefix(warranty.Code, "WR-"))
	s.Equal(12, warranty.DurationMonths)
	s.Equal(models.WarrantyStatusActive, warranty.Status)
	s.Require().NotNil(warranty.RegisteredBy)
	s.Equal(s.vendor.ID, *warranty.RegisteredBy)
	s.Equal("Seat Cover", warranty.Product.Name)

	// Registration is audited.
	var entry models.AuditLog
	s.Require().NoError(s.db.Where("action = ?", "warranty.register").First(&entry).Error)
	s.Equal(warranty.Code, entry.ResourceName)
}

func (s *WarrantyServiceTestSuite) TestRegisterKeepsExplicitDuration() {
	req := s.registerRequest()
	req.DurationMonths = 24

	warranty, err := s.service.Register(s.vendorActor(), req)
	s.Require().NoError(err)
	s.Equal(24, warranty.DurationMonths)
}

func (s *WarrantyServiceTestSuite) TestRegisterRejectsBadPhone() {
	req := s.registerRequest()
	req.CustomerPhone = "not-a-phone"

	_, err := s.service.Register(s.vendorActor(), req)
	s.Require().Error(err)
	s.Contains(err.Error(), "validation failed")
}

func (s *WarrantyServiceTestSuite) TestRegisterUnknownProduct() {
	req := s.registerRequest()
	req.ProductID = newUUID()

	_, err := s.service.Register(s.vendorActor(), req)
	s.Require().Error(err)
	s.Contains(err.Error(), "product not found")
}

func (s *WarrantyServiceTestSuite) TestAuditFailureDoesNotBlockWarrantyWrites() {
	// Audit entries are best effort: a failed insert is logged, never
	// surfaced to the caller.
	s.Require().NoError(s.db.Migrator().DropTable(&models.AuditLog{}))

	warranty, err := s.service.Register(s.vendorActor(), s.registerRequest())
	s.Require().NoError(err)
	s.Equal(models.WarrantyStatusActive, warranty.Status)

	s.Require().NoError(s.service.Void(s.vendorActor(), warranty.ID, "duplicate entry"))

	var voided models.Warranty
	s.Require().NoError(s.db.First(&voided, "id = ?", warranty.ID).Error)
	s.Equal(models.WarrantyStatusVoid, voided.Status)
}

func (s *WarrantyServiceTestSuite) TestValidateActiveWarranty() {
	warranty, err := s.service.Register(s.vendorActor(), s.registerRequest())
	s.Require().NoError(err)

	result, err := s.service.Validate(warranty.Code)
	s.Require().NoError(err)

	s.True(result.Valid)
	s.Equal(models.WarrantyStatusActive, result.Status)
	s.Greater(result.RemainingDays, 300)
	s.Require().NotNil(result.ExpiresAt)
	s.Equal(warranty.ExpiresAt().Unix(), result.ExpiresAt.Unix())
}

func (s *WarrantyServiceTestSuite) TestValidateFlipsExpiredStatus() {
	req := s.registerRequest()
	req.PurchaseDate = time.Now().AddDate(-2, 0, 0)

	warranty, err := s.service.Register(s.vendorActor(), req)
	s.Require().NoError(err)

	result, err := s.service.Validate(warranty.Code)
	s.Require().NoError(err)

	s.False(result.Valid)
	s.Equal(models.WarrantyStatusExpired, result.Status)
	s.Equal(0, result.RemainingDays)

	// The flip is persisted, not just reported.
	var stored models.Warranty
	s.Require().NoError(s.db.First(&stored, "id = ?", warranty.ID).Error)
	s.Equal(models.WarrantyStatusExpired, stored.Status)
}

func (s *WarrantyServiceTestSuite) TestValidateUnknownCode() {
	_, err := s.service.Validate("WR-2026-NOPE")
	s.Require().Error(err)
	s.Contains(err.Error(), "warranty not found")
}

func (s *WarrantyServiceTestSuite) TestVoidIsIdempotent() {
	warranty, err := s.service.Register(s.vendorActor(), s.registerRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Void(s.vendorActor(), warranty.ID, "fraudulent registration"))
	s.Require().NoError(s.service.Void(s.vendorActor(), warranty.ID, "again"))

	result, err := s.service.Validate(warranty.Code)
	s.Require().NoError(err)
	s.False(result.Valid)
	s.Equal(models.WarrantyStatusVoid, result.Status)
}

func (s *WarrantyServiceTestSuite) TestListByRegistrar() {
	_, err := s.service.Register(s.vendorActor(), s.registerRequest())
	s.Require().NoError(err)

	other := createTestUser(s.T(), s.db, "other-vendor", models.UserRoleVendor, models.UserStatusActive)
	otherReq := s.registerRequest()
	otherReq.CustomerName = "Vikram Singh"
	_, err = s.service.Register(Actor{ID: other.ID}, otherReq)
	s.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
	warranties, total, err := s.service.ListByRegistrar(s.vendor.ID, params)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(warranties, 1)
	s.Equal("Asha Kumar", warranties[0].CustomerName)

	params.Search = "Vikram"
	_, total, err = s.service.ListByRegistrar(s.vendor.ID, params)
	s.Require().NoError(err)
	s.Equal(int64(0), total)
}

func TestWarrantyServiceSuite(t *testing.T) {
	suite.Run(t, new(WarrantyServiceTestSuite))
}
