// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/config"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	utils.SetJWTSecret("test-secret")

	cfg := &config.Config{}
	cfg.JWT.AccessTokenTTL = 1
	s.service = NewAuthService(s.db, cfg)
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	user := createTestUser(s.T(), s.db, "vendor", models.UserRoleVendor, models.UserStatusActive)

	resp, err := s.service.Login(&LoginRequest{Email: user.Email, Password: "test-password"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal(user.ID, resp.User.ID)

	claims, err := utils.ValidateJWT(resp.Token)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), claims.UserID)
	s.Equal(string(models.UserRoleVendor), claims.Role)

	var stored models.User
	s.Require().NoError(s.db.First(&stored, "id = ?", user.ID).Error)
	s.NotNil(stored.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	user := createTestUser(s.T(), s.db, "vendor", models.UserRoleVendor, models.UserStatusActive)

	_, err := s.service.Login(&LoginRequest{Email: user.Email, Password: "wrong"})
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid credentials")
}

func (s *AuthServiceTestSuite) TestLoginUnknownEmailSameError() {
	_, err := s.service.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid credentials")
}

func (s *AuthServiceTestSuite) TestLoginInactiveAccount() {
	user := createTestUser(s.T(), s.db, "vendor", models.UserRoleVendor, models.UserStatusInactive)

	_, err := s.service.Login(&LoginRequest{Email: user.Email, Password: "test-password"})
	s.Require().Error(err)
	s.Contains(err.Error(), "not active")
}

func (s *AuthServiceTestSuite) TestCreateVendor() {
	vendor, err := s.service.CreateVendor(Actor{}, &CreateVendorRequest{
		Name:     "New Franchise",
		Email:    "franchise@example.com",
		Phone:    "+919876543210",
		Password: "strong-password",
	})
	s.Require().NoError(err)
	s.Equal(models.UserRoleVendor, vendor.Role)
	s.Equal(models.UserStatusActive, vendor.Status)
	s.NoError(vendor.CheckPassword("strong-password"))
}

func (s *AuthServiceTestSuite) TestCreateVendorDuplicateEmail() {
	req := &CreateVendorRequest{
		Name:     "New Franchise",
		Email:    "franchise@example.com",
		Phone:    "+919876543210",
		Password: "strong-password",
	}
	_, err := s.service.CreateVendor(Actor{}, req)
	s.Require().NoError(err)

	_, err = s.service.CreateVendor(Actor{}, req)
	s.Require().Error(err)
	s.Contains(err.Error(), "already registered")
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
